package harness

import (
	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/plan"
)

// ErrorInfo describes a failed translation.
type ErrorInfo struct {
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Message  string `json:"message"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation holds.
	Pass bool `json:"pass"`

	Tokens   []lexer.Token   `json:"tokens"`
	Plan     *plan.QueryPlan `json:"plan"`
	Command  string          `json:"command,omitempty"`
	Warnings []string        `json:"warnings"`

	// Error is set when translation failed.
	Error *ErrorInfo `json:"error,omitempty"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Tokens:   []lexer.Token{},
		Warnings: []string{},
		Errors:   []string{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
