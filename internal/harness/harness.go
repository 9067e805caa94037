package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sqlmongo/internal/plan"
	"github.com/roach88/sqlmongo/internal/translate"
)

// Harness runs scenarios through a Translator.
type Harness struct {
	translator *translate.Translator
	logger     *slog.Logger
}

// New creates a Harness. A nil translator uses translate.New() and a nil
// logger discards output.
func New(tr *translate.Translator, logger *slog.Logger) *Harness {
	if tr == nil {
		tr = translate.New()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{translator: tr, logger: logger}
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil, nil).Run(scenario)
}

// Run translates the scenario query and evaluates its expectations. The
// returned error is reserved for scenarios that cannot run; a failed
// expectation only clears Result.Pass.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("nil scenario")
	}

	result := NewResult()

	res, err := h.translator.Explain(scenario.Query)
	if res != nil {
		if res.Tokens != nil {
			result.Tokens = res.Tokens
		}
		result.Plan = res.Plan
		result.Command = res.Command
	}

	if err != nil {
		info := &ErrorInfo{
			Kind:     string(translate.Kind(err)),
			Position: -1,
			Message:  translate.Message(err),
		}
		if pos, ok := translate.Position(err); ok {
			info.Position = pos
		}
		result.Error = info
	}

	if result.Plan != nil {
		result.Warnings = plan.Validate(result.Plan).Warnings
	}

	for _, msg := range checkExpectations(scenario.Expect, result) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"failures", len(result.Errors),
	)

	return result, nil
}
