package parser

import (
	"errors"
	"fmt"
)

// GrammarError is a parse failure at the rune offset of the offending token.
// Structural pre-checks (keyword count, balance) report position 0.
type GrammarError struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar error: %s (position %d)", e.Msg, e.Pos)
}

// IsGrammarError returns true if err is or wraps a *GrammarError.
func IsGrammarError(err error) bool {
	var ge *GrammarError
	return errors.As(err, &ge)
}

func fail(pos int, msg string) *GrammarError {
	return &GrammarError{Pos: pos, Msg: msg}
}

// Messages reported by the builder.
const (
	msgKeywordCount   = "SELECT and FROM keywords should both appear exactly once"
	msgSelectFirst    = "SELECT must be the first keyword"
	msgUnbalanced     = "brackets are not balanced"
	msgStarNotLast    = "must be FROM keyword after STAR char"
	msgAfterField     = "after SELECT argument should be comma or FROM keyword"
	msgAfterComma     = "after comma must be another argument"
	msgSelectArgs     = "after SELECT must be argument/s"
	msgFromArg        = "should be 1 argument after FROM"
	msgEmptyWhere     = "WHERE clause is empty"
	msgAfterOpenParen = "wrong argument after open bracket"
	msgAfterBoolean   = "wrong argument after or/and"
	msgWrongArgument  = "wrong argument"
	msgMissingBoolean = "missing or/and between conditions"
)
