package lexer

import (
	"errors"
	"fmt"
)

// LexerError is a tokenization failure at a rune offset in the source.
//
// Err holds the classifier error behind a malformed literal
// (ErrUnbalancedQuotes, ErrEmptyLiteral) and is nil otherwise.
type LexerError struct {
	Pos int
	Msg string
	Err error
}

// Error implements the error interface.
func (e *LexerError) Error() string {
	return fmt.Sprintf("lexer error: %s (position %d)", e.Msg, e.Pos)
}

// Unwrap exposes the classifier error, if any.
func (e *LexerError) Unwrap() error {
	return e.Err
}

// IsLexerError returns true if err is or wraps a *LexerError.
func IsLexerError(err error) bool {
	var le *LexerError
	return errors.As(err, &le)
}

func newError(pos int, format string, args ...any) *LexerError {
	return &LexerError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
