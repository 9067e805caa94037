package translate

import (
	"context"
	"errors"

	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/parser"
)

// ErrorKind classifies a translation failure.
type ErrorKind string

const (
	// KindNone means no error.
	KindNone ErrorKind = ""

	// KindLexical is a tokenization failure (*lexer.LexerError).
	KindLexical ErrorKind = "lexical"

	// KindGrammar is a grammar failure (*parser.GrammarError).
	KindGrammar ErrorKind = "grammar"

	// KindCanceled means the context ended before the query was translated.
	KindCanceled ErrorKind = "canceled"

	// KindInternal covers everything else, such as an emitter failure.
	KindInternal ErrorKind = "internal"
)

// Kind reports which stage err came from.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case lexer.IsLexerError(err):
		return KindLexical
	case parser.IsGrammarError(err):
		return KindGrammar
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

// Position returns the source rune offset carried by a lexical or grammar
// error.
func Position(err error) (int, bool) {
	var le *lexer.LexerError
	if errors.As(err, &le) {
		return le.Pos, true
	}
	var ge *parser.GrammarError
	if errors.As(err, &ge) {
		return ge.Pos, true
	}
	return 0, false
}

// Message returns the bare message of a lexical or grammar error, without
// the stage prefix and position. Other errors return err.Error().
func Message(err error) string {
	var le *lexer.LexerError
	if errors.As(err, &le) {
		return le.Msg
	}
	var ge *parser.GrammarError
	if errors.As(err, &ge) {
		return ge.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
