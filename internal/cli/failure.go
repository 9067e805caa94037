package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/history"
	"github.com/roach88/sqlmongo/internal/translate"
)

// TranslationError is the JSON form of a failed translation.
type TranslationError struct {
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Message  string `json:"message"`
}

// describeError classifies a translation error. Position is -1 when the
// error carries none.
func describeError(err error) TranslationError {
	te := TranslationError{
		Code:     errorCode(err),
		Kind:     string(translate.Kind(err)),
		Position: history.NoPosition,
		Message:  translate.Message(err),
	}
	if pos, ok := translate.Position(err); ok {
		te.Position = pos
	}
	return te
}

// errorCode maps a translation error to its CLI error code.
func errorCode(err error) string {
	switch translate.Kind(err) {
	case translate.KindLexical:
		return ErrCodeLexical
	case translate.KindGrammar:
		return ErrCodeGrammar
	case translate.KindCanceled:
		return ErrCodeInput
	default:
		return ErrCodeInternal
	}
}

// reportTranslationError prints a failed translation of query and returns
// the ExitError the command should return. Text output gets a caret
// diagnostic on stderr; JSON output gets an error response on stdout.
func reportTranslationError(opts *RootOptions, cmd *cobra.Command, query string, err error) error {
	te := describeError(err)

	f := opts.formatter(cmd)
	if f.IsJSON() {
		if werr := f.Error(te.Code, te.Message, map[string]any{
			"query":    query,
			"kind":     te.Kind,
			"position": te.Position,
		}); werr != nil {
			return WrapExitError(ExitCommandError, "write output", werr)
		}
	} else {
		if perr := opts.printer(cmd).Error(query, te.Position, te.Kind, te.Message); perr != nil {
			return WrapExitError(ExitCommandError, "write diagnostics", perr)
		}
	}

	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", te.Code, te.Message))
}
