package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/plan"
	"github.com/roach88/sqlmongo/internal/translate"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Command  string   `json:"command"`
	Warnings []string `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a query and lint its plan",
		Long: `Translate a query and report lint warnings about its plan.

Warnings flag constructs that translate but may not mean what was intended:
SELECT *, repeated fields, operators passed through untranslated, and
double-quoted values (emitted without their quotes).

Exit codes:
  0 - Query is valid (warnings do not fail)
  1 - Query does not translate`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, query string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	tr := translate.New(translate.WithLogger(opts.Logger()))
	res, err := tr.Explain(query)
	if err != nil {
		return reportTranslationError(opts, cmd, query, err)
	}

	lint := plan.Validate(res.Plan)
	formatter.VerboseLog("plan has %d warning(s)", len(lint.Warnings))

	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Command:  res.Command,
			Warnings: lint.Warnings,
		})
	}

	printer := opts.printer(cmd)
	for _, w := range lint.Warnings {
		if err := printer.Warning(w); err != nil {
			return err
		}
	}

	if lint.IsClean {
		fmt.Fprintln(formatter.Writer, "✓ Query valid")
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Query valid (%d warning(s))\n", len(lint.Warnings))
	}
	return nil
}
