package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// HistoryOutput is the JSON payload of the history command.
type HistoryOutput struct {
	Entries []history.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded translations",
		Long: `List the most recent translations recorded with --history, oldest first.

The database defaults to the history setting of the config file.

Examples:
  sqlmongo history --db ~/.sqlmongo.db
  sqlmongo history --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database path (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many entries (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	path := opts.DB
	if path == "" {
		path = opts.defaultHistory()
	}
	if path == "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no history database (use --db or set history in the config)", ErrCodeInput))
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: --limit must not be negative", ErrCodeInput))
	}

	store, err := history.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeStore+": open history", err)
	}
	defer store.Close()

	entries, err := store.List(commandContext(cmd), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeStore+": list history", err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(HistoryOutput{Entries: entries, Total: len(entries)})
	}

	if len(entries) == 0 {
		fmt.Fprintln(f.Writer, "No translations recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tQUERY\tRESULT")
	for _, e := range entries {
		outcome := e.Command
		if e.Failed() {
			outcome = fmt.Sprintf("%s error: %s", e.ErrorKind, e.ErrorMessage)
			if e.ErrorPos != history.NoPosition {
				outcome += fmt.Sprintf(" (position %d)", e.ErrorPos)
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Seq, e.Query, outcome)
	}
	return tw.Flush()
}
