package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/history"
	"github.com/roach88/sqlmongo/internal/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	File    string // one query per line; "-" reads stdin
	History string // history database path
	Workers int
}

// TranslateOutput is the JSON payload for a single query.
type TranslateOutput struct {
	Query   string `json:"query"`
	Command string `json:"command"`
}

// BatchItem is one line of a --file translation.
type BatchItem struct {
	Line    int               `json:"line"`
	Query   string            `json:"query"`
	Command string            `json:"command,omitempty"`
	Error   *TranslationError `json:"error,omitempty"`
}

// BatchOutput is the JSON payload for a --file translation.
type BatchOutput struct {
	Results []BatchItem `json:"results"`
	Failed  int         `json:"failed"`
	Total   int         `json:"total"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate [query]",
		Short: "Translate SQL to a MongoDB shell command",
		Long: `Translate one SQL query, or a file with one query per line.

Blank lines and lines starting with "--" are skipped in files.

Exit codes:
  0 - Every query translated
  1 - One or more queries failed to translate
  2 - Command error (no input, unreadable file, history database error)

Examples:
  sqlmongo translate "select a, b from c where a>20"
  sqlmongo translate --file queries.sql --workers 8
  cat queries.sql | sqlmongo translate -f -
  sqlmongo translate --history ~/.sqlmongo.db "select * from c"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", `read queries from file, one per line ("-" for stdin)`)
	cmd.Flags().StringVar(&opts.History, "history", "", "record translations in this history database")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel translations for --file (default from config, 4)")

	return cmd
}

func runTranslate(opts *TranslateOptions, args []string, cmd *cobra.Command) error {
	if len(args) == 1 && opts.File != "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: give a query or --file, not both", ErrCodeInput))
	}
	if len(args) == 0 && opts.File == "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: a query or --file is required", ErrCodeInput))
	}

	tr, closeStore, err := opts.newTranslator()
	if err != nil {
		return err
	}
	defer closeStore()

	if opts.File != "" {
		return runTranslateFile(opts, tr, cmd)
	}

	query := args[0]
	command, err := tr.TranslateContext(commandContext(cmd), query)
	if err != nil {
		return reportTranslationError(opts.RootOptions, cmd, query, err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(TranslateOutput{Query: query, Command: command})
	}
	return f.Success(command)
}

// newTranslator builds a Translator from flags and config. The returned
// func closes the history store, if one was opened.
func (o *TranslateOptions) newTranslator() (*translate.Translator, func(), error) {
	workers := o.Workers
	if workers <= 0 {
		workers = o.defaultWorkers()
	}

	options := []translate.Option{
		translate.WithLogger(o.Logger()),
		translate.WithWorkers(workers),
	}

	path := o.History
	if path == "" {
		path = o.defaultHistory()
	}
	if path == "" {
		return translate.New(options...), func() {}, nil
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, ErrCodeStore+": open history", err)
	}
	o.Logger().Debug("recording history", "db", path)

	options = append(options, translate.WithRecorder(store))
	return translate.New(options...), func() { store.Close() }, nil
}

func runTranslateFile(opts *TranslateOptions, tr *translate.Translator, cmd *cobra.Command) error {
	lines, queries, err := readQueries(opts.File, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInput+": read queries", err)
	}

	results := tr.TranslateAll(commandContext(cmd), queries)

	out := BatchOutput{Results: make([]BatchItem, 0, len(results)), Total: len(results)}
	for i, r := range results {
		item := BatchItem{Line: lines[i], Query: r.Query, Command: r.Command}
		if r.Err != nil {
			te := describeError(r.Err)
			item.Error = &te
			out.Failed++
		}
		out.Results = append(out.Results, item)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		if err := f.Success(out); err != nil {
			return err
		}
	} else {
		printer := opts.printer(cmd)
		for _, item := range out.Results {
			if item.Error == nil {
				fmt.Fprintln(f.Writer, item.Command)
				continue
			}
			fmt.Fprintf(f.GetErrWriter(), "line %d: ", item.Line)
			printer.Error(item.Query, item.Error.Position, item.Error.Kind, item.Error.Message)
		}
		f.VerboseLog("%d queries, %d failed", out.Total, out.Failed)
	}

	if out.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries failed to translate", out.Failed, out.Total))
	}
	return nil
}

// readQueries returns the non-blank, non-comment lines of path and their
// 1-based line numbers. path "-" reads stdin.
func readQueries(path string, stdin io.Reader) ([]int, []string, error) {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		r = file
	}

	var lines []int
	var queries []string
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "--") {
			continue
		}
		lines = append(lines, n)
		queries = append(queries, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return lines, queries, nil
}
