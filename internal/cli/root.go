package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/config"
	"github.com/roach88/sqlmongo/internal/diagnostics"
	"github.com/roach88/sqlmongo/internal/translate"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	NoColor    bool

	// Config is the loaded configuration. It is nil when a subcommand runs
	// without the root command.
	Config *config.Config

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlmongo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlmongo",
		Short: "sqlmongo - SQL to MongoDB query translator",
		Long: `Translate simple SQL SELECT statements into MongoDB shell commands.

  select a, c from b where a>20 and (c>3 or a<1)
  => db.b.find({$and:[{a:{$gt:20}},{$or:[{c:{$gt:3}},{a:{$lt:1}}]}]}).project({a:1,c:1})

Settings are read from .sqlmongo.yaml (current or home directory), a .env
file and SQLMONGO_* environment variables. Flags override all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default .sqlmongo.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored diagnostics")

	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewTokensCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve loads the config file and merges it under the flags.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %v", ErrCodeInput, err))
	}
	o.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}
	if !cfg.Color {
		o.NoColor = true
	}

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	level := slog.LevelError
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.logger.Debug("configuration loaded",
		"file", cfg.File,
		"format", o.Format,
		"workers", cfg.Workers,
		"history", cfg.History,
	)

	return nil
}

// Logger returns the CLI logger. It discards output until resolve runs.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// defaultWorkers returns the configured pool size.
func (o *RootOptions) defaultWorkers() int {
	if o.Config != nil {
		return o.Config.Workers
	}
	return translate.DefaultWorkers
}

// defaultHistory returns the configured history database path.
func (o *RootOptions) defaultHistory() string {
	if o.Config != nil {
		return o.Config.History
	}
	return ""
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // diagnostics must not corrupt JSON on stdout
		Verbose:   o.Verbose,
	}
}

// printer builds the diagnostics printer for cmd's error stream.
func (o *RootOptions) printer(cmd *cobra.Command) *diagnostics.Printer {
	return diagnostics.NewPrinter(cmd.ErrOrStderr(), !o.NoColor)
}

// commandContext returns cmd's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
