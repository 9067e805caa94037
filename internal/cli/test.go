package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/harness"
	"github.com/roach88/sqlmongo/internal/translate"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir|scenario-file>",
		Short: "Run translation scenarios",
		Long: `Run YAML translation scenarios and compare each run against its
golden snapshot in golden/<name>.golden next to the scenario file.

A scenario without a snapshot is checked against its expectations only.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  sqlmongo test ./scenarios
  sqlmongo test ./scenarios --filter "nested_*"
  sqlmongo test ./scenarios --update
  sqlmongo test ./scenarios/select_star.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	info, err := os.Stat(path)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: scenarios not found: %s", ErrCodeInput, path))
	}

	scenarioFiles := []string{path}
	if info.IsDir() {
		scenarioFiles, err = harness.FindScenarioFiles(path, opts.Filter)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeScenario, err)
		}
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(opts, cmd, TestResult{
				Scenarios: []ScenarioResult{},
				Total:     0,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	h := harness.New(translate.New(translate.WithLogger(opts.Logger())), opts.Logger())

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(h, scenarioFile, opts, cmd.OutOrStdout())
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(opts, cmd, result)
	}

	return outputTestText(cmd, result)
}

// runScenario executes a single scenario file and reports it on w unless
// the output is JSON.
func runScenario(h *harness.Harness, scenarioFile string, opts *TestOptions, w io.Writer) ScenarioResult {
	text := opts.Format != "json"
	failed := func(name string, errs ...string) ScenarioResult {
		if text {
			fmt.Fprintf(w, "✗ %s\n", name)
			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		return ScenarioResult{Name: name, Pass: false, Errors: errs}
	}

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return failed(filepath.Base(scenarioFile), fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := h.Run(scenario)
	if err != nil {
		return failed(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}

	data, err := harness.MarshalSnapshot(harness.NewSnapshot(scenario, result))
	if err != nil {
		return failed(scenario.Name, err.Error())
	}
	goldenPath := harness.GoldenPath(scenarioFile)

	if opts.Update {
		if err := harness.UpdateGolden(goldenPath, data); err != nil {
			return failed(scenario.Name, fmt.Sprintf("failed to update golden file: %v", err))
		}
		if !result.Pass {
			return failed(scenario.Name, result.Errors...)
		}
		if text {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", scenario.Name)
		}
		return ScenarioResult{Name: scenario.Name, Pass: true}
	}

	match, err := harness.CompareGolden(goldenPath, data)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No snapshot: expectations only.
	case err != nil:
		return failed(scenario.Name, fmt.Sprintf("golden comparison failed: %v", err))
	case !match:
		errs := append([]string{"snapshot does not match golden file (run with --update to regenerate)"}, result.Errors...)
		return failed(scenario.Name, errs...)
	}

	if !result.Pass {
		return failed(scenario.Name, result.Errors...)
	}

	if text {
		fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	}
	return ScenarioResult{Name: scenario.Name, Pass: true}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(opts *TestOptions, cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeScenario,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := opts.formatter(cmd).encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeScenario, result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeScenario, result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
