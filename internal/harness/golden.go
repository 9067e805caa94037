package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sqlmongo/internal/plan"
)

// Snapshot is the golden-file form of a scenario run.
type Snapshot struct {
	Scenario string          `json:"scenario"`
	Query    string          `json:"query"`
	Tokens   []string        `json:"tokens"`
	Plan     *plan.QueryPlan `json:"plan"`
	Command  string          `json:"command"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []string        `json:"warnings"`
}

// NewSnapshot captures a run of scenario.
func NewSnapshot(scenario *Scenario, result *Result) Snapshot {
	tokens := make([]string, 0, len(result.Tokens))
	for _, tok := range result.Tokens {
		tokens = append(tokens, tok.String())
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return Snapshot{
		Scenario: scenario.Name,
		Query:    scenario.Query,
		Tokens:   tokens,
		Plan:     result.Plan,
		Command:  result.Command,
		Error:    result.Error,
		Warnings: warnings,
	}
}

// MarshalSnapshot encodes a snapshot as indented JSON with a trailing
// newline. HTML characters are not escaped.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// RunWithGolden runs a scenario, fails t if an expectation fails, and
// compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}

	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an existing result against the golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(NewSnapshot(scenario, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

// GoldenPath returns the snapshot path for a scenario file:
// <dir>/golden/<file name without extension>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// CompareGolden reports whether the snapshot file at path equals data. A
// missing file returns os.ErrNotExist.
func CompareGolden(path string, data []byte) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, data), nil
}

// UpdateGolden writes data to path, creating the directory.
func UpdateGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
