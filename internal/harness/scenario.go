package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one translation test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is the SQL text to translate. It may be empty.
	Query string `yaml:"query"`

	// Expect lists the checks applied to the run.
	Expect Expect `yaml:"expect"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Expect describes the expected outcome. Exactly one of Command or Error is
// set.
type Expect struct {
	// Command is the exact emitted command.
	Command string `yaml:"command,omitempty"`

	// Error expects the translation to fail.
	Error *ExpectError `yaml:"error,omitempty"`

	// Warnings are substrings of expected lint warnings. nil skips the
	// check; an empty list requires a clean plan.
	Warnings *[]string `yaml:"warnings,omitempty"`
}

// ExpectError describes an expected failure. Empty fields are not checked.
type ExpectError struct {
	// Kind is "lexical" or "grammar".
	Kind string `yaml:"kind,omitempty"`

	// Position is the rune offset the error reports.
	Position *int `yaml:"position,omitempty"`

	// Contains must appear in the error message.
	Contains string `yaml:"contains,omitempty"`
}

// Known error kinds in scenario files.
const (
	ErrorKindLexical = "lexical"
	ErrorKindGrammar = "grammar"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.Path = path

	return scenario, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "expects:" vs "expect:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every .yaml/.yml scenario under dir, sorted by path. A
// non-empty filter is a glob matched against the file name without its
// extension.
func LoadDir(dir, filter string) ([]*Scenario, error) {
	files, err := FindScenarioFiles(dir, filter)
	if err != nil {
		return nil, err
	}

	scenarios := make([]*Scenario, 0, len(files))
	names := make(map[string]string, len(files))
	for _, file := range files {
		s, err := LoadScenario(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if prev, dup := names[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", file, s.Name, prev)
		}
		names[s.Name] = file
		scenarios = append(scenarios, s)
	}

	return scenarios, nil
}

// FindScenarioFiles lists scenario files under dir, sorted by path.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Snapshots live in golden/ next to the scenarios.
			if path != dir && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasCommand := s.Expect.Command != ""
	hasError := s.Expect.Error != nil
	switch {
	case hasCommand && hasError:
		return fmt.Errorf("expect: command and error are mutually exclusive")
	case !hasCommand && !hasError:
		return fmt.Errorf("expect: command or error is required")
	}

	if hasError {
		switch s.Expect.Error.Kind {
		case "", ErrorKindLexical, ErrorKindGrammar:
		default:
			return fmt.Errorf("expect.error.kind %q must be %q or %q",
				s.Expect.Error.Kind, ErrorKindLexical, ErrorKindGrammar)
		}
		if p := s.Expect.Error.Position; p != nil && *p < 0 {
			return fmt.Errorf("expect.error.position must not be negative")
		}
	}

	return nil
}
