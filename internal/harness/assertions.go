package harness

import (
	"fmt"
	"strings"
)

// ExpectationError describes one failed expectation.
type ExpectationError struct {
	Check    string // command, error.kind, warnings, ...
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Check, e.Expected, e.Actual)
}

// checkExpectations returns one message per failed expectation, in a fixed
// order: outcome, command or error fields, warnings.
func checkExpectations(expect Expect, result *Result) []string {
	var failures []error

	if expect.Error != nil {
		failures = append(failures, checkError(*expect.Error, result)...)
	} else {
		failures = append(failures, checkCommand(expect.Command, result)...)
	}

	if expect.Warnings != nil {
		failures = append(failures, checkWarnings(*expect.Warnings, result.Warnings)...)
	}

	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

func checkCommand(want string, result *Result) []error {
	if result.Error != nil {
		return []error{&ExpectationError{
			Check:    "command",
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%s error %q at %d", result.Error.Kind, result.Error.Message, result.Error.Position),
		}}
	}
	if want != "" && result.Command != want {
		return []error{&ExpectationError{
			Check:    "command",
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%q", result.Command),
		}}
	}
	return nil
}

func checkError(want ExpectError, result *Result) []error {
	if result.Error == nil {
		return []error{&ExpectationError{
			Check:    "error",
			Expected: "translation to fail",
			Actual:   fmt.Sprintf("command %q", result.Command),
		}}
	}

	var failures []error
	got := result.Error

	if want.Kind != "" && want.Kind != got.Kind {
		failures = append(failures, &ExpectationError{
			Check:    "error.kind",
			Expected: want.Kind,
			Actual:   got.Kind,
		})
	}
	if want.Position != nil && *want.Position != got.Position {
		failures = append(failures, &ExpectationError{
			Check:    "error.position",
			Expected: fmt.Sprint(*want.Position),
			Actual:   fmt.Sprint(got.Position),
		})
	}
	if want.Contains != "" && !strings.Contains(got.Message, want.Contains) {
		failures = append(failures, &ExpectationError{
			Check:    "error.contains",
			Expected: fmt.Sprintf("message containing %q", want.Contains),
			Actual:   fmt.Sprintf("%q", got.Message),
		})
	}

	return failures
}

// checkWarnings requires each wanted substring to match some warning. An
// empty want requires no warnings at all.
func checkWarnings(want, got []string) []error {
	if len(want) == 0 {
		if len(got) > 0 {
			return []error{&ExpectationError{
				Check:    "warnings",
				Expected: "clean plan",
				Actual:   strings.Join(got, "; "),
			}}
		}
		return nil
	}

	var failures []error
	for _, w := range want {
		found := false
		for _, g := range got {
			if strings.Contains(g, w) {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, &ExpectationError{
				Check:    "warnings",
				Expected: fmt.Sprintf("a warning containing %q", w),
				Actual:   fmt.Sprintf("%q", got),
			})
		}
	}
	return failures
}
