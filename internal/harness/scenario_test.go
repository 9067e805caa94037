package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "star.yaml", `
name: star
description: "Star projection"
query: select * from c
expect:
  command: 'db.c.find({}).project({})'
  warnings:
    - SELECT *
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "star", s.Name)
	assert.Equal(t, "select * from c", s.Query)
	assert.Equal(t, "db.c.find({}).project({})", s.Expect.Command)
	require.NotNil(t, s.Expect.Warnings)
	assert.Equal(t, []string{"SELECT *"}, *s.Expect.Warnings)
	assert.Equal(t, path, s.Path)
}

func TestLoadScenario_ErrorBlock(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "err.yaml", `
name: err
description: "Grammar failure"
query: select from c
expect:
  error:
    kind: grammar
    position: 0
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	require.NotNil(t, s.Expect.Error)
	assert.Equal(t, "grammar", s.Expect.Error.Kind)
	require.NotNil(t, s.Expect.Error.Position)
	assert.Equal(t, 0, *s.Expect.Error.Position)
	assert.Nil(t, s.Expect.Warnings)
}

func TestLoadScenario_EmptyWarningsList(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: clean
description: "Clean plan"
query: select a from b
expect:
  command: 'db.b.find({}).project({a:1})'
  warnings: []
`))
	require.NoError(t, err)
	require.NotNil(t, s.Expect.Warnings)
	assert.Empty(t, *s.Expect.Warnings)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nquery: q\nexpects:\n  command: c\n",
			errText: "failed to parse YAML",
		},
		{
			name:    "unknown nested field",
			content: "name: x\ndescription: d\nquery: q\nexpect:\n  error:\n    line: 1\n",
			errText: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: d\nquery: q\nexpect:\n  command: c\n",
			errText: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nquery: q\nexpect:\n  command: c\n",
			errText: "description is required",
		},
		{
			name:    "no expectation",
			content: "name: x\ndescription: d\nquery: q\n",
			errText: "command or error is required",
		},
		{
			name:    "both outcomes",
			content: "name: x\ndescription: d\nquery: q\nexpect:\n  command: c\n  error:\n    kind: grammar\n",
			errText: "mutually exclusive",
		},
		{
			name:    "bad kind",
			content: "name: x\ndescription: d\nquery: q\nexpect:\n  error:\n    kind: syntax\n",
			errText: "expect.error.kind",
		},
		{
			name:    "negative position",
			content: "name: x\ndescription: d\nquery: q\nexpect:\n  error:\n    position: -2\n",
			errText: "must not be negative",
		},
		{
			name:    "malformed yaml",
			content: "name: [x\n",
			errText: "failed to parse YAML",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoadDir_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	body := "description: d\nquery: select a from b\nexpect:\n  command: x\n"
	writeScenario(t, dir, "b_second.yaml", "name: second\n"+body)
	writeScenario(t, dir, "a_first.yml", "name: first\n"+body)
	writeScenario(t, dir, "nested/c_third.yaml", "name: third\n"+body)
	writeScenario(t, dir, "notes.txt", "ignored")
	writeScenario(t, dir, "golden/ignored.yaml", "not a scenario")

	all, err := LoadDir(dir, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Name)
	assert.Equal(t, "second", all[1].Name)
	assert.Equal(t, "third", all[2].Name)

	filtered, err := LoadDir(dir, "b_*")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "second", filtered[0].Name)
}

func TestLoadDir_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := "name: same\ndescription: d\nquery: q\nexpect:\n  command: x\n"
	writeScenario(t, dir, "one.yaml", body)
	writeScenario(t, dir, "two.yaml", body)

	_, err := LoadDir(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestLoadDir_BadFilter(t *testing.T) {
	_, err := LoadDir(t.TempDir(), "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}
