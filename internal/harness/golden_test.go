package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	s := &Scenario{Name: "det", Query: "select a from b where a>1 and b<2"}
	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	d1, err := MarshalSnapshot(NewSnapshot(s, r1))
	require.NoError(t, err)
	d2, err := MarshalSnapshot(NewSnapshot(s, r2))
	require.NoError(t, err)

	assert.Equal(t, string(d1), string(d2))
	assert.Contains(t, string(d1), `"kind": "group"`)
	assert.Contains(t, string(d1), `"error": null`)
}

func TestNewSnapshot_LexicalFailure(t *testing.T) {
	s := &Scenario{Name: "lex", Query: "select a from b where a>''"}
	r, err := Run(s)
	require.NoError(t, err)

	snap := NewSnapshot(s, r)
	assert.Empty(t, snap.Tokens)
	assert.NotNil(t, snap.Tokens)
	assert.Nil(t, snap.Plan)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "lexical", snap.Error.Kind)
	assert.Equal(t, 26, snap.Error.Position)
	assert.Equal(t, "empty string", snap.Error.Message)
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "star.golden"),
		GoldenPath(filepath.Join("scenarios", "star.yaml")))
}

func TestCompareAndUpdateGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "x.golden")

	_, err := CompareGolden(path, []byte("a"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, UpdateGolden(path, []byte("a")))

	match, err := CompareGolden(path, []byte("a"))
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, []byte("b"))
	require.NoError(t, err)
	assert.False(t, match)
}
