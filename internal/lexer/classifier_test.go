package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\n', '\t'} {
		assert.True(t, IsWhitespace(r), "%q", r)
	}
	for _, r := range []rune{'a', '\r', ',', eof} {
		assert.False(t, IsWhitespace(r), "%q", r)
	}
}

func TestIsQuote(t *testing.T) {
	assert.True(t, IsQuote('\''))
	assert.True(t, IsQuote('"'))
	assert.False(t, IsQuote('`'))
	assert.False(t, IsQuote(eof))
}

func TestIsLetterOrDigit(t *testing.T) {
	testCases := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'7', true},
		{'é', true},
		{'Ж', true},
		{'ß', true},      // upper case is "SS"
		{'ŉ', true},      // upper case is "ʼN"
		{'ﬁ', true},      // upper case is "FI"
		{'\u2126', true}, // OHM SIGN
		{'_', false},
		{'.', false},
		{'$', false},
		{'٣', false}, // non-ASCII digit
		{'中', false}, // no case
		{eof, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsLetterOrDigit(tc.r), "%q", tc.r)
	}
}

func TestValidateQuotes(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want error
	}{
		{"bare word", "abc", nil},
		{"number", "20", nil},
		{"single quoted", "'abc'", nil},
		{"double quoted", `"abc"`, nil},
		{"missing closing single", "'abc", ErrUnbalancedQuotes},
		{"missing opening single", "abc'", ErrUnbalancedQuotes},
		{"quote in the middle", "ab'c", ErrUnbalancedQuotes},
		{"missing closing double", `"abc`, ErrUnbalancedQuotes},
		{"mixed quotes", `'abc"`, ErrUnbalancedQuotes},
		{"single inside double", `"a'b"`, ErrUnbalancedQuotes},
		{"empty single", "''", ErrEmptyLiteral},
		{"empty double", `""`, ErrEmptyLiteral},
		{"lone quote", "'", ErrEmptyLiteral},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateQuotes(tc.text), tc.want)
			if tc.want == nil {
				assert.NoError(t, ValidateQuotes(tc.text))
			}
		})
	}
}
