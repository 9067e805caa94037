package lexer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// eof is returned by the lexer when peeking past the end of input.
const eof rune = -1

var (
	// ErrUnbalancedQuotes reports a literal whose quote characters do not
	// wrap it on both sides.
	ErrUnbalancedQuotes = errors.New("quotes must be on both sides")

	// ErrEmptyLiteral reports a quoted literal with nothing between the quotes.
	ErrEmptyLiteral = errors.New("empty string")
)

// IsWhitespace reports whether r separates tokens.
func IsWhitespace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

// IsQuote reports whether r opens or closes a quoted literal.
func IsQuote(r rune) bool {
	return r == '\'' || r == '"'
}

// IsLetterOrDigit reports whether r may appear in a word.
// Letters are runes whose full upper and lower case mappings differ, so
// runes that only change under special casing (ß upper-cases to SS) count;
// digits are ASCII.
func IsLetterOrDigit(r rune) bool {
	switch {
	case r == eof:
		return false
	case '0' <= r && r <= '9', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		return true
	case r < utf8.RuneSelf:
		return false
	}
	// Casers keep state between calls and are not shared.
	s := string(r)
	return cases.Upper(language.Und).String(s) != cases.Lower(language.Und).String(s)
}

// ValidateQuotes checks a scanned comparison value. Text without quote
// characters is always valid.
func ValidateQuotes(text string) error {
	for _, q := range []rune{'\'', '"'} {
		if !strings.ContainsRune(text, q) {
			continue
		}
		first, _ := utf8.DecodeRuneInString(text)
		last, _ := utf8.DecodeLastRuneInString(text)
		if first != q || last != q {
			return ErrUnbalancedQuotes
		}
	}

	if strings.ContainsAny(text, `'"`) && utf8.RuneCountInString(text) <= 2 {
		return ErrEmptyLiteral
	}

	return nil
}
