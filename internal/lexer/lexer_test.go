package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_SelectList(t *testing.T) {
	tokens, err := Tokenize("select a, b from c")
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: SELECT, Lexeme: "select", Pos: 0},
		{Kind: VALUE, Lexeme: "a", Pos: 7},
		{Kind: COMMA, Lexeme: ",", Pos: 8},
		{Kind: VALUE, Lexeme: "b", Pos: 10},
		{Kind: FROM, Lexeme: "from", Pos: 12},
		{Kind: VALUE, Lexeme: "c", Pos: 17},
	}, tokens)
}

func TestTokenize_Star(t *testing.T) {
	tokens, err := Tokenize("SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{SELECT, STAR, FROM, VALUE}, kinds(tokens))
	assert.Equal(t, 7, tokens[1].Pos)
}

func TestTokenize_KeywordsAreCaseInsensitive(t *testing.T) {
	tokens, err := Tokenize("SeLeCt x FrOm y WhErE x>1 AnD x<5 oR x=3")
	require.NoError(t, err)

	assert.Equal(t, []TokenKind{
		SELECT, VALUE, FROM, VALUE, WHERE,
		VALUE, COMPARISON, VALUE,
		AND,
		VALUE, COMPARISON, VALUE,
		OR,
		VALUE, COMPARISON, VALUE,
	}, kinds(tokens))
	assert.Equal(t, "$and", tokens[8].Lexeme)
	assert.Equal(t, "$or", tokens[12].Lexeme)
}

func TestTokenize_KeywordPrefixIsValue(t *testing.T) {
	tokens, err := Tokenize("select selected, orders from fromage")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{SELECT, VALUE, COMMA, VALUE, FROM, VALUE}, kinds(tokens))
	assert.Equal(t, "orders", tokens[3].Lexeme)
}

func TestTokenize_ComparisonOperators(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"a>1", "$gt"},
		{"a>=1", "$gte"},
		{"a<1", "$lt"},
		{"a<=1", "$lte"},
		{"a=1", "$eq"},
		{"a!=1", "$ne"},
		{"a==1", "=="},
		{"a!==1", "!=="},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.NoError(t, err)
			require.Len(t, tokens, 3)
			assert.Equal(t, COMPARISON, tokens[1].Kind)
			assert.Equal(t, tc.want, tokens[1].Lexeme)
			assert.Equal(t, 1, tokens[1].Pos)
			assert.Equal(t, Token{Kind: VALUE, Lexeme: "1", Pos: len(tc.input) - 1}, tokens[2])
		})
	}
}

func TestTranslateOperator(t *testing.T) {
	assert.Equal(t, "$gt", TranslateOperator(">"))
	assert.Equal(t, "$gte", TranslateOperator(">="))
	assert.Equal(t, "$lt", TranslateOperator("<"))
	assert.Equal(t, "$lte", TranslateOperator("<="))
	assert.Equal(t, "$eq", TranslateOperator("="))
	assert.Equal(t, "$ne", TranslateOperator("!="))
	assert.Equal(t, "=<", TranslateOperator("=<"))
}

func TestTokenize_SpacedComparison(t *testing.T) {
	tokens, err := Tokenize("c > 3")
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Kind: VALUE, Lexeme: "c", Pos: 0},
		{Kind: COMPARISON, Lexeme: "$gt", Pos: 2},
		{Kind: VALUE, Lexeme: "3", Pos: 4},
	}, tokens)
}

func TestTokenize_QuotedLiteral(t *testing.T) {
	tokens, err := Tokenize(`name='bob' and city="oslo"`)
	require.NoError(t, err)
	require.Len(t, tokens, 7)
	assert.Equal(t, Token{Kind: VALUE, Lexeme: "'bob'", Pos: 5}, tokens[2])
	assert.Equal(t, Token{Kind: VALUE, Lexeme: `"oslo"`, Pos: 20}, tokens[6])
}

func TestTokenize_LiteralAfterOperatorIsNeverKeyword(t *testing.T) {
	tokens, err := Tokenize("a=from")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{VALUE, COMPARISON, VALUE}, kinds(tokens))
	assert.Equal(t, "from", tokens[2].Lexeme)
}

func TestTokenize_Parentheses(t *testing.T) {
	tokens, err := Tokenize("(a>1 or (b<2))")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		OpenParen, VALUE, COMPARISON, VALUE, OR,
		OpenParen, VALUE, COMPARISON, VALUE, CloseParen, CloseParen,
	}, kinds(tokens))
}

func TestTokenize_Unicode(t *testing.T) {
	tokens, err := Tokenize("select ñame from ciudad where ñame='José'")
	require.NoError(t, err)
	require.Len(t, tokens, 8)
	assert.Equal(t, 7, tokens[1].Pos)
	assert.Equal(t, 30, tokens[5].Pos)
	assert.Equal(t, "'José'", tokens[7].Lexeme)
	assert.Equal(t, 35, tokens[7].Pos)
}

func TestTokenize_SpecialCasingLetters(t *testing.T) {
	tokens, err := Tokenize("select straße from c where ﬁeld>1")
	require.NoError(t, err)
	require.Len(t, tokens, 8)

	assert.Equal(t, Token{Kind: VALUE, Lexeme: "straße", Pos: 7}, tokens[1])
	assert.Equal(t, Token{Kind: FROM, Lexeme: "from", Pos: 14}, tokens[2])
	assert.Equal(t, Token{Kind: VALUE, Lexeme: "ﬁeld", Pos: 27}, tokens[5])
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestTokenize_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		pos     int
		msg     string
		wrapped error
	}{
		{"unrecognized character", "select a; from b", 8, "unrecognized character", nil},
		{"bang without equals", "a!1", 1, "no equality sign", nil},
		{"bang at end", "a!", 1, "no equality sign", nil},
		{"unterminated single quote", "select a from b where a>'unterminated", 37, "quotes must be on both sides", ErrUnbalancedQuotes},
		{"stray quote in value", "a=ab'c", 6, "quotes must be on both sides", ErrUnbalancedQuotes},
		{"empty literal", "a=''", 4, "empty string", ErrEmptyLiteral},
		{"empty double literal", `a=""`, 4, "empty string", ErrEmptyLiteral},
		{"quote outside comparison", "a = 'x'", 4, "unrecognized character", nil},
		{"carriage return", "select a\r from b", 8, "unrecognized character", nil},
		{"decimal point", "a>1.5", 3, "unrecognized character", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(tc.input)
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.True(t, IsLexerError(err))

			var le *LexerError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tc.pos, le.Pos)
			assert.Contains(t, le.Error(), tc.msg)
			if tc.wrapped != nil {
				assert.ErrorIs(t, err, tc.wrapped)
			}
		})
	}
}

func TestLexerError_Format(t *testing.T) {
	err := &LexerError{Pos: 3, Msg: "unrecognized character ';'"}
	assert.Equal(t, "lexer error: unrecognized character ';' (position 3)", err.Error())
	assert.Nil(t, err.Unwrap())
	assert.False(t, IsLexerError(nil))
}

func TestTokenize_Deterministic(t *testing.T) {
	query := "select a, c from b where a>20 and (c>3 or (a>400) and b>300)"
	first, err := Tokenize(query)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Tokenize(query)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
