package lexer

import "fmt"

// TokenKind classifies a lexical unit.
type TokenKind string

// Token kinds produced by the tokenizer.
const (
	SELECT     TokenKind = "SELECT"
	FROM       TokenKind = "FROM"
	WHERE      TokenKind = "WHERE"
	COMMA      TokenKind = "COMMA"
	AND        TokenKind = "AND"
	OR         TokenKind = "OR"
	VALUE      TokenKind = "VALUE"
	COMPARISON TokenKind = "COMPARISON"
	STAR       TokenKind = "STAR"
	OpenParen  TokenKind = "OPEN_PAREN"
	CloseParen TokenKind = "CLOSE_PAREN"
)

// Token is a classified lexeme with the rune offset of its first character.
// Tokens are never mutated after the tokenizer emits them.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Pos    int       `json:"pos"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Pos)
}

var keywords = map[string]TokenKind{
	"SELECT": SELECT,
	"FROM":   FROM,
	"WHERE":  WHERE,
	"AND":    AND,
	"OR":     OR,
}

// Boolean keywords are rewritten to their document-query spelling.
var keywordLexemes = map[TokenKind]string{
	AND: "$and",
	OR:  "$or",
}

// LookupWord classifies an upper-cased word as a keyword, or VALUE.
func LookupWord(upper string) TokenKind {
	if kind, ok := keywords[upper]; ok {
		return kind
	}
	return VALUE
}

// comparisonOperators is the fixed raw-operator to query-operator table.
// Operators missing from it are passed through verbatim.
var comparisonOperators = map[string]string{
	">":  "$gt",
	">=": "$gte",
	"<":  "$lt",
	"<=": "$lte",
	"=":  "$eq",
	"!=": "$ne",
}

// TranslateOperator maps a raw comparison operator to its query form.
func TranslateOperator(raw string) string {
	if op, ok := comparisonOperators[raw]; ok {
		return op
	}
	return raw
}
