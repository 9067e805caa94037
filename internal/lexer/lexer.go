package lexer

import "strings"

// Lexer turns a query string into tokens. A Lexer is single-use and owns
// its cursor; create one per query.
type Lexer struct {
	src    []rune
	pos    int
	tokens []Token
}

// New creates a Lexer over query.
func New(query string) *Lexer {
	return &Lexer{src: []rune(query)}
}

// Tokenize is shorthand for New(query).Tokenize().
func Tokenize(query string) ([]Token, error) {
	return New(query).Tokenize()
}

// Tokenize scans the whole input. It stops at the first malformed
// character and returns a *LexerError.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.src) {
		r := l.src[l.pos]

		switch {
		case IsWhitespace(r):
			l.pos++
		case r == '*':
			l.emit(STAR, "*", l.pos)
			l.pos++
		case r == ',':
			l.emit(COMMA, ",", l.pos)
			l.pos++
		case r == '(':
			l.emit(OpenParen, "(", l.pos)
			l.pos++
		case r == ')':
			l.emit(CloseParen, ")", l.pos)
			l.pos++
		case r == '>' || r == '<' || r == '=':
			if err := l.scanComparison(string(r), l.pos); err != nil {
				return nil, err
			}
		case r == '!':
			if l.peek(1) != '=' {
				return nil, newError(l.pos, "no equality sign (=) after !")
			}
			start := l.pos
			l.pos++
			if err := l.scanComparison("!=", start); err != nil {
				return nil, err
			}
		case IsLetterOrDigit(r):
			l.scanWord()
		default:
			return nil, newError(l.pos, "unrecognized character %q", r)
		}
	}

	return l.tokens, nil
}

func (l *Lexer) emit(kind TokenKind, lexeme string, pos int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lexeme: lexeme, Pos: pos})
}

func (l *Lexer) peek(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.src) {
		return eof
	}
	return l.src[i]
}

// scanComparison is entered with the cursor on the last rune of raw.
// A following '=' extends the operator by one rune.
func (l *Lexer) scanComparison(raw string, start int) error {
	if l.peek(1) == '=' {
		raw += "="
		l.pos += 2
	} else {
		l.pos++
	}
	l.emit(COMPARISON, TranslateOperator(raw), start)

	if r := l.peek(0); IsLetterOrDigit(r) || IsQuote(r) {
		return l.scanLiteral()
	}
	return nil
}

// scanWord reads a run of letters and digits and classifies it.
func (l *Lexer) scanWord() {
	start := l.pos
	for IsLetterOrDigit(l.peek(0)) {
		l.pos++
	}

	text := string(l.src[start:l.pos])
	kind := LookupWord(strings.ToUpper(text))
	if lexeme, ok := keywordLexemes[kind]; ok {
		text = lexeme
	}
	l.emit(kind, text, start)
}

// scanLiteral reads the value right of a comparison operator. Quotes are
// part of the run and must wrap it.
func (l *Lexer) scanLiteral() error {
	start := l.pos
	for r := l.peek(0); IsLetterOrDigit(r) || IsQuote(r); r = l.peek(0) {
		l.pos++
	}

	text := string(l.src[start:l.pos])
	if err := ValidateQuotes(text); err != nil {
		return &LexerError{Pos: l.pos, Msg: err.Error(), Err: err}
	}
	l.emit(VALUE, text, start)
	return nil
}
