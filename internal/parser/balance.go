package parser

import "github.com/roach88/sqlmongo/internal/lexer"

// checkStructure runs the fail-fast checks that precede building:
// one SELECT and one FROM, SELECT first, balanced parentheses.
func checkStructure(tokens []lexer.Token) error {
	selects, froms := 0, 0
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.SELECT:
			selects++
		case lexer.FROM:
			froms++
		}
	}
	if selects != 1 || froms != 1 {
		return fail(0, msgKeywordCount)
	}

	if tokens[0].Kind != lexer.SELECT {
		return fail(0, msgSelectFirst)
	}

	if !parenthesesBalanced(tokens) {
		return fail(0, msgUnbalanced)
	}

	return nil
}

// parenthesesBalanced scans only paren tokens with a stack. Every close
// must match an earlier unmatched open and nothing may stay open.
func parenthesesBalanced(tokens []lexer.Token) bool {
	var stack []lexer.TokenKind
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.OpenParen:
			stack = append(stack, tok.Kind)
		case lexer.CloseParen:
			if len(stack) == 0 {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
