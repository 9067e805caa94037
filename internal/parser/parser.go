// Package parser validates a token sequence against the SELECT grammar and
// builds a plan.QueryPlan from it.
//
// Building is a three-phase state machine (SELECT, FROM, WHERE) over an
// immutable token slice. Each phase is a step function taking the current
// cursor and returning the next phase and cursor. The WHERE phase recurses
// once per parenthesis level and folds each level left to right with
// plan.Fold.
package parser

import (
	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/plan"
)

// phase is the builder state. Phases only move forward.
type phase int

const (
	phaseSelect phase = iota
	phaseFrom
	phaseWhere
	phaseDone
)

// builder reads tokens; it holds no cursor of its own.
type builder struct {
	tokens []lexer.Token
}

// Build checks the token sequence and returns its plan. The first
// violation aborts the build with a *GrammarError.
func Build(tokens []lexer.Token) (*plan.QueryPlan, error) {
	if err := checkStructure(tokens); err != nil {
		return nil, err
	}

	b := builder{tokens: tokens}
	qp := &plan.QueryPlan{Select: []string{}}

	// Token 0 is the SELECT keyword.
	state, pos := phaseSelect, 1
	for state != phaseDone {
		var err error
		switch state {
		case phaseSelect:
			state, pos, err = b.selectClause(qp, pos)
		case phaseFrom:
			state, pos, err = b.fromClause(qp, pos)
		case phaseWhere:
			state, pos, err = b.whereClause(qp, pos)
		}
		if err != nil {
			return nil, err
		}
	}

	return qp, nil
}

// kindAt returns the kind of the token at i, or "" past either end.
func (b builder) kindAt(i int) lexer.TokenKind {
	if i < 0 || i >= len(b.tokens) {
		return ""
	}
	return b.tokens[i].Kind
}

func (b builder) lastPos() int {
	return b.tokens[len(b.tokens)-1].Pos
}

// selectClause collects the projection up to and including FROM.
func (b builder) selectClause(qp *plan.QueryPlan, pos int) (phase, int, error) {
	hasTarget := false

	for ; pos < len(b.tokens); pos++ {
		tok := b.tokens[pos]

		switch tok.Kind {
		case lexer.STAR:
			if b.kindAt(pos+1) != lexer.FROM {
				return phaseSelect, pos, fail(tok.Pos, msgStarNotLast)
			}
			hasTarget = true

		case lexer.VALUE:
			if next := b.kindAt(pos + 1); next != lexer.COMMA && next != lexer.FROM {
				return phaseSelect, pos, fail(tok.Pos, msgAfterField)
			}
			qp.Select = append(qp.Select, tok.Lexeme)
			hasTarget = true

		case lexer.COMMA:
			if b.kindAt(pos+1) != lexer.VALUE {
				return phaseSelect, pos, fail(tok.Pos, msgAfterComma)
			}

		case lexer.FROM:
			if !hasTarget {
				return phaseSelect, pos, fail(tok.Pos, msgSelectArgs)
			}
			return phaseFrom, pos + 1, nil

		default:
			return phaseSelect, pos, fail(tok.Pos, msgSelectArgs)
		}
	}

	// checkStructure guarantees a FROM after SELECT.
	return phaseSelect, pos, fail(b.lastPos(), msgSelectArgs)
}

// fromClause reads the collection name. It ends the query or hands over
// to WHERE.
func (b builder) fromClause(qp *plan.QueryPlan, pos int) (phase, int, error) {
	if pos >= len(b.tokens) {
		return phaseFrom, pos, fail(b.lastPos(), msgFromArg)
	}

	tok := b.tokens[pos]
	if tok.Kind != lexer.VALUE {
		return phaseFrom, pos, fail(tok.Pos, msgFromArg)
	}

	switch {
	case pos == len(b.tokens)-1:
		qp.From = tok.Lexeme
		return phaseDone, pos + 1, nil
	case b.kindAt(pos+1) == lexer.WHERE:
		qp.From = tok.Lexeme
		return phaseWhere, pos + 2, nil
	default:
		return phaseFrom, pos, fail(tok.Pos, msgFromArg)
	}
}

// whereClause builds the filter from everything after WHERE.
func (b builder) whereClause(qp *plan.QueryPlan, pos int) (phase, int, error) {
	if pos >= len(b.tokens) {
		return phaseWhere, pos, fail(b.lastPos(), msgEmptyWhere)
	}

	where, next, err := b.condition(pos, 0)
	if err != nil {
		return phaseWhere, next, err
	}

	qp.Where = where
	return phaseDone, next, nil
}

// condition parses one nesting level. At depth > 0 it returns after
// consuming the matching close paren; at depth 0 it runs to the end of
// the tokens. Operands alternate with and/or operators and are folded
// left to right.
func (b builder) condition(pos, depth int) (plan.Where, int, error) {
	var operands []plan.Where
	var operators []plan.BoolOp
	expectOperand := true

	for pos < len(b.tokens) {
		tok := b.tokens[pos]

		switch tok.Kind {
		case lexer.VALUE:
			if !expectOperand {
				return nil, pos, fail(tok.Pos, msgMissingBoolean)
			}
			if at, ok := b.comparisonAt(pos); !ok {
				return nil, pos, fail(at, msgWrongArgument)
			}
			operands = append(operands, plan.Compare(
				tok.Lexeme,
				b.tokens[pos+1].Lexeme,
				b.tokens[pos+2].Lexeme,
			))
			expectOperand = false
			pos += 3

		case lexer.OpenParen:
			if !expectOperand {
				return nil, pos, fail(tok.Pos, msgMissingBoolean)
			}
			if next := b.kindAt(pos + 1); next != lexer.OpenParen && next != lexer.VALUE {
				return nil, pos, fail(tok.Pos, msgAfterOpenParen)
			}
			child, next, err := b.condition(pos+1, depth+1)
			if err != nil {
				return nil, next, err
			}
			operands = append(operands, child)
			expectOperand = false
			pos = next

		case lexer.AND, lexer.OR:
			if expectOperand {
				return nil, pos, fail(tok.Pos, msgWrongArgument)
			}
			if next := b.kindAt(pos + 1); next != lexer.OpenParen && next != lexer.VALUE {
				return nil, pos, fail(tok.Pos, msgAfterBoolean)
			}
			operators = append(operators, plan.BoolOp(tok.Lexeme))
			expectOperand = true
			pos++

		case lexer.CloseParen:
			if depth == 0 || expectOperand {
				return nil, pos, fail(tok.Pos, msgWrongArgument)
			}
			return plan.Fold(operands, operators), pos + 1, nil

		default:
			return nil, pos, fail(tok.Pos, msgWrongArgument)
		}
	}

	if depth > 0 {
		return nil, pos, fail(0, msgUnbalanced)
	}
	if expectOperand {
		return nil, pos, fail(b.lastPos(), msgWrongArgument)
	}

	return plan.Fold(operands, operators), pos, nil
}

// comparisonAt checks for VALUE COMPARISON VALUE starting at pos. When the
// shape breaks it returns the position of the first token that does not
// fit, or of the last token if the input ends early.
func (b builder) comparisonAt(pos int) (int, bool) {
	shape := [...]lexer.TokenKind{lexer.VALUE, lexer.COMPARISON, lexer.VALUE}
	for i, kind := range shape {
		if pos+i >= len(b.tokens) {
			return b.lastPos(), false
		}
		if b.tokens[pos+i].Kind != kind {
			return b.tokens[pos+i].Pos, false
		}
	}
	return 0, true
}
