package plan

import (
	"fmt"
	"strings"
)

// ValidationResult contains lint findings for a plan.
//
// Findings never change how a plan is emitted. They point at constructs
// that translate but probably do not mean what the author expects.
type ValidationResult struct {
	// IsClean is true when Warnings is empty.
	IsClean bool

	// Warnings lists human-readable findings in tree order.
	Warnings []string
}

// Validate lints a plan.
//
// Checks:
//  1. Projection - SELECT * and duplicated fields
//  2. Comparison - empty parts, operators passed through untranslated,
//     double-quoted values (emitted without their quotes)
//  3. BooleanGroup - unknown operator, fewer than two operands
//
// Validate is a pure function with no side effects.
func Validate(p *QueryPlan) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validatePlan(p)

	return ValidationResult{
		IsClean:  len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validatePlan(p *QueryPlan) {
	if p == nil {
		v.addWarning("nil plan")
		return
	}

	if p.From == "" {
		v.addWarning("empty collection name")
	}

	if len(p.Select) == 0 {
		v.addWarning("SELECT * - projection is empty and every field is returned")
	}
	seen := make(map[string]bool, len(p.Select))
	for _, field := range p.Select {
		if seen[field] {
			v.addWarning("field %q selected more than once - projected once", field)
		}
		seen[field] = true
	}

	if p.HasFilter() {
		v.validateWhere(p.Where)
	}
}

func (v *validator) validateWhere(w Where) {
	switch node := w.(type) {
	case Comparison:
		v.validateComparison(node)
	case *Comparison:
		v.validateComparison(*node)
	case BooleanGroup:
		v.validateGroup(node)
	case *BooleanGroup:
		v.validateGroup(*node)
	case nil:
		v.addWarning("nil operand in WHERE tree")
	default:
		v.addWarning("unknown WHERE node type: %T", w)
	}
}

func (v *validator) validateComparison(c Comparison) {
	if c.Field == "" || c.Operator == "" || c.Value == "" {
		v.addWarning("incomplete comparison %q %q %q", c.Field, c.Operator, c.Value)
		return
	}

	if !KnownComparison(c.Operator) {
		v.addWarning("operator %q on field %q is not a query operator and is passed through", c.Operator, c.Field)
	}

	if strings.HasPrefix(c.Value, `"`) {
		v.addWarning("value %s on field %q loses its double quotes when emitted", c.Value, c.Field)
	}
}

func (v *validator) validateGroup(g BooleanGroup) {
	if g.Operator != OpAnd && g.Operator != OpOr {
		v.addWarning("unknown boolean operator %q", g.Operator)
	}

	if len(g.Operands) < 2 {
		v.addWarning("%s group has %d operand(s), expected at least 2", g.Operator, len(g.Operands))
	}

	for _, operand := range g.Operands {
		v.validateWhere(operand)
	}
}
