package plan

// Where is a node of the WHERE tree.
//
// This is a sealed interface - only Comparison and BooleanGroup implement it.
type Where interface {
	whereNode() // Marker method - seals interface to this package
}

// BoolOp is the operator of a BooleanGroup.
type BoolOp string

// Boolean operators, spelled the way the document query expects them.
const (
	OpAnd BoolOp = "$and"
	OpOr  BoolOp = "$or"
)

// Comparison operators emitted by the lexer. Unrecognized raw operators are
// carried through as-is and are not listed here.
const (
	OpGt  = "$gt"
	OpGte = "$gte"
	OpLt  = "$lt"
	OpLte = "$lte"
	OpEq  = "$eq"
	OpNe  = "$ne"
)

// KnownComparison reports whether op is one of the translated comparison
// operators.
func KnownComparison(op string) bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpEq, OpNe:
		return true
	}
	return false
}

// Comparison is a leaf condition: field <operator> value.
//
// Example: the SQL condition a>20 becomes
//
//	Comparison{Field: "a", Operator: "$gt", Value: "20"}
type Comparison struct {
	Field    string
	Operator string
	Value    string
}

func (Comparison) whereNode() {}

// IsZero reports whether c is the empty comparison. Older callers used it as
// the "no WHERE clause" marker; back ends treat it like a nil Where.
func (c Comparison) IsZero() bool {
	return c == Comparison{}
}

// BooleanGroup combines two or more operands with $and or $or.
// Groups produced by Fold always have exactly two operands.
type BooleanGroup struct {
	Operator BoolOp
	Operands []Where
}

func (BooleanGroup) whereNode() {}

// QueryPlan is the parsed form of one SELECT statement.
type QueryPlan struct {
	Select []string // Projected fields (empty = all fields)
	From   string   // Collection name
	Where  Where    // Filter (nil = no filter)
}

// HasFilter reports whether the plan restricts the matched documents.
func (p *QueryPlan) HasFilter() bool {
	if p.Where == nil {
		return false
	}
	if c, ok := p.Where.(Comparison); ok && c.IsZero() {
		return false
	}
	return true
}

// Compare builds a Comparison leaf.
func Compare(field, operator, value string) Comparison {
	return Comparison{Field: field, Operator: operator, Value: value}
}

// Group builds a BooleanGroup over the given operands.
func Group(op BoolOp, operands ...Where) BooleanGroup {
	return BooleanGroup{Operator: op, Operands: operands}
}

// Fold combines operands with operators left to right, without precedence:
// the first operator joins operands[0] and operands[1], and each later
// operator joins the running group with the next operand.
//
// len(operands) must be len(operators)+1 and at least one. With no
// operators the single operand is returned unchanged.
func Fold(operands []Where, operators []BoolOp) Where {
	if len(operands) == 0 {
		return nil
	}

	acc := operands[0]
	for i, op := range operators {
		acc = Group(op, acc, operands[i+1])
	}
	return acc
}
