// Package plan defines the query plan built from a parsed SELECT statement.
//
// A QueryPlan is the boundary between the SQL front end (lexer, parser) and
// the document-query back end (mongo). It holds:
//
//   - Select: projected field names in query order; empty means every field
//   - From: the collection name
//   - Where: the filter tree, or nil when the query has no WHERE clause
//
// # Where Tree
//
// Where is a sealed interface using the marker method pattern. Only
// Comparison and BooleanGroup implement it, so back ends can switch on it
// exhaustively:
//
//	switch w := where.(type) {
//	case Comparison:
//	    // field / operator / value leaf
//	case BooleanGroup:
//	    // $and / $or over two or more operands
//	}
//
// # Folding
//
// Boolean operators have no precedence. Operands at one nesting level are
// folded strictly left to right (see Fold):
//
//	a OR b AND c AND d  =>  (((a OR b) AND c) AND d)
//
// Parentheses are the only way to change grouping.
//
// # Values
//
// Values are the literal text from the query, quotes included. Numeric and
// string literals are not told apart at this layer.
package plan
