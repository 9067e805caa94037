// Package mongo renders a plan.QueryPlan as a MongoDB shell command:
//
//	db.<collection>.find(<filter>).project(<projection>)
//
// Documents are written as compact JSON with every quote character removed,
// which gives the shell's unquoted form:
//
//	select a, b from c where a>20   =>   db.c.find({a:{$gt:20}}).project({a:1,b:1})
//
// Values are copied from the query text. A numeric-looking value and a
// bare word render the same way, and a double-quoted literal loses its
// quotes; plan.Validate reports the latter.
//
// The compiler does not validate plans.
package mongo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/sqlmongo/internal/plan"
)

// ShellCompiler compiles query plans to MongoDB shell commands.
// It holds no state and is safe for concurrent use.
type ShellCompiler struct{}

// NewShellCompiler creates a new ShellCompiler.
func NewShellCompiler() *ShellCompiler {
	return &ShellCompiler{}
}

// Compile is shorthand for NewShellCompiler().Compile(p).
func Compile(p *plan.QueryPlan) (string, error) {
	return NewShellCompiler().Compile(p)
}

// Compile renders the full find/project command for p.
func (c *ShellCompiler) Compile(p *plan.QueryPlan) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cannot compile nil plan")
	}

	filter, err := c.Filter(p.Where)
	if err != nil {
		return "", fmt.Errorf("compile filter: %w", err)
	}

	cmd := fmt.Sprintf("db.%s.find(%s).project(%s)",
		shellText(p.From),
		filter,
		c.Projection(p.Select))

	return cmd, nil
}

// Projection renders the select list as {field:1,...} in select order.
// A repeated field is written once, at its first position. An empty
// list renders {} (no projection).
func (c *ShellCompiler) Projection(fields []string) string {
	var buf bytes.Buffer
	buf.WriteByte('{')

	seen := make(map[string]bool, len(fields))
	n := 0
	for _, field := range fields {
		if seen[field] {
			continue
		}
		seen[field] = true

		if n > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(shellText(field))
		buf.WriteString(":1")
		n++
	}

	buf.WriteByte('}')
	return buf.String()
}

// Filter renders a WHERE tree. A nil tree or the zero Comparison renders
// the empty filter {}.
func (c *ShellCompiler) Filter(w plan.Where) (string, error) {
	if w == nil {
		return "{}", nil
	}

	var buf bytes.Buffer
	if err := c.writeWhere(&buf, w, true); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeWhere appends one node. The zero Comparison is only accepted as the
// root, where it stands for "no filter".
func (c *ShellCompiler) writeWhere(buf *bytes.Buffer, w plan.Where, root bool) error {
	switch node := w.(type) {
	case plan.Comparison:
		c.writeComparison(buf, node, root)
	case *plan.Comparison:
		c.writeComparison(buf, *node, root)
	case plan.BooleanGroup:
		return c.writeGroup(buf, node)
	case *plan.BooleanGroup:
		return c.writeGroup(buf, *node)
	default:
		return fmt.Errorf("unsupported where node: %T", w)
	}
	return nil
}

// writeComparison writes {field:{operator:value}}.
func (c *ShellCompiler) writeComparison(buf *bytes.Buffer, cmp plan.Comparison, root bool) {
	if root && cmp.IsZero() {
		buf.WriteString("{}")
		return
	}

	buf.WriteByte('{')
	buf.WriteString(shellText(cmp.Field))
	buf.WriteString(":{")
	buf.WriteString(shellText(cmp.Operator))
	buf.WriteByte(':')
	buf.WriteString(shellText(cmp.Value))
	buf.WriteString("}}")
}

// writeGroup writes {operator:[operand,...]}.
func (c *ShellCompiler) writeGroup(buf *bytes.Buffer, g plan.BooleanGroup) error {
	buf.WriteByte('{')
	buf.WriteString(shellText(string(g.Operator)))
	buf.WriteString(":[")

	for i, operand := range g.Operands {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := c.writeWhere(buf, operand, false); err != nil {
			return fmt.Errorf("%s[%d]: %w", g.Operator, i, err)
		}
	}

	buf.WriteString("]}")
	return nil
}

// shellText encodes s as a JSON string (no HTML escaping) and then drops
// every quote character, escaped or not. Runes are not normalized, so names
// reach the command exactly as the query spelled them.
func shellText(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // $gt and friends must stay readable
	if err := enc.Encode(s); err != nil {
		// Encoding a string cannot fail.
		return s
	}

	text := strings.TrimSuffix(buf.String(), "\n")
	text = strings.ReplaceAll(text, `\"`, "")
	return strings.ReplaceAll(text, `"`, "")
}
