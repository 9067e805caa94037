package mongo

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlmongo/internal/plan"
)

func gt(field, value string) plan.Comparison {
	return plan.Compare(field, plan.OpGt, value)
}

func TestCompile_Golden(t *testing.T) {
	testCases := []struct {
		name string
		plan *plan.QueryPlan
	}{
		{
			name: "projection_only",
			plan: &plan.QueryPlan{Select: []string{"a", "b"}, From: "c"},
		},
		{
			name: "single_comparison",
			plan: &plan.QueryPlan{Select: []string{"a"}, From: "b", Where: gt("a", "20")},
		},
		{
			name: "and_group",
			plan: &plan.QueryPlan{
				Select: []string{"a", "c"},
				From:   "b",
				Where:  plan.Group(plan.OpAnd, gt("a", "20"), gt("c", "3")),
			},
		},
		{
			name: "nested_groups",
			plan: &plan.QueryPlan{
				Select: []string{"a", "c"},
				From:   "b",
				Where: plan.Group(plan.OpAnd,
					gt("a", "20"),
					plan.Group(plan.OpAnd,
						plan.Group(plan.OpOr, gt("c", "3"), gt("a", "400")),
						gt("b", "300"))),
			},
		},
		{
			name: "star_with_filter",
			plan: &plan.QueryPlan{
				Select: []string{},
				From:   "people",
				Where:  plan.Compare("city", plan.OpNe, "'oslo'"),
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Compile(tc.plan)
			require.NoError(t, err)
			g.Assert(t, tc.name, []byte(cmd+"\n"))
		})
	}
}

func TestCompile_Pointers(t *testing.T) {
	a := gt("a", "1")
	group := &plan.BooleanGroup{Operator: plan.OpOr, Operands: []plan.Where{&a, gt("b", "2")}}

	cmd, err := Compile(&plan.QueryPlan{Select: []string{"a"}, From: "t", Where: group})
	require.NoError(t, err)
	assert.Equal(t, "db.t.find({$or:[{a:{$gt:1}},{b:{$gt:2}}]}).project({a:1})", cmd)
}

func TestCompile_NilPlan(t *testing.T) {
	_, err := Compile(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil plan")
}

func TestCompile_UnknownNode(t *testing.T) {
	// A nil operand inside a group is not a known node type.
	qp := &plan.QueryPlan{
		From:  "t",
		Where: plan.BooleanGroup{Operator: plan.OpAnd, Operands: []plan.Where{gt("a", "1"), nil}},
	}

	_, err := Compile(qp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported where node")
	assert.Contains(t, err.Error(), "$and[1]")
}

func TestFilter_NoFilter(t *testing.T) {
	c := NewShellCompiler()

	out, err := c.Filter(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	out, err = c.Filter(plan.Comparison{})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestFilter_ZeroComparisonNested(t *testing.T) {
	// Only the root treats the zero comparison as "no filter".
	out, err := NewShellCompiler().Filter(plan.Group(plan.OpAnd, plan.Comparison{}, gt("a", "1")))
	require.NoError(t, err)
	assert.Equal(t, "{$and:[{:{:}},{a:{$gt:1}}]}", out)
}

func TestProjection(t *testing.T) {
	c := NewShellCompiler()

	testCases := []struct {
		name   string
		fields []string
		want   string
	}{
		{"empty", nil, "{}"},
		{"star", []string{}, "{}"},
		{"ordered", []string{"b", "a"}, "{b:1,a:1}"},
		{"duplicates collapse", []string{"a", "b", "a"}, "{a:1,b:1}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Projection(tc.fields))
		})
	}
}

func TestShellText(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "age", "age"},
		{"operator", "$gte", "$gte"},
		{"single quotes kept", "'oslo'", "'oslo'"},
		{"double quotes dropped", `"oslo"`, "oslo"},
		{"html not escaped", "a<b&c", "a<b&c"},
		{"unicode", "größe", "größe"},
		{"combining mark kept", "e\u0301", "e\u0301"},
		{"ohm sign kept", "\u2126", "\u2126"},
		{"backslash", `a\b`, `a\\b`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shellText(tc.in))
		})
	}
}

func TestCompile_DoubleQuotedValue(t *testing.T) {
	cmd, err := Compile(&plan.QueryPlan{
		Select: []string{"name"},
		From:   "people",
		Where:  plan.Compare("city", plan.OpEq, `"oslo"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "db.people.find({city:{$eq:oslo}}).project({name:1})", cmd)
}
