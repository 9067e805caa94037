package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/plan"
	"github.com/roach88/sqlmongo/internal/translate"
)

// TokensOutput is the JSON payload of the tokens command.
type TokensOutput struct {
	Query  string        `json:"query"`
	Tokens []lexer.Token `json:"tokens"`
}

// PlanOutput is the JSON payload of the plan command.
type PlanOutput struct {
	Query   string          `json:"query"`
	Plan    *plan.QueryPlan `json:"plan"`
	Command string          `json:"command"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <query>",
		Short: "Show the token stream of a query",
		Long: `Tokenize a query and print one token per line with its rune offset.

The grammar is not checked, so any tokenizable input is accepted.

Examples:
  sqlmongo tokens "select a from b where a>=20"
  sqlmongo tokens --format json "select * from c"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(rootOpts, args[0], cmd)
		},
	}
}

func runTokens(opts *RootOptions, query string, cmd *cobra.Command) error {
	tokens, err := lexer.Tokenize(query)
	if err != nil {
		return reportTranslationError(opts, cmd, query, fmt.Errorf("tokenize: %w", err))
	}
	if tokens == nil {
		tokens = []lexer.Token{}
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(TokensOutput{Query: query, Tokens: tokens})
	}

	return writeTokenTable(f.Writer, tokens)
}

func writeTokenTable(w io.Writer, tokens []lexer.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tKIND\tLEXEME")
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", tok.Pos, tok.Kind, tok.Lexeme)
	}
	return tw.Flush()
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <query>",
		Short: "Show the parsed query plan",
		Long: `Parse a query and print its plan: collection, projection and the
WHERE tree, followed by the emitted command.

Examples:
  sqlmongo plan "select a from b where a>1 or (b<2 and c=3)"
  sqlmongo plan --format json "select a from b where a>1"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}
}

func runPlan(opts *RootOptions, query string, cmd *cobra.Command) error {
	tr := translate.New(translate.WithLogger(opts.Logger()))
	res, err := tr.Explain(query)
	if err != nil {
		return reportTranslationError(opts, cmd, query, err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(PlanOutput{Query: query, Plan: res.Plan, Command: res.Command})
	}

	var b strings.Builder
	writePlanTree(&b, res.Plan)
	fmt.Fprintf(&b, "command: %s\n", res.Command)
	_, err = io.WriteString(f.Writer, b.String())
	return err
}

// writePlanTree renders a plan as an indented outline:
//
//	collection: b
//	select: a, c
//	where:
//	  $and
//	    a $gt 20
//	    c $lt 3
func writePlanTree(b *strings.Builder, p *plan.QueryPlan) {
	fmt.Fprintf(b, "collection: %s\n", p.From)

	if len(p.Select) == 0 {
		b.WriteString("select: *\n")
	} else {
		fmt.Fprintf(b, "select: %s\n", strings.Join(p.Select, ", "))
	}

	if !p.HasFilter() {
		b.WriteString("where: (none)\n")
		return
	}
	b.WriteString("where:\n")
	writeWhere(b, p.Where, 1)
}

func writeWhere(b *strings.Builder, w plan.Where, depth int) {
	indent := strings.Repeat("  ", depth)

	switch node := w.(type) {
	case plan.Comparison:
		fmt.Fprintf(b, "%s%s %s %s\n", indent, node.Field, node.Operator, node.Value)
	case *plan.Comparison:
		writeWhere(b, *node, depth)
	case plan.BooleanGroup:
		fmt.Fprintf(b, "%s%s\n", indent, node.Operator)
		for _, operand := range node.Operands {
			writeWhere(b, operand, depth+1)
		}
	case *plan.BooleanGroup:
		writeWhere(b, *node, depth)
	default:
		fmt.Fprintf(b, "%s%T\n", indent, w)
	}
}
