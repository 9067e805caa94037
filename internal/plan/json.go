package plan

import (
	"encoding/json"
	"fmt"
)

// Node kinds used as the JSON discriminator of Where nodes.
const (
	KindComparison = "comparison"
	KindGroup      = "group"
)

type comparisonJSON struct {
	Kind     string `json:"kind"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type groupJSON struct {
	Kind     string            `json:"kind"`
	Operator BoolOp            `json:"operator"`
	Operands []json.RawMessage `json:"operands"`
}

type planJSON struct {
	Select []string        `json:"select"`
	From   string          `json:"from"`
	Where  json.RawMessage `json:"where"`
}

// MarshalJSON encodes a Comparison with its kind tag.
func (c Comparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(comparisonJSON{
		Kind:     KindComparison,
		Field:    c.Field,
		Operator: c.Operator,
		Value:    c.Value,
	})
}

// MarshalJSON encodes a BooleanGroup with its kind tag.
func (g BooleanGroup) MarshalJSON() ([]byte, error) {
	operands := make([]json.RawMessage, 0, len(g.Operands))
	for i, operand := range g.Operands {
		data, err := MarshalWhere(operand)
		if err != nil {
			return nil, fmt.Errorf("operand[%d]: %w", i, err)
		}
		operands = append(operands, data)
	}
	return json.Marshal(groupJSON{Kind: KindGroup, Operator: g.Operator, Operands: operands})
}

// MarshalJSON encodes the plan. A plan without filter has "where": null.
func (p QueryPlan) MarshalJSON() ([]byte, error) {
	sel := p.Select
	if sel == nil {
		sel = []string{}
	}

	where := json.RawMessage("null")
	if p.HasFilter() {
		data, err := MarshalWhere(p.Where)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		where = data
	}

	return json.Marshal(planJSON{Select: sel, From: p.From, Where: where})
}

// MarshalWhere encodes a single Where node.
func MarshalWhere(w Where) ([]byte, error) {
	switch node := w.(type) {
	case Comparison, BooleanGroup:
		return json.Marshal(node)
	case *Comparison:
		return json.Marshal(*node)
	case *BooleanGroup:
		return json.Marshal(*node)
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unsupported where node: %T", w)
	}
}

// UnmarshalWhere decodes a node written by MarshalWhere.
func UnmarshalWhere(data []byte) (Where, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode where: %w", err)
	}

	switch head.Kind {
	case KindComparison:
		var c comparisonJSON
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode comparison: %w", err)
		}
		return Compare(c.Field, c.Operator, c.Value), nil
	case KindGroup:
		var g groupJSON
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		operands := make([]Where, 0, len(g.Operands))
		for i, raw := range g.Operands {
			operand, err := UnmarshalWhere(raw)
			if err != nil {
				return nil, fmt.Errorf("operand[%d]: %w", i, err)
			}
			operands = append(operands, operand)
		}
		return Group(g.Operator, operands...), nil
	default:
		return nil, fmt.Errorf("unknown where kind %q", head.Kind)
	}
}

// UnmarshalJSON decodes a plan written by MarshalJSON.
func (p *QueryPlan) UnmarshalJSON(data []byte) error {
	var raw planJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	where, err := UnmarshalWhere(raw.Where)
	if err != nil {
		return err
	}

	p.Select = raw.Select
	p.From = raw.From
	p.Where = where
	return nil
}
