// SPDX-License-Identifier: Apache-2.0

package celast

import (
	"encoding/json"
	"fmt"

	"github.com/superscript-lang/superscript/value"
)

// wireExpr is the flat, discriminated-union wire representation of Expr.
// Only the fields relevant to Type are populated.
type wireExpr struct {
	Type string `json:"type"`

	Left  *wireExpr `json:"left,omitempty"`
	Right *wireExpr `json:"right,omitempty"`
	Op    string    `json:"op,omitempty"`

	Cond  *wireExpr `json:"cond,omitempty"`
	True  *wireExpr `json:"true,omitempty"`
	False *wireExpr `json:"false,omitempty"`

	Operand *wireExpr `json:"operand,omitempty"`

	Member *wireMember `json:"member,omitempty"`

	Func *wireExpr   `json:"func,omitempty"`
	Args []*wireExpr `json:"args,omitempty"`

	Elements []*wireExpr    `json:"elements,omitempty"`
	Entries  []wireMapEntry `json:"entries,omitempty"`

	Atom *value.V `json:"atom,omitempty"`
	Name string   `json:"name,omitempty"`
}

type wireMember struct {
	Type   string          `json:"type"`
	Name   string          `json:"name,omitempty"`
	Index  *wireExpr       `json:"index,omitempty"`
	Fields []wireFieldItem `json:"fields,omitempty"`
}

type wireFieldItem struct {
	Key   string   `json:"key"`
	Value wireExpr `json:"value"`
}

type wireMapEntry struct {
	Key   wireExpr `json:"key"`
	Value wireExpr `json:"value"`
}

// Marshal encodes an expression tree as JSON.
func Marshal(e Expr) ([]byte, error) {
	return json.Marshal(toWire(e))
}

// Unmarshal decodes an expression tree from its JSON wire format, the same
// shape Marshal and Parse-then-Marshal produce.
func Unmarshal(data []byte) (Expr, error) {
	var w wireExpr
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("celast: decode AST: %w", err)
	}
	return fromWire(&w)
}

func toWire(e Expr) *wireExpr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Arithmetic:
		return &wireExpr{Type: "Arithmetic", Left: toWire(n.Left), Op: string(n.Op), Right: toWire(n.Right)}
	case *Relation:
		return &wireExpr{Type: "Relation", Left: toWire(n.Left), Op: string(n.Op), Right: toWire(n.Right)}
	case *Ternary:
		return &wireExpr{Type: "Ternary", Cond: toWire(n.Cond), True: toWire(n.True), False: toWire(n.False)}
	case *Or:
		return &wireExpr{Type: "Or", Left: toWire(n.Left), Right: toWire(n.Right)}
	case *And:
		return &wireExpr{Type: "And", Left: toWire(n.Left), Right: toWire(n.Right)}
	case *Unary:
		return &wireExpr{Type: "Unary", Op: string(n.Op), Operand: toWire(n.Operand)}
	case *Member:
		return &wireExpr{Type: "Member", Operand: toWire(n.Operand), Member: toWireMember(n.Field)}
	case *Call:
		args := make([]*wireExpr, len(n.Args))
		for i, a := range n.Args {
			args[i] = toWire(a)
		}
		return &wireExpr{Type: "Call", Func: toWire(n.Func), Args: args}
	case *List:
		elems := make([]*wireExpr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = toWire(el)
		}
		return &wireExpr{Type: "List", Elements: elems}
	case *MapLit:
		entries := make([]wireMapEntry, len(n.Entries))
		for i, ent := range n.Entries {
			entries[i] = wireMapEntry{Key: *toWire(ent.Key), Value: *toWire(ent.Value)}
		}
		return &wireExpr{Type: "Map", Entries: entries}
	case *Atom:
		v := n.Value
		return &wireExpr{Type: "Atom", Atom: &v}
	case *Ident:
		return &wireExpr{Type: "Ident", Name: n.Name}
	default:
		return &wireExpr{Type: "Unknown"}
	}
}

func toWireMember(m MemberKind) *wireMember {
	switch n := m.(type) {
	case *Attribute:
		return &wireMember{Type: "Attribute", Name: n.Name}
	case *Index:
		return &wireMember{Type: "Index", Index: toWire(n.Index)}
	case *Fields:
		items := make([]wireFieldItem, len(n.Entries))
		for i, ent := range n.Entries {
			items[i] = wireFieldItem{Key: ent.Key, Value: *toWire(ent.Value)}
		}
		return &wireMember{Type: "Fields", Fields: items}
	default:
		return &wireMember{Type: "Unknown"}
	}
}

func fromWire(w *wireExpr) (Expr, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Type {
	case "Arithmetic":
		left, right, err := fromWirePair(w.Left, w.Right)
		if err != nil {
			return nil, err
		}
		return &Arithmetic{Left: left, Op: ArithmeticOp(w.Op), Right: right}, nil
	case "Relation":
		left, right, err := fromWirePair(w.Left, w.Right)
		if err != nil {
			return nil, err
		}
		return &Relation{Left: left, Op: RelationOp(w.Op), Right: right}, nil
	case "Ternary":
		cond, err := fromWire(w.Cond)
		if err != nil {
			return nil, err
		}
		tExpr, err := fromWire(w.True)
		if err != nil {
			return nil, err
		}
		fExpr, err := fromWire(w.False)
		if err != nil {
			return nil, err
		}
		return &Ternary{Cond: cond, True: tExpr, False: fExpr}, nil
	case "Or":
		left, right, err := fromWirePair(w.Left, w.Right)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	case "And":
		left, right, err := fromWirePair(w.Left, w.Right)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	case "Unary":
		operand, err := fromWire(w.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: UnaryOp(w.Op), Operand: operand}, nil
	case "Member":
		operand, err := fromWire(w.Operand)
		if err != nil {
			return nil, err
		}
		field, err := fromWireMember(w.Member)
		if err != nil {
			return nil, err
		}
		return &Member{Operand: operand, Field: field}, nil
	case "Call":
		fn, err := fromWire(w.Func)
		if err != nil {
			return nil, err
		}
		args := make([]Expr, len(w.Args))
		for i, a := range w.Args {
			args[i], err = fromWire(a)
			if err != nil {
				return nil, err
			}
		}
		return &Call{Func: fn, Args: args}, nil
	case "List":
		elems := make([]Expr, len(w.Elements))
		var err error
		for i, el := range w.Elements {
			elems[i], err = fromWire(el)
			if err != nil {
				return nil, err
			}
		}
		return &List{Elements: elems}, nil
	case "Map":
		entries := make([]MapEntry, len(w.Entries))
		for i, ent := range w.Entries {
			key, err := fromWire(&ent.Key)
			if err != nil {
				return nil, err
			}
			val, err := fromWire(&ent.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = MapEntry{Key: key, Value: val}
		}
		return &MapLit{Entries: entries}, nil
	case "Atom":
		if w.Atom == nil {
			return &Atom{Value: value.Null()}, nil
		}
		return &Atom{Value: *w.Atom}, nil
	case "Ident":
		return &Ident{Name: w.Name}, nil
	default:
		return nil, fmt.Errorf("celast: unknown node type %q", w.Type)
	}
}

func fromWirePair(l, r *wireExpr) (Expr, Expr, error) {
	left, err := fromWire(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := fromWire(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func fromWireMember(w *wireMember) (MemberKind, error) {
	if w == nil {
		return nil, fmt.Errorf("celast: member node missing")
	}
	switch w.Type {
	case "Attribute":
		return &Attribute{Name: w.Name}, nil
	case "Index":
		idx, err := fromWire(w.Index)
		if err != nil {
			return nil, err
		}
		return &Index{Index: idx}, nil
	case "Fields":
		entries := make([]FieldEntry, len(w.Fields))
		for i, item := range w.Fields {
			val, err := fromWire(&item.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = FieldEntry{Key: item.Key, Value: val}
		}
		return &Fields{Entries: entries}, nil
	default:
		return nil, fmt.Errorf("celast: unknown member type %q", w.Type)
	}
}
