// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

var errDivisionByZero = fmt.Errorf("eval: division by zero")

func (ee *evalEnv) evalArithmetic(ctx context.Context, n *celast.Arithmetic) (value.V, error) {
	l, err := ee.eval(ctx, n.Left)
	if err != nil {
		return value.Null(), err
	}
	r, err := ee.eval(ctx, n.Right)
	if err != nil {
		return value.Null(), err
	}
	return arith(n.Op, l, r)
}

func arith(op celast.ArithmeticOp, l, r value.V) (value.V, error) {
	if op == celast.OpAdd {
		if l.Tag() == value.TagString && r.Tag() == value.TagString {
			ls, _ := l.AsString()
			rs, _ := r.AsString()
			return value.String(ls + rs), nil
		}
		if l.Tag() == value.TagList && r.Tag() == value.TagList {
			ll, _ := l.AsList()
			rl, _ := r.AsList()
			combined := make([]value.V, 0, len(ll)+len(rl))
			combined = append(combined, ll...)
			combined = append(combined, rl...)
			return value.List(combined), nil
		}
	}

	if l.Tag() == value.TagInt && r.Tag() == value.TagInt {
		li, _ := l.AsInt()
		ri, _ := r.AsInt()
		return intArith(op, li, ri)
	}
	if l.Tag() == value.TagUint && r.Tag() == value.TagUint {
		lu, _ := l.AsUint()
		ru, _ := r.AsUint()
		return uintArith(op, lu, ru)
	}

	lf, lok := numericFloat(l)
	rf, rok := numericFloat(r)
	if lok && rok {
		return floatArith(op, lf, rf)
	}

	return value.Null(), fmt.Errorf("eval: cannot apply %s to %s and %s", op, l.Tag(), r.Tag())
}

func intArith(op celast.ArithmeticOp, l, r int64) (value.V, error) {
	switch op {
	case celast.OpAdd:
		return value.Int(l + r), nil
	case celast.OpSubtract:
		return value.Int(l - r), nil
	case celast.OpMultiply:
		return value.Int(l * r), nil
	case celast.OpDivide:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.Int(l / r), nil
	case celast.OpModulus:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.Int(l % r), nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported arithmetic operator %q", op)
	}
}

func uintArith(op celast.ArithmeticOp, l, r uint64) (value.V, error) {
	switch op {
	case celast.OpAdd:
		return value.UInt(l + r), nil
	case celast.OpSubtract:
		return value.UInt(l - r), nil
	case celast.OpMultiply:
		return value.UInt(l * r), nil
	case celast.OpDivide:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.UInt(l / r), nil
	case celast.OpModulus:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.UInt(l % r), nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported arithmetic operator %q", op)
	}
}

func floatArith(op celast.ArithmeticOp, l, r float64) (value.V, error) {
	switch op {
	case celast.OpAdd:
		return value.Float(l + r), nil
	case celast.OpSubtract:
		return value.Float(l - r), nil
	case celast.OpMultiply:
		return value.Float(l * r), nil
	case celast.OpDivide:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.Float(l / r), nil
	case celast.OpModulus:
		if r == 0 {
			return value.Null(), errDivisionByZero
		}
		return value.Float(math.Mod(l, r)), nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported arithmetic operator %q", op)
	}
}

func numericFloat(v value.V) (float64, bool) {
	switch v.Tag() {
	case value.TagInt:
		i, _ := v.AsInt()
		return float64(i), true
	case value.TagUint:
		u, _ := v.AsUint()
		return float64(u), true
	case value.TagFloat:
		f, _ := v.AsFloat()
		return f, true
	default:
		return 0, false
	}
}

func (ee *evalEnv) evalRelation(ctx context.Context, n *celast.Relation) (value.V, error) {
	l, err := ee.eval(ctx, n.Left)
	if err != nil {
		return value.Null(), err
	}
	r, err := ee.eval(ctx, n.Right)
	if err != nil {
		return value.Null(), err
	}

	switch n.Op {
	case celast.OpIn:
		return evalIn(l, r)
	case celast.OpEquals:
		return value.Bool(relEqual(l, r)), nil
	case celast.OpNotEquals:
		return value.Bool(!relEqual(l, r)), nil
	}

	if l.IsNull() || r.IsNull() {
		return value.Null(), ErrNullComparison
	}
	cmp, err := compareOrder(l, r)
	if err != nil {
		return value.Null(), err
	}
	switch n.Op {
	case celast.OpLessThan:
		return value.Bool(cmp < 0), nil
	case celast.OpLessThanEq:
		return value.Bool(cmp <= 0), nil
	case celast.OpGreaterThan:
		return value.Bool(cmp > 0), nil
	case celast.OpGreaterThanEq:
		return value.Bool(cmp >= 0), nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported relation operator %q", n.Op)
	}
}

func evalIn(l, r value.V) (value.V, error) {
	switch r.Tag() {
	case value.TagList:
		list, _ := r.AsList()
		for _, item := range list {
			if relEqual(item, l) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.TagMap:
		entries, _, _ := r.AsMap()
		key, ok := l.AsString()
		if !ok {
			return value.Bool(false), nil
		}
		_, ok = entries[key]
		return value.Bool(ok), nil
	default:
		return value.Null(), fmt.Errorf("eval: 'in' requires a list or map, got %s", r.Tag())
	}
}

// relEqual is equality with cross-tag numeric comparison: 1 (int) equals
// 1u (uint) equals 1.0 (float), which value.V.Equal deliberately refuses
// since it is meant as strict structural equality for round-tripping.
func relEqual(l, r value.V) bool {
	if l.IsNull() || r.IsNull() {
		return l.IsNull() && r.IsNull()
	}
	if l.Equal(r) {
		return true
	}
	lf, lok := numericFloat(l)
	rf, rok := numericFloat(r)
	return lok && rok && lf == rf
}

func compareOrder(l, r value.V) (int, error) {
	if l.Tag() == value.TagString && r.Tag() == value.TagString {
		ls, _ := l.AsString()
		rs, _ := r.AsString()
		return strings.Compare(ls, rs), nil
	}
	if l.Tag() == value.TagBytes && r.Tag() == value.TagBytes {
		lb, _ := l.AsBytes()
		rb, _ := r.AsBytes()
		return bytes.Compare(lb, rb), nil
	}
	if lf, lok := numericFloat(l); lok {
		if rf, rok := numericFloat(r); rok {
			switch {
			case lf < rf:
				return -1, nil
			case lf > rf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, fmt.Errorf("eval: cannot order-compare %s and %s", l.Tag(), r.Tag())
}
