// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

// RelationEnhance walks e looking for Relation nodes with at least one
// guard-ternary operand (the has(...) ? access : null / hasFn(...) ? call
// : false shape NullSafety produces) and rewrites the relation so a
// "missing" operand never reaches a type error: an atomic-literal opposite
// operand gets a typed zero-value default substituted into the guard's
// false branch; any other opposite operand gets the whole relation wrapped
// in the guard's condition, defaulting to false; two guarded operands
// combine their conditions with &&.
func RelationEnhance(e celast.Expr) celast.Expr {
	switch n := e.(type) {
	case *celast.Relation:
		left := RelationEnhance(n.Left)
		right := RelationEnhance(n.Right)
		return enhanceRelation(left, n.Op, right)
	case *celast.Arithmetic:
		return &celast.Arithmetic{Left: RelationEnhance(n.Left), Op: n.Op, Right: RelationEnhance(n.Right)}
	case *celast.Ternary:
		return &celast.Ternary{
			Cond:  RelationEnhance(n.Cond),
			True:  RelationEnhance(n.True),
			False: RelationEnhance(n.False),
		}
	case *celast.Or:
		return &celast.Or{Left: RelationEnhance(n.Left), Right: RelationEnhance(n.Right)}
	case *celast.And:
		return &celast.And{Left: RelationEnhance(n.Left), Right: RelationEnhance(n.Right)}
	case *celast.Unary:
		return &celast.Unary{Op: n.Op, Operand: RelationEnhance(n.Operand)}
	case *celast.Member:
		return &celast.Member{Operand: RelationEnhance(n.Operand), Field: n.Field}
	case *celast.Call:
		args := make([]celast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = RelationEnhance(a)
		}
		return &celast.Call{Func: n.Func, Args: args}
	case *celast.List:
		elems := make([]celast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = RelationEnhance(el)
		}
		return &celast.List{Elements: elems}
	case *celast.MapLit:
		entries := make([]celast.MapEntry, len(n.Entries))
		for i, ent := range n.Entries {
			entries[i] = celast.MapEntry{Key: RelationEnhance(ent.Key), Value: RelationEnhance(ent.Value)}
		}
		return &celast.MapLit{Entries: entries}
	default:
		return e
	}
}

// enhanceRelation applies spec rule (d) to a relation whose operands have
// already been through RelationEnhance recursively. Exactly one guarded
// side rewrites the relation per rule 1 (other side an atomic literal) or
// rule 2 (otherwise); both sides guarded combine their guards with &&.
func enhanceRelation(left celast.Expr, op celast.RelationOp, right celast.Expr) celast.Expr {
	lg, lIsGuard := asGuardTernary(left)
	rg, rIsGuard := asGuardTernary(right)

	switch {
	case lIsGuard && rIsGuard:
		cond := &celast.And{Left: lg.Cond, Right: rg.Cond}
		rel := &celast.Relation{Left: lg.True, Op: op, Right: rg.True}
		return &celast.Ternary{Cond: cond, True: rel, False: falseAtom()}
	case lIsGuard:
		return enhanceOneSided(lg, op, right, true)
	case rIsGuard:
		return enhanceOneSided(rg, op, left, false)
	default:
		return &celast.Relation{Left: left, Op: op, Right: right}
	}
}

// enhanceOneSided builds the rewritten relation for a relation with exactly
// one guarded side. other is the already-enhanced opposite operand;
// guardIsLeft reports which side of the relation guard occupies.
//
// Rule 1: when other is an atomic literal of a defaultable tag, the guard's
// own false branch is patched to that tag's zero value and the relation
// itself is left in place (G ? E : default) ⊙ O.
//
// Rule 2: otherwise (other is complex, or a literal of a tag with no
// default), the whole relation is wrapped in the guard's condition instead:
// G ? (E ⊙ O) : false.
func enhanceOneSided(guard *celast.Ternary, op celast.RelationOp, other celast.Expr, guardIsLeft bool) celast.Expr {
	if lit, isAtom := other.(*celast.Atom); isAtom {
		if def, ok := defaultFor(lit.Value.Tag()); ok {
			patched := withFalseBranch(guard, def)
			if guardIsLeft {
				return &celast.Relation{Left: patched, Op: op, Right: other}
			}
			return &celast.Relation{Left: other, Op: op, Right: patched}
		}
	}

	var rel *celast.Relation
	if guardIsLeft {
		rel = &celast.Relation{Left: guard.True, Op: op, Right: other}
	} else {
		rel = &celast.Relation{Left: other, Op: op, Right: guard.True}
	}
	return &celast.Ternary{Cond: guard.Cond, True: rel, False: falseAtom()}
}

func withFalseBranch(t *celast.Ternary, def value.V) celast.Expr {
	return &celast.Ternary{Cond: t.Cond, True: t.True, False: &celast.Atom{Value: def}}
}

func falseAtom() celast.Expr {
	return &celast.Atom{Value: value.Bool(false)}
}

// asGuardTernary reports whether e is a has()/hasFn() guard ternary whose
// False branch is still the original null/false sentinel.
func asGuardTernary(e celast.Expr) (*celast.Ternary, bool) {
	t, ok := e.(*celast.Ternary)
	if !ok {
		return nil, false
	}
	if !isSentinelFalse(t.False) {
		return nil, false
	}
	call, ok := t.Cond.(*celast.Call)
	if !ok || !(isIdentNamed(call.Func, "has") || isIdentNamed(call.Func, "hasFn")) {
		return nil, false
	}
	return t, true
}

func isSentinelFalse(e celast.Expr) bool {
	a, ok := e.(*celast.Atom)
	if !ok {
		return false
	}
	return a.Value.IsNull() || a.Value.Tag() == value.TagBool
}

func defaultFor(tag value.Tag) (value.V, bool) {
	switch tag {
	case value.TagInt:
		return value.Int(0), true
	case value.TagUint:
		return value.UInt(0), true
	case value.TagFloat:
		return value.Float(0), true
	case value.TagString:
		return value.String(""), true
	case value.TagBool:
		return value.Bool(false), true
	default:
		return value.V{}, false
	}
}
