// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

// Rewrite applies NullSafety followed by RelationEnhance.
func Rewrite(e celast.Expr) celast.Expr {
	return RelationEnhance(NullSafety(e))
}

// NullSafety wraps every member access not already an argument to an
// explicit has() call with has(access) ? access : null, and every
// device.*/computed.* call with hasFn("ns.name") ? call : false.
func NullSafety(e celast.Expr) celast.Expr {
	return transform(e, false)
}

func transform(e celast.Expr, insideHas bool) celast.Expr {
	switch n := e.(type) {
	case *celast.Member:
		member := rebuildMemberChain(n, insideHas)
		if insideHas {
			return member
		}
		hasCall := &celast.Call{
			Func: &celast.Ident{Name: "has"},
			Args: []celast.Expr{member},
		}
		return &celast.Ternary{
			Cond:  hasCall,
			True:  member,
			False: &celast.Atom{Value: value.Null()},
		}
	case *celast.Call:
		return transformCall(n, insideHas)
	case *celast.Ternary:
		return &celast.Ternary{
			Cond:  transform(n.Cond, insideHas),
			True:  transform(n.True, insideHas),
			False: transform(n.False, insideHas),
		}
	case *celast.Relation:
		return &celast.Relation{Left: transform(n.Left, insideHas), Op: n.Op, Right: transform(n.Right, insideHas)}
	case *celast.Arithmetic:
		return &celast.Arithmetic{Left: transform(n.Left, insideHas), Op: n.Op, Right: transform(n.Right, insideHas)}
	case *celast.Unary:
		return &celast.Unary{Op: n.Op, Operand: transform(n.Operand, insideHas)}
	case *celast.Or:
		return &celast.Or{Left: transform(n.Left, insideHas), Right: transform(n.Right, insideHas)}
	case *celast.And:
		return &celast.And{Left: transform(n.Left, insideHas), Right: transform(n.Right, insideHas)}
	case *celast.List:
		elems := make([]celast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = transform(el, insideHas)
		}
		return &celast.List{Elements: elems}
	case *celast.MapLit:
		entries := make([]celast.MapEntry, len(n.Entries))
		for i, ent := range n.Entries {
			entries[i] = celast.MapEntry{Key: transform(ent.Key, insideHas), Value: transform(ent.Value, insideHas)}
		}
		return &celast.MapLit{Entries: entries}
	default:
		return e
	}
}

// rebuildMemberChain reconstructs n's operand chain without guarding any
// intermediate level: a member chain A.B.C rewrites the outermost access
// only, so a Member operand is rebuilt in place rather than run back
// through transform (which would wrap it in its own has() ternary). A
// non-Member operand (an identifier, a call result, a parenthesized
// expression, ...) ends the chain and goes through the normal transform.
func rebuildMemberChain(n *celast.Member, insideHas bool) *celast.Member {
	var operand celast.Expr
	if om, ok := n.Operand.(*celast.Member); ok {
		operand = rebuildMemberChain(om, insideHas)
	} else {
		operand = transform(n.Operand, insideHas)
	}
	return &celast.Member{Operand: operand, Field: transformMemberKind(n.Field, insideHas)}
}

func transformMemberKind(m celast.MemberKind, insideHas bool) celast.MemberKind {
	switch f := m.(type) {
	case *celast.Index:
		return &celast.Index{Index: transform(f.Index, insideHas)}
	case *celast.Fields:
		entries := make([]celast.FieldEntry, len(f.Entries))
		for i, ent := range f.Entries {
			entries[i] = celast.FieldEntry{Key: ent.Key, Value: transform(ent.Value, insideHas)}
		}
		return &celast.Fields{Entries: entries}
	default:
		return m
	}
}

func transformCall(n *celast.Call, insideHas bool) celast.Expr {
	isHas := isIdentNamed(n.Func, "has")

	transformedArgs := make([]celast.Expr, len(n.Args))
	for i, a := range n.Args {
		transformedArgs[i] = transform(a, isHas || insideHas)
	}

	if ns, name, ok := dynamicCallTarget(n.Func); ok && !insideHas {
		// n.Func is the raw device.foo/computed.foo member, not run through
		// the generic Member-guarding path: the hasFn ternary below is
		// already the guard for this whole call.
		call := &celast.Call{Func: n.Func, Args: transformedArgs}
		hasFnCall := &celast.Call{
			Func: &celast.Ident{Name: "hasFn"},
			Args: []celast.Expr{&celast.Atom{Value: value.String(ns + "." + name)}},
		}
		return &celast.Ternary{
			Cond:  hasFnCall,
			True:  call,
			False: &celast.Atom{Value: value.Bool(false)},
		}
	}

	transformedFunc := transform(n.Func, insideHas)
	return &celast.Call{Func: transformedFunc, Args: transformedArgs}
}

func isIdentNamed(e celast.Expr, name string) bool {
	id, ok := e.(*celast.Ident)
	return ok && id.Name == name
}

// dynamicCallTarget reports whether fn is a namespaced call of the shape
// device.foo or computed.foo, returning the namespace and the name.
func dynamicCallTarget(fn celast.Expr) (ns, name string, ok bool) {
	m, isMember := fn.(*celast.Member)
	if !isMember {
		return "", "", false
	}
	attr, isAttr := m.Field.(*celast.Attribute)
	if !isAttr {
		return "", "", false
	}
	root, isIdent := m.Operand.(*celast.Ident)
	if !isIdent {
		return "", "", false
	}
	if root.Name != "device" && root.Name != "computed" {
		return "", "", false
	}
	return root.Name, attr.Name, true
}
