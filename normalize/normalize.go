// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"strconv"
	"strings"

	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

// Variables recursively normalizes string-shaped primitives within v:
// through list elements and map values, leaving every other tag as-is.
func Variables(v value.V) value.V {
	switch v.Tag() {
	case value.TagString:
		s, _ := v.AsString()
		return normalizeScalarString(s)
	case value.TagList:
		items, _ := v.AsList()
		normalized := make([]value.V, len(items))
		for i, item := range items {
			normalized[i] = Variables(item)
		}
		return value.List(normalized)
	case value.TagMap:
		entries, order, _ := v.AsMap()
		normalized := make(map[string]value.V, len(entries))
		for k, ev := range entries {
			normalized[k] = Variables(ev)
		}
		return value.Map(normalized, order)
	default:
		return v
	}
}

// ASTLiterals applies the same scalar-string coercion to every Atom in
// expr whose value is a string.
func ASTLiterals(expr celast.Expr) celast.Expr {
	switch n := expr.(type) {
	case *celast.Atom:
		if n.Value.Tag() == value.TagString {
			s, _ := n.Value.AsString()
			return &celast.Atom{Value: normalizeScalarString(s)}
		}
		return n
	case *celast.Arithmetic:
		return &celast.Arithmetic{Left: ASTLiterals(n.Left), Op: n.Op, Right: ASTLiterals(n.Right)}
	case *celast.Relation:
		return &celast.Relation{Left: ASTLiterals(n.Left), Op: n.Op, Right: ASTLiterals(n.Right)}
	case *celast.Ternary:
		return &celast.Ternary{Cond: ASTLiterals(n.Cond), True: ASTLiterals(n.True), False: ASTLiterals(n.False)}
	case *celast.Or:
		return &celast.Or{Left: ASTLiterals(n.Left), Right: ASTLiterals(n.Right)}
	case *celast.And:
		return &celast.And{Left: ASTLiterals(n.Left), Right: ASTLiterals(n.Right)}
	case *celast.Unary:
		return &celast.Unary{Op: n.Op, Operand: ASTLiterals(n.Operand)}
	case *celast.Member:
		return &celast.Member{Operand: ASTLiterals(n.Operand), Field: normalizeMemberKind(n.Field)}
	case *celast.Call:
		args := make([]celast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = ASTLiterals(a)
		}
		return &celast.Call{Func: ASTLiterals(n.Func), Args: args}
	case *celast.List:
		elems := make([]celast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = ASTLiterals(el)
		}
		return &celast.List{Elements: elems}
	case *celast.MapLit:
		entries := make([]celast.MapEntry, len(n.Entries))
		for i, ent := range n.Entries {
			entries[i] = celast.MapEntry{Key: ASTLiterals(ent.Key), Value: ASTLiterals(ent.Value)}
		}
		return &celast.MapLit{Entries: entries}
	default:
		return expr
	}
}

func normalizeMemberKind(m celast.MemberKind) celast.MemberKind {
	switch f := m.(type) {
	case *celast.Index:
		return &celast.Index{Index: ASTLiterals(f.Index)}
	case *celast.Fields:
		entries := make([]celast.FieldEntry, len(f.Entries))
		for i, ent := range f.Entries {
			entries[i] = celast.FieldEntry{Key: ent.Key, Value: ASTLiterals(ent.Value)}
		}
		return &celast.Fields{Entries: entries}
	default:
		return m
	}
}

func normalizeScalarString(s string) value.V {
	switch s {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if v, ok := asNumber(s); ok {
		return v
	}
	return value.String(s)
}

// asNumber tries int, then uint, then float, in that order, rejecting any
// string whose integer-looking part has a leading zero other than the
// bare literal "0" (so padded identifiers like "007" are preserved as
// strings) and any leading '+' (strconv accepts it; the wire format
// doesn't allow it on an integer literal). The float branch additionally
// requires a '.' or exponent marker, so a pure-digit string that overflows
// both int64 and uint64 stays a string instead of lossily coercing.
func asNumber(s string) (value.V, bool) {
	if !looksLikeNumber(s) {
		return value.V{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return value.UInt(u), true
	}
	if strings.ContainsAny(s, ".eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f), true
		}
	}
	return value.V{}, false
}

func looksLikeNumber(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "+") {
		return false
	}
	digits := s
	if strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	intPart := digits
	if idx := strings.IndexAny(digits, ".eE"); idx >= 0 {
		intPart = digits[:idx]
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return false
	}
	for _, c := range digits {
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			continue
		}
		return false
	}
	return true
}
