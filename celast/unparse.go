// SPDX-License-Identifier: Apache-2.0

package celast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/superscript-lang/superscript/value"
)

// Unparse renders e back to CEL source text. It is used only by tests
// that want to assert a rewrite's shape in a readable form; the evaluator
// never re-parses a rewritten tree.
func Unparse(e Expr) string {
	var b strings.Builder
	unparse(&b, e)
	return b.String()
}

func unparse(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Arithmetic:
		unparseBinary(b, n.Left, arithSymbol(n.Op), n.Right)
	case *Relation:
		unparseBinary(b, n.Left, relSymbol(n.Op), n.Right)
	case *Ternary:
		b.WriteByte('(')
		unparse(b, n.Cond)
		b.WriteString(" ? ")
		unparse(b, n.True)
		b.WriteString(" : ")
		unparse(b, n.False)
		b.WriteByte(')')
	case *Or:
		unparseBinary(b, n.Left, "||", n.Right)
	case *And:
		unparseBinary(b, n.Left, "&&", n.Right)
	case *Unary:
		b.WriteString(unarySymbol(n.Op))
		unparse(b, n.Operand)
	case *Member:
		unparse(b, n.Operand)
		switch f := n.Field.(type) {
		case *Attribute:
			b.WriteByte('.')
			b.WriteString(f.Name)
		case *Index:
			b.WriteByte('[')
			unparse(b, f.Index)
			b.WriteByte(']')
		case *Fields:
			b.WriteByte('{')
			for i, ent := range f.Entries {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(ent.Key)
				b.WriteString(": ")
				unparse(b, ent.Value)
			}
			b.WriteByte('}')
		}
	case *Call:
		unparse(b, n.Func)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			unparse(b, a)
		}
		b.WriteByte(')')
	case *List:
		b.WriteByte('[')
		for i, el := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			unparse(b, el)
		}
		b.WriteByte(']')
	case *MapLit:
		b.WriteByte('{')
		for i, ent := range n.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			unparse(b, ent.Key)
			b.WriteString(": ")
			unparse(b, ent.Value)
		}
		b.WriteByte('}')
	case *Atom:
		b.WriteString(unparseAtom(n.Value))
	case *Ident:
		b.WriteString(n.Name)
	default:
		b.WriteString("<?>")
	}
}

func unparseBinary(b *strings.Builder, left Expr, op string, right Expr) {
	b.WriteByte('(')
	unparse(b, left)
	b.WriteByte(' ')
	b.WriteString(op)
	b.WriteByte(' ')
	unparse(b, right)
	b.WriteByte(')')
}

func arithSymbol(op ArithmeticOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulus:
		return "%"
	default:
		return "?"
	}
}

func relSymbol(op RelationOp) string {
	switch op {
	case OpLessThan:
		return "<"
	case OpLessThanEq:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanEq:
		return ">="
	case OpEquals:
		return "=="
	case OpNotEquals:
		return "!="
	case OpIn:
		return "in"
	default:
		return "?"
	}
}

func unarySymbol(op UnaryOp) string {
	switch op {
	case OpNot:
		return "!"
	case OpDoubleNot:
		return "!!"
	case OpMinus:
		return "-"
	case OpDoubleMinus:
		return "--"
	default:
		return "?"
	}
}

func unparseAtom(v value.V) string {
	switch v.Tag() {
	case value.TagString:
		s, _ := v.AsString()
		return strconv.Quote(s)
	case value.TagInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case value.TagUint:
		u, _ := v.AsUint()
		return strconv.FormatUint(u, 10) + "u"
	case value.TagFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case value.TagBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case value.TagBytes:
		bs, _ := v.AsBytes()
		return fmt.Sprintf("b%q", string(bs))
	case value.TagNull:
		return "null"
	default:
		return "<atom>"
	}
}
