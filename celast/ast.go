// SPDX-License-Identifier: Apache-2.0

package celast

import "github.com/superscript-lang/superscript/value"

// ArithmeticOp is one of the binary arithmetic operators.
type ArithmeticOp string

const (
	OpAdd      ArithmeticOp = "Add"
	OpSubtract ArithmeticOp = "Subtract"
	OpMultiply ArithmeticOp = "Multiply"
	OpDivide   ArithmeticOp = "Divide"
	OpModulus  ArithmeticOp = "Modulus"
)

// RelationOp is one of the binary relational operators.
type RelationOp string

const (
	OpLessThan      RelationOp = "LessThan"
	OpLessThanEq    RelationOp = "LessThanEq"
	OpGreaterThan   RelationOp = "GreaterThan"
	OpGreaterThanEq RelationOp = "GreaterThanEq"
	OpEquals        RelationOp = "Equals"
	OpNotEquals     RelationOp = "NotEquals"
	OpIn            RelationOp = "In"
)

// UnaryOp is one of the unary prefix operators.
type UnaryOp string

const (
	OpNot         UnaryOp = "Not"
	OpDoubleNot   UnaryOp = "DoubleNot"
	OpMinus       UnaryOp = "Minus"
	OpDoubleMinus UnaryOp = "DoubleMinus"
)

// Expr is any node of the expression tree. The concrete types below are
// the only implementations; switch on the concrete type to handle every
// case.
type Expr interface {
	exprNode()
}

type Arithmetic struct {
	Left, Right Expr
	Op          ArithmeticOp
}

type Relation struct {
	Left, Right Expr
	Op          RelationOp
}

type Ternary struct {
	Cond, True, False Expr
}

type Or struct{ Left, Right Expr }
type And struct{ Left, Right Expr }

type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Member is attribute access (a.b), indexing (a[b]), or a map-literal
// field-construction shorthand (a{b: c}) applied to Operand.
type Member struct {
	Operand Expr
	Field   MemberKind
}

// MemberKind is one of Attribute, Index, or Fields.
type MemberKind interface {
	memberNode()
}

type Attribute struct{ Name string }
type Index struct{ Index Expr }
type Fields struct{ Entries []FieldEntry }
type FieldEntry struct {
	Key   string
	Value Expr
}

// Call is a function or method call. Func is the callee expression: an
// Ident for a bare call (foo(args)) or a Member for a namespaced/method
// call (device.foo(args), a.b(args)).
type Call struct {
	Func Expr
	Args []Expr
}

type List struct{ Elements []Expr }

type MapLit struct{ Entries []MapEntry }
type MapEntry struct{ Key, Value Expr }

// Atom is a scalar literal. Value's tag is restricted to string, int,
// uint, float, bool, bytes, and null — the scalar subset the grammar can
// produce directly.
type Atom struct{ Value value.V }

type Ident struct{ Name string }

func (*Arithmetic) exprNode() {}
func (*Relation) exprNode()   {}
func (*Ternary) exprNode()    {}
func (*Or) exprNode()         {}
func (*And) exprNode()        {}
func (*Unary) exprNode()      {}
func (*Member) exprNode()     {}
func (*Call) exprNode()       {}
func (*List) exprNode()       {}
func (*MapLit) exprNode()     {}
func (*Atom) exprNode()       {}
func (*Ident) exprNode()      {}

func (*Attribute) memberNode() {}
func (*Index) memberNode()     {}
func (*Fields) memberNode()    {}
