// SPDX-License-Identifier: Apache-2.0

package celast

import (
	"fmt"

	"github.com/superscript-lang/superscript/value"
)

// Parse parses a CEL-subset expression into an Expr tree: arithmetic,
// relational, and logical operators with their usual precedence, the
// ternary conditional, member/index access, function and method calls,
// list and map literals, and atoms.
func Parse(src string) (Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("celast: unexpected token %q at position %d", p.peek().text, p.peek().pos)
	}
	return expr, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.peek()
	if t.kind != kind || (text != "" && t.text != text) {
		return fmt.Errorf("celast: expected %q, got %q at position %d", text, t.text, t.pos)
	}
	p.advance()
	return nil
}

func (p *parser) parseTernary() (Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokQuestion {
		p.advance()
		trueExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokColon, ":"); err != nil {
			return nil, err
		}
		falseExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &Ternary{Cond: cond, True: trueExpr, False: falseExpr}, nil
	}
	return cond, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && p.peek().text == "||" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseRelation()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && p.peek().text == "&&" {
		p.advance()
		right, err := p.parseRelation()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

var relOps = map[string]RelationOp{
	"<": OpLessThan, "<=": OpLessThanEq, ">": OpGreaterThan, ">=": OpGreaterThanEq,
	"==": OpEquals, "!=": OpNotEquals,
}

func (p *parser) parseRelation() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokOp {
		if op, ok := relOps[p.peek().text]; ok {
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &Relation{Left: left, Op: op, Right: right}, nil
		}
	}
	if p.peek().kind == tokIdent && p.peek().text == "in" {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &Relation{Left: left, Op: OpIn, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := OpAdd
		if p.peek().text == "-" {
			op = OpSubtract
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Arithmetic{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/" || p.peek().text == "%") {
		var op ArithmeticOp
		switch p.peek().text {
		case "*":
			op = OpMultiply
		case "/":
			op = OpDivide
		case "%":
			op = OpModulus
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Arithmetic{Left: left, Op: op, Right: right}
	}
	return left, nil
}

var unaryOps = map[string]UnaryOp{
	"!": OpNot, "!!": OpDoubleNot, "-": OpMinus, "--": OpDoubleMinus,
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokOp {
		if op, ok := unaryOps[p.peek().text]; ok {
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &Unary{Op: op, Operand: operand}, nil
		}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokDot:
			p.advance()
			nameTok := p.peek()
			if nameTok.kind != tokIdent {
				return nil, fmt.Errorf("celast: expected identifier after '.' at position %d", nameTok.pos)
			}
			p.advance()
			if p.peek().kind == tokLParen {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &Call{Func: &Member{Operand: expr, Field: &Attribute{Name: nameTok.text}}, Args: args}
			} else {
				expr = &Member{Operand: expr, Field: &Attribute{Name: nameTok.text}}
			}
		case tokLBracket:
			p.advance()
			idx, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRBracket, "]"); err != nil {
				return nil, err
			}
			expr = &Member{Operand: expr, Field: &Index{Index: idx}}
		case tokLParen:
			if ident, ok := expr.(*Ident); ok {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &Call{Func: ident, Args: args}
				continue
			}
			return expr, nil
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseArgs() ([]Expr, error) {
	if err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var args []Expr
	if p.peek().kind == tokRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.advance()
		expr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	case tokLBracket:
		p.advance()
		var elems []Expr
		if p.peek().kind != tokRBracket {
			for {
				el, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
				if p.peek().kind == tokComma {
					p.advance()
					continue
				}
				break
			}
		}
		if err := p.expect(tokRBracket, "]"); err != nil {
			return nil, err
		}
		return &List{Elements: elems}, nil
	case tokLBrace:
		return p.parseMapLiteral()
	case tokInt:
		i, err := parseIntLiteral(t.text)
		if err != nil {
			return nil, fmt.Errorf("celast: invalid int literal %q: %w", t.text, err)
		}
		p.advance()
		return &Atom{Value: value.Int(i)}, nil
	case tokUint:
		u, err := parseUintLiteral(t.text)
		if err != nil {
			return nil, fmt.Errorf("celast: invalid uint literal %q: %w", t.text, err)
		}
		p.advance()
		return &Atom{Value: value.UInt(u)}, nil
	case tokFloat:
		f, err := parseFloatLiteral(t.text)
		if err != nil {
			return nil, fmt.Errorf("celast: invalid float literal %q: %w", t.text, err)
		}
		p.advance()
		return &Atom{Value: value.Float(f)}, nil
	case tokString:
		p.advance()
		return &Atom{Value: value.String(t.text)}, nil
	case tokBytes:
		p.advance()
		return &Atom{Value: value.Bytes([]byte(t.text))}, nil
	case tokIdent:
		p.advance()
		switch t.text {
		case "true":
			return &Atom{Value: value.Bool(true)}, nil
		case "false":
			return &Atom{Value: value.Bool(false)}, nil
		case "null":
			return &Atom{Value: value.Null()}, nil
		default:
			return &Ident{Name: t.text}, nil
		}
	default:
		return nil, fmt.Errorf("celast: unexpected token %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseMapLiteral() (Expr, error) {
	if err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}
	var entries []MapEntry
	if p.peek().kind != tokRBrace {
		for {
			key, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokColon, ":"); err != nil {
				return nil, err
			}
			val, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
			if p.peek().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}
	return &MapLit{Entries: entries}, nil
}
