// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/superscript-lang/superscript/bridge"
	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/logger"
	"github.com/superscript-lang/superscript/normalize"
	"github.com/superscript-lang/superscript/value"
)

// defaultMaxSteps bounds a tree walk before WithMaxSteps is applied. It is
// generous enough that no expression anyone would hand-write hits it; it
// exists to turn a pathological or generated expression into a bounded
// error instead of a runaway walk.
const defaultMaxSteps = 1_000_000

// Evaluator walks a rewritten celast.Expr against bound variables and a
// bridge.Bridge.
type Evaluator struct {
	bridge   bridge.Bridge
	maxSteps int
}

// Option configures an Evaluator constructed by NewEvaluator.
type Option func(*Evaluator)

// WithMaxSteps caps the number of AST nodes an Eval call will visit,
// generalizing cel.Engine's cost limit to a step count appropriate for a
// tree walker. n <= 0 disables the cap.
func WithMaxSteps(n int) Option {
	return func(e *Evaluator) { e.maxSteps = n }
}

// WithBridge sets the Bridge used to resolve device.*/computed.* calls.
// Without it, NewEvaluator defaults to a Static bridge with no declared
// names, so every dynamic call resolves to ErrNotDeclared.
func WithBridge(b bridge.Bridge) Option {
	return func(e *Evaluator) { e.bridge = b }
}

// NewEvaluator builds an Evaluator. It is safe for concurrent use.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		bridge:   bridge.NewStatic(nil, nil),
		maxSteps: defaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval runs expr to a value.V. vars is the bound-variables map; declared is
// the presence set hasFn consults. See the package doc for the error-to-null
// folding policy.
func (e *Evaluator) Eval(ctx context.Context, expr celast.Expr, vars map[string]value.V, declared bridge.Declarations) (value.V, error) {
	runID := uuid.NewString()
	logger.Debugw("eval: starting evaluation", "eval_id", runID)

	env := &evalEnv{
		vars:     vars,
		decls:    declared,
		bridge:   e.bridge,
		maxSteps: e.maxSteps,
	}
	result, err := env.eval(ctx, expr)
	if err != nil {
		if isResolutionError(err) {
			logger.Debugw("eval: resolution error folded to null", "eval_id", runID, "error", err.Error())
			return value.Null(), nil
		}
		logger.Debugw("eval: evaluation failed", "eval_id", runID, "error", err.Error())
		return value.Null(), err
	}
	return result, nil
}

// evalEnv carries the per-call state a tree walk needs: bound variables,
// the declaration presence set, the bridge, and the step counter.
type evalEnv struct {
	vars     map[string]value.V
	decls    bridge.Declarations
	bridge   bridge.Bridge
	steps    int
	maxSteps int
}

func (ee *evalEnv) tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ee.steps++
	if ee.maxSteps > 0 && ee.steps > ee.maxSteps {
		return ErrMaxStepsExceeded
	}
	return nil
}

func (ee *evalEnv) eval(ctx context.Context, e celast.Expr) (value.V, error) {
	if err := ee.tick(ctx); err != nil {
		return value.Null(), err
	}
	switch n := e.(type) {
	case *celast.Atom:
		return n.Value, nil
	case *celast.Ident:
		return ee.evalIdent(n)
	case *celast.Unary:
		return ee.evalUnary(ctx, n)
	case *celast.Arithmetic:
		return ee.evalArithmetic(ctx, n)
	case *celast.Relation:
		return ee.evalRelation(ctx, n)
	case *celast.Or:
		return ee.evalOr(ctx, n)
	case *celast.And:
		return ee.evalAnd(ctx, n)
	case *celast.Ternary:
		return ee.evalTernary(ctx, n)
	case *celast.List:
		return ee.evalList(ctx, n)
	case *celast.MapLit:
		return ee.evalMapLit(ctx, n)
	case *celast.Member:
		return ee.evalMember(ctx, n)
	case *celast.Call:
		return ee.evalCall(ctx, n)
	default:
		return value.Null(), fmt.Errorf("eval: unsupported node %T", e)
	}
}

func (ee *evalEnv) evalIdent(n *celast.Ident) (value.V, error) {
	if v, ok := ee.vars[n.Name]; ok {
		return v, nil
	}
	return value.Null(), undeclaredReferenceErr(n.Name)
}

func (ee *evalEnv) evalList(ctx context.Context, n *celast.List) (value.V, error) {
	items := make([]value.V, len(n.Elements))
	for i, el := range n.Elements {
		v, err := ee.eval(ctx, el)
		if err != nil {
			return value.Null(), err
		}
		items[i] = v
	}
	return value.List(items), nil
}

func (ee *evalEnv) evalMapLit(ctx context.Context, n *celast.MapLit) (value.V, error) {
	entries := make(map[string]value.V, len(n.Entries))
	order := make([]string, 0, len(n.Entries))
	for _, ent := range n.Entries {
		keyV, err := ee.eval(ctx, ent.Key)
		if err != nil {
			return value.Null(), err
		}
		key, ok := keyV.AsString()
		if !ok {
			return value.Null(), fmt.Errorf("eval: map key must evaluate to a string, got %s", keyV.Tag())
		}
		val, err := ee.eval(ctx, ent.Value)
		if err != nil {
			return value.Null(), err
		}
		if _, exists := entries[key]; !exists {
			order = append(order, key)
		}
		entries[key] = val
	}
	return value.Map(entries, order), nil
}

func (ee *evalEnv) evalOr(ctx context.Context, n *celast.Or) (value.V, error) {
	l, err := ee.eval(ctx, n.Left)
	if err != nil {
		return value.Null(), err
	}
	lb, err := asBool(l)
	if err != nil {
		return value.Null(), err
	}
	if lb {
		return value.Bool(true), nil
	}
	r, err := ee.eval(ctx, n.Right)
	if err != nil {
		return value.Null(), err
	}
	rb, err := asBool(r)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(rb), nil
}

func (ee *evalEnv) evalAnd(ctx context.Context, n *celast.And) (value.V, error) {
	l, err := ee.eval(ctx, n.Left)
	if err != nil {
		return value.Null(), err
	}
	lb, err := asBool(l)
	if err != nil {
		return value.Null(), err
	}
	if !lb {
		return value.Bool(false), nil
	}
	r, err := ee.eval(ctx, n.Right)
	if err != nil {
		return value.Null(), err
	}
	rb, err := asBool(r)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(rb), nil
}

func (ee *evalEnv) evalTernary(ctx context.Context, n *celast.Ternary) (value.V, error) {
	cond, err := ee.eval(ctx, n.Cond)
	if err != nil {
		return value.Null(), err
	}
	cb, err := asBool(cond)
	if err != nil {
		return value.Null(), err
	}
	if cb {
		return ee.eval(ctx, n.True)
	}
	return ee.eval(ctx, n.False)
}

// asBool coerces v to a bool the way a guard ternary's branches need to be
// treated: bool as-is, null as false (the "missing" branch of a guard that
// wasn't relation-enhanced because it isn't inside a Relation), anything
// else is a type error.
func asBool(v value.V) (bool, error) {
	switch v.Tag() {
	case value.TagBool:
		b, _ := v.AsBool()
		return b, nil
	case value.TagNull:
		return false, nil
	default:
		return false, fmt.Errorf("eval: expected bool, got %s", v.Tag())
	}
}

func (ee *evalEnv) evalUnary(ctx context.Context, n *celast.Unary) (value.V, error) {
	v, err := ee.eval(ctx, n.Operand)
	if err != nil {
		return value.Null(), err
	}
	switch n.Op {
	case celast.OpNot:
		b, err := asBool(v)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(!b), nil
	case celast.OpDoubleNot:
		b, err := asBool(v)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(b), nil
	case celast.OpMinus:
		return negate(v)
	case celast.OpDoubleMinus:
		if _, _, err := numericIdentity(v); err != nil {
			return value.Null(), err
		}
		return v, nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported unary operator %q", n.Op)
	}
}

func numericIdentity(v value.V) (value.V, bool, error) {
	switch v.Tag() {
	case value.TagInt, value.TagUint, value.TagFloat:
		return v, true, nil
	default:
		return value.Null(), false, fmt.Errorf("eval: cannot negate %s", v.Tag())
	}
}

func negate(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagInt:
		i, _ := v.AsInt()
		return value.Int(-i), nil
	case value.TagFloat:
		f, _ := v.AsFloat()
		return value.Float(-f), nil
	case value.TagUint:
		u, _ := v.AsUint()
		return value.Int(-int64(u)), nil
	default:
		return value.Null(), fmt.Errorf("eval: cannot negate %s", v.Tag())
	}
}

func (ee *evalEnv) evalMember(ctx context.Context, n *celast.Member) (value.V, error) {
	if root, ok := n.Operand.(*celast.Ident); ok && (root.Name == "device" || root.Name == "computed") {
		if attr, ok := n.Field.(*celast.Attribute); ok {
			return ee.resolveDynamicValue(root.Name, attr.Name)
		}
	}

	operand, err := ee.eval(ctx, n.Operand)
	if err != nil {
		return value.Null(), err
	}

	switch f := n.Field.(type) {
	case *celast.Attribute:
		return ee.evalAttribute(operand, f.Name)
	case *celast.Index:
		idx, err := ee.eval(ctx, f.Index)
		if err != nil {
			return value.Null(), err
		}
		return ee.evalIndex(operand, idx)
	case *celast.Fields:
		entries := make(map[string]value.V, len(f.Entries))
		order := make([]string, 0, len(f.Entries))
		for _, fe := range f.Entries {
			v, err := ee.eval(ctx, fe.Value)
			if err != nil {
				return value.Null(), err
			}
			if _, exists := entries[fe.Key]; !exists {
				order = append(order, fe.Key)
			}
			entries[fe.Key] = v
		}
		return value.Map(entries, order), nil
	default:
		return value.Null(), fmt.Errorf("eval: unsupported member kind %T", f)
	}
}

func (ee *evalEnv) evalAttribute(operand value.V, name string) (value.V, error) {
	// A null operand means an enclosing guard already found its access
	// missing; accessing further into it is equally "missing", not a type
	// error, so an outer has() around this chain still folds to false.
	if operand.IsNull() {
		return value.Null(), undeclaredReferenceErr(name)
	}
	if operand.Tag() != value.TagMap {
		return value.Null(), fmt.Errorf("eval: cannot access field %q on %s", name, operand.Tag())
	}
	entries, _, _ := operand.AsMap()
	v, ok := entries[name]
	if !ok {
		return value.Null(), undeclaredReferenceErr(name)
	}
	return v, nil
}

func (ee *evalEnv) evalIndex(operand, idx value.V) (value.V, error) {
	if operand.IsNull() {
		return value.Null(), undeclaredReferenceErr("[]")
	}
	switch operand.Tag() {
	case value.TagList:
		list, _ := operand.AsList()
		i, ok := asListIndex(idx)
		if !ok {
			return value.Null(), fmt.Errorf("eval: list index must be numeric, got %s", idx.Tag())
		}
		if i < 0 || i >= int64(len(list)) {
			return value.Null(), fmt.Errorf("eval: index %d out of range (len %d)", i, len(list))
		}
		return list[i], nil
	case value.TagMap:
		entries, _, _ := operand.AsMap()
		key, ok := idx.AsString()
		if !ok {
			return value.Null(), fmt.Errorf("eval: map index must be a string, got %s", idx.Tag())
		}
		v, ok := entries[key]
		if !ok {
			return value.Null(), undeclaredReferenceErr(key)
		}
		return v, nil
	default:
		return value.Null(), fmt.Errorf("eval: cannot index %s", operand.Tag())
	}
}

func asListIndex(v value.V) (int64, bool) {
	if i, ok := v.AsInt(); ok {
		return i, true
	}
	if u, ok := v.AsUint(); ok {
		return int64(u), true
	}
	return 0, false
}

// resolveDynamicValue resolves a bare (non-call) device.name/computed.name
// value access. Per spec.md §4.6(3), a declared dynamic name is bound as a
// function value that only calls the host bridge when invoked; a bare
// reference to it is a purely static declaration check, never a bridge
// round trip. The computed namespace additionally merges in any plain
// variable bound under the "computed.name" key, so a purely declarative
// computed value stays reachable by bare access; on a collision with a
// declared computed function, the variable wins here at the value site
// (resolveDynamic's call-site path still reaches the function when it's
// actually invoked).
func (ee *evalEnv) resolveDynamicValue(namespace, name string) (value.V, error) {
	if namespace == "computed" {
		if v, ok := ee.vars["computed."+name]; ok {
			return v, nil
		}
	}
	if ee.decls.HasFn(namespace, name) {
		return value.Function(namespace+"."+name, nil), nil
	}
	return value.Null(), undeclaredReferenceErr(namespace + "." + name)
}

// resolveDynamic calls the bridge for namespace.name and normalizes the
// reply. ErrNotDeclared becomes an undeclared-reference resolution error so
// a call reached without its hasFn guard (or a direct bridge.ErrNotDeclared
// during a has() probe) folds the same way a missing variable does.
func (ee *evalEnv) resolveDynamic(ctx context.Context, namespace, name string, args []value.V) (value.V, error) {
	var v value.V
	var err error
	switch namespace {
	case "device":
		v, err = ee.bridge.DeviceProperty(ctx, name, args)
	case "computed":
		v, err = ee.bridge.ComputedProperty(ctx, name, args)
	default:
		return value.Null(), fmt.Errorf("eval: unknown dynamic namespace %q", namespace)
	}
	if err != nil {
		if errors.Is(err, bridge.ErrNotDeclared) {
			return value.Null(), undeclaredReferenceErr(namespace + "." + name)
		}
		return value.Null(), fmt.Errorf("%w: %s.%s: %v", ErrBridge, namespace, name, err)
	}
	return normalize.Variables(v), nil
}

// dynamicCallTarget mirrors rewrite's helper of the same name: it reports
// whether fn is device.foo/computed.foo, the shape a Call's Func takes when
// it targets the host bridge.
func dynamicCallTarget(fn celast.Expr) (namespace, name string, ok bool) {
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

func callName(fn celast.Expr) string {
	switch f := fn.(type) {
	case *celast.Ident:
		return f.Name
	case *celast.Member:
		if attr, ok := f.Field.(*celast.Attribute); ok {
			return attr.Name
		}
	}
	return "<call>"
}
