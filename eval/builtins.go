// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

func (ee *evalEnv) evalCall(ctx context.Context, n *celast.Call) (value.V, error) {
	if ident, ok := n.Func.(*celast.Ident); ok {
		switch ident.Name {
		case "has":
			return ee.evalHas(ctx, n)
		case "hasFn":
			return ee.evalHasFn(n)
		case "maybe":
			return ee.evalMaybe(ctx, n)
		case "toString":
			return ee.evalConvert(ctx, n, "toString", toStringValue)
		case "toBool":
			return ee.evalConvert(ctx, n, "toBool", toBoolValue)
		case "toInt":
			return ee.evalConvert(ctx, n, "toInt", toIntValue)
		case "toFloat":
			return ee.evalConvert(ctx, n, "toFloat", toFloatValue)
		case "size":
			return ee.evalConvert(ctx, n, "size", sizeValue)
		}
	}

	if namespace, name, ok := dynamicCallTarget(n.Func); ok {
		args, err := ee.evalArgs(ctx, n.Args)
		if err != nil {
			return value.Null(), err
		}
		return ee.resolveDynamic(ctx, namespace, name, args)
	}

	return value.Null(), unknownFunctionErr(callName(n.Func))
}

func (ee *evalEnv) evalArgs(ctx context.Context, args []celast.Expr) ([]value.V, error) {
	out := make([]value.V, len(args))
	for i, a := range args {
		v, err := ee.eval(ctx, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalHas implements the has() macro-turned-function: it runs its argument
// purely to observe whether resolving it fails with a resolution error,
// never surfacing the argument's own value.
func (ee *evalEnv) evalHas(ctx context.Context, n *celast.Call) (value.V, error) {
	if len(n.Args) != 1 {
		return value.Null(), fmt.Errorf("eval: has() requires exactly one argument")
	}
	_, err := ee.eval(ctx, n.Args[0])
	if err != nil {
		if isResolutionError(err) {
			return value.Bool(false), nil
		}
		return value.Null(), err
	}
	return value.Bool(true), nil
}

func (ee *evalEnv) evalHasFn(n *celast.Call) (value.V, error) {
	if len(n.Args) != 1 {
		return value.Null(), fmt.Errorf("eval: hasFn() requires exactly one argument")
	}
	atom, ok := n.Args[0].(*celast.Atom)
	if !ok {
		return value.Null(), fmt.Errorf("eval: hasFn() requires a string literal argument")
	}
	s, ok := atom.Value.AsString()
	if !ok {
		return value.Null(), fmt.Errorf("eval: hasFn() requires a string literal argument")
	}
	namespace, name, found := strings.Cut(s, ".")
	if !found {
		return value.Bool(false), nil
	}
	return value.Bool(ee.decls.HasFn(namespace, name)), nil
}

// evalMaybe runs args[0] and falls back to args[1] when args[0] is null or
// fails with a resolution error — a genuine Go error from args[0] still
// propagates, since maybe() is a null-coalescing fallback, not a catch-all.
func (ee *evalEnv) evalMaybe(ctx context.Context, n *celast.Call) (value.V, error) {
	if len(n.Args) != 2 {
		return value.Null(), fmt.Errorf("eval: maybe() requires exactly two arguments")
	}
	v, err := ee.eval(ctx, n.Args[0])
	if err != nil {
		if isResolutionError(err) {
			return ee.eval(ctx, n.Args[1])
		}
		return value.Null(), err
	}
	if v.IsNull() {
		return ee.eval(ctx, n.Args[1])
	}
	return v, nil
}

func (ee *evalEnv) evalConvert(ctx context.Context, n *celast.Call, name string, fn func(value.V) (value.V, error)) (value.V, error) {
	if len(n.Args) != 1 {
		return value.Null(), fmt.Errorf("eval: %s() requires exactly one argument", name)
	}
	v, err := ee.eval(ctx, n.Args[0])
	if err != nil {
		return value.Null(), err
	}
	return fn(v)
}

func toStringValue(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagString:
		return v, nil
	case value.TagInt:
		i, _ := v.AsInt()
		return value.String(strconv.FormatInt(i, 10)), nil
	case value.TagUint:
		u, _ := v.AsUint()
		return value.String(strconv.FormatUint(u, 10)), nil
	case value.TagFloat:
		f, _ := v.AsFloat()
		return value.String(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case value.TagBool:
		b, _ := v.AsBool()
		return value.String(strconv.FormatBool(b)), nil
	case value.TagBytes:
		b, _ := v.AsBytes()
		return value.String(string(b)), nil
	case value.TagNull:
		return value.String("null"), nil
	default:
		return value.Null(), fmt.Errorf("eval: toString() unsupported for %s", v.Tag())
	}
}

func toBoolValue(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagBool:
		return v, nil
	case value.TagString:
		s, _ := v.AsString()
		switch s {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		default:
			return value.Null(), fmt.Errorf("eval: toBool(): %q is not a bool literal", s)
		}
	default:
		return value.Null(), fmt.Errorf("eval: toBool() unsupported for %s", v.Tag())
	}
}

func toIntValue(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagInt:
		return v, nil
	case value.TagUint:
		u, _ := v.AsUint()
		return value.Int(int64(u)), nil
	case value.TagFloat:
		f, _ := v.AsFloat()
		return value.Int(int64(f)), nil
	case value.TagString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return value.Null(), fmt.Errorf("eval: toInt(): %w", err)
		}
		return value.Int(i), nil
	default:
		return value.Null(), fmt.Errorf("eval: toInt() unsupported for %s", v.Tag())
	}
}

func toFloatValue(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagFloat:
		return v, nil
	case value.TagInt:
		i, _ := v.AsInt()
		return value.Float(float64(i)), nil
	case value.TagUint:
		u, _ := v.AsUint()
		return value.Float(float64(u)), nil
	case value.TagString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Null(), fmt.Errorf("eval: toFloat(): %w", err)
		}
		return value.Float(f), nil
	default:
		return value.Null(), fmt.Errorf("eval: toFloat() unsupported for %s", v.Tag())
	}
}

func sizeValue(v value.V) (value.V, error) {
	switch v.Tag() {
	case value.TagString:
		s, _ := v.AsString()
		return value.Int(int64(len(s))), nil
	case value.TagBytes:
		b, _ := v.AsBytes()
		return value.Int(int64(len(b))), nil
	case value.TagList:
		l, _ := v.AsList()
		return value.Int(int64(len(l))), nil
	case value.TagMap:
		m, _, _ := v.AsMap()
		return value.Int(int64(len(m))), nil
	default:
		return value.Null(), fmt.Errorf("eval: size() unsupported for %s", v.Tag())
	}
}
