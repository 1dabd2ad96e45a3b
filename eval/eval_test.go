// SPDX-License-Identifier: Apache-2.0

package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/bridge"
	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/eval"
	"github.com/superscript-lang/superscript/normalize"
	"github.com/superscript-lang/superscript/rewrite"
	"github.com/superscript-lang/superscript/value"
)

func run(t *testing.T, e *eval.Evaluator, src string, vars map[string]value.V, decls bridge.Declarations) value.V {
	t.Helper()
	expr, err := celast.Parse(src)
	require.NoError(t, err)
	expr = normalize.ASTLiterals(expr)
	expr = rewrite.Rewrite(expr)
	result, err := e.Eval(context.Background(), expr, vars, decls)
	require.NoError(t, err)
	return result
}

func TestArithmeticAndRelation(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "(1 + 2) * 3 == 9", nil, bridge.Declarations{})
	assert.True(t, value.Bool(true).Equal(got))
}

func TestCrossTagNumericComparison(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "1 == 1u", nil, bridge.Declarations{})
	assert.True(t, value.Bool(true).Equal(got))
}

func TestUndeclaredVariableFoldsToNull(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "missing", nil, bridge.Declarations{})
	assert.True(t, got.IsNull())
}

func TestHasOnMissingVariableIsFalse(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "has(user.name)", map[string]value.V{
		"user": value.Map(map[string]value.V{}, nil),
	}, bridge.Declarations{})
	assert.True(t, value.Bool(false).Equal(got))
}

func TestHasOnPresentFieldIsTrue(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "has(user.name)", map[string]value.V{
		"user": value.Map(map[string]value.V{"name": value.String("ada")}, []string{"name"}),
	}, bridge.Declarations{})
	assert.True(t, value.Bool(true).Equal(got))
}

func TestMemberGuardFoldsMissingChainToNull(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "user.profile.name", map[string]value.V{
		"user": value.Map(map[string]value.V{}, nil),
	}, bridge.Declarations{})
	assert.True(t, got.IsNull())
}

func TestDynamicDeviceCallResolvesThroughBridge(t *testing.T) {
	t.Parallel()

	b := bridge.NewStatic(map[string][]value.V{"battery_level": {value.Int(42)}}, nil)
	e := eval.NewEvaluator(eval.WithBridge(b))
	decls := bridge.DeclarationsFrom(map[string][]value.V{"battery_level": {value.Int(42)}}, nil)

	got := run(t, e, "device.battery_level(1) > 20", nil, decls)
	assert.True(t, value.Bool(true).Equal(got))
}

func TestDynamicDeviceCallNotDeclaredUsesRelationDefault(t *testing.T) {
	t.Parallel()

	b := bridge.NewStatic(nil, nil)
	e := eval.NewEvaluator(eval.WithBridge(b))

	// battery_level was never declared, so hasFn("device.battery_level") is
	// false; RelationEnhance substituted int 0 for the guard's false branch
	// since the comparison is against an int literal.
	got := run(t, e, "device.battery_level(1) > 20", nil, bridge.Declarations{})
	assert.True(t, value.Bool(false).Equal(got))
}

func TestHasFnReflectsDeclarationsIndependentlyOfBridge(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator(eval.WithBridge(bridge.NewStatic(nil, nil)))
	decls := bridge.DeclarationsFrom(map[string][]value.V{"battery_level": {value.Int(1)}}, nil)

	got := run(t, e, `hasFn("device.battery_level")`, nil, decls)
	assert.True(t, value.Bool(true).Equal(got))

	got = run(t, e, `hasFn("computed.is_eligible")`, nil, decls)
	assert.True(t, value.Bool(false).Equal(got))
}

func TestMaybeFallsBackOnResolutionError(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, `maybe(missing, "default")`, nil, bridge.Declarations{})
	assert.True(t, value.String("default").Equal(got))
}

func TestSizeAndConversionBuiltins(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	assert.True(t, value.Int(5).Equal(run(t, e, `size("hello")`, nil, bridge.Declarations{})))
	assert.True(t, value.String("42").Equal(run(t, e, "toString(42)", nil, bridge.Declarations{})))
	assert.True(t, value.Int(7).Equal(run(t, e, `toInt("7")`, nil, bridge.Declarations{})))
}

func TestInOperatorOverListAndMap(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	vars := map[string]value.V{
		"tags": value.List([]value.V{value.String("a"), value.String("b")}),
	}
	assert.True(t, value.Bool(true).Equal(run(t, e, `"a" in tags`, vars, bridge.Declarations{})))
	assert.True(t, value.Bool(false).Equal(run(t, e, `"z" in tags`, vars, bridge.Declarations{})))
}

func TestBothSidesGuardedComparisonFoldsToFalse(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	// Both operands are guard ternaries (member access, not a literal), so
	// RelationEnhance combines their guards with && and defaults the whole
	// relation to false rather than leaving it to fail as a null comparison.
	got := run(t, e, "user.age < user.limit", map[string]value.V{
		"user": value.Map(map[string]value.V{"limit": value.Int(5)}, []string{"limit"}),
	}, bridge.Declarations{})
	assert.True(t, value.Bool(false).Equal(got))
}

func TestBothSidesGuardedDynamicCallComparisonFoldsToFalse(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	// Neither device.a nor device.b is declared, so both sides stay their
	// hasFn guard's false branch and the conjunction-combined guard is
	// false, folding the relation to false without reaching ErrBridge.
	got := run(t, e, "device.a() > device.b()", nil, bridge.Declarations{})
	assert.True(t, value.Bool(false).Equal(got))
}

// panicBridge fails the test if either method is ever invoked, letting a
// test assert that a particular expression never reaches the host bridge.
type panicBridge struct{ t *testing.T }

func (p panicBridge) DeviceProperty(context.Context, string, []value.V) (value.V, error) {
	p.t.Fatal("device property bridge call reached for a bare (non-call) access")
	return value.Null(), nil
}

func (p panicBridge) ComputedProperty(context.Context, string, []value.V) (value.V, error) {
	p.t.Fatal("computed property bridge call reached for a bare (non-call) access")
	return value.Null(), nil
}

func TestBareDeviceAccessReturnsFunctionPlaceholderWithoutCallingBridge(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator(eval.WithBridge(panicBridge{t: t}))
	decls := bridge.DeclarationsFrom(map[string][]value.V{"battery_level": {value.Int(42)}}, nil)

	got := run(t, e, "device.battery_level", nil, decls)
	name, _, ok := got.AsFunction()
	require.True(t, ok, "expected a function placeholder, got tag %s", got.Tag())
	assert.Equal(t, "device.battery_level", name)
}

func TestHasOnBareDeviceAccessDoesNotCallBridgeEither(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator(eval.WithBridge(panicBridge{t: t}))
	decls := bridge.DeclarationsFrom(map[string][]value.V{"battery_level": {value.Int(42)}}, nil)

	got := run(t, e, "has(device.battery_level)", nil, decls)
	assert.True(t, value.Bool(true).Equal(got))
}

func TestComputedVariableWinsOverDeclaredFunctionAtValueSite(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator(eval.WithBridge(panicBridge{t: t}))
	decls := bridge.DeclarationsFrom(nil, map[string][]value.V{"is_eligible": {value.Bool(false)}})
	vars := map[string]value.V{"computed.is_eligible": value.Bool(true)}

	// is_eligible is declared both as a computed function and bound as a
	// plain "computed.is_eligible" variable; at this bare value site the
	// variable wins, so the bridge (which would answer with the declared
	// function's reply) is never consulted.
	got := run(t, e, "computed.is_eligible", vars, decls)
	assert.True(t, value.Bool(true).Equal(got))
}

func TestMaxStepsExceeded(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator(eval.WithMaxSteps(2))
	expr, err := celast.Parse("1 + 2 + 3 + 4")
	require.NoError(t, err)
	_, err = e.Eval(context.Background(), expr, nil, bridge.Declarations{})
	require.Error(t, err)
}

func TestUnknownFunctionFoldsToNull(t *testing.T) {
	t.Parallel()

	e := eval.NewEvaluator()
	got := run(t, e, "totallyUnknownFunction(1)", nil, bridge.Declarations{})
	assert.True(t, got.IsNull())
}
