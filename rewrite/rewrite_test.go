// SPDX-License-Identifier: Apache-2.0

package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/rewrite"
)

func parse(t *testing.T, src string) celast.Expr {
	t.Helper()
	expr, err := celast.Parse(src)
	require.NoError(t, err)
	return expr
}

func TestNullSafetyGuardsMemberAccess(t *testing.T) {
	t.Parallel()

	expr := parse(t, "user.name")
	got := rewrite.NullSafety(expr)

	assert.Equal(t, `(has(user.name) ? user.name : null)`, celast.Unparse(got))
}

func TestNullSafetyDoesNotDoubleGuardInsideExplicitHas(t *testing.T) {
	t.Parallel()

	expr := parse(t, "has(user.name)")
	got := rewrite.NullSafety(expr)

	assert.Equal(t, `has(user.name)`, celast.Unparse(got))
}

func TestNullSafetyGuardsOnlyTheOutermostAccessOfAMemberChain(t *testing.T) {
	t.Parallel()

	expr := parse(t, "a.b.c")
	got := rewrite.NullSafety(expr)

	// a.b.c rewrites the outermost access only; the interpreter's own
	// member lookup handles the intermediate a.b step, so there is a
	// single has() guard around the whole chain, not one per level.
	want := `(has(a.b.c) ? a.b.c : null)`
	assert.Equal(t, want, celast.Unparse(got))
}

func TestNullSafetyGuardsDynamicDeviceCalls(t *testing.T) {
	t.Parallel()

	expr := parse(t, "device.battery_level(1)")
	got := rewrite.NullSafety(expr)

	assert.Equal(t, `(hasFn("device.battery_level") ? device.battery_level(1) : false)`, celast.Unparse(got))
}

func TestRelationEnhanceSubstitutesTypedDefault(t *testing.T) {
	t.Parallel()

	expr := parse(t, "device.battery_level(1) > 20")
	guarded := rewrite.Rewrite(expr)

	want := `((hasFn("device.battery_level") ? device.battery_level(1) : 0) > 20)`
	assert.Equal(t, want, celast.Unparse(guarded))
}

func TestRelationEnhanceLeavesBoolDefaultAloneWhenAlreadyBool(t *testing.T) {
	t.Parallel()

	expr := parse(t, "device.flag(1) == true")
	guarded := rewrite.Rewrite(expr)

	// the sentinel false and the literal bool already agree; no rewrite
	// of the false-branch is needed (it stays the hasFn default "false").
	want := `((hasFn("device.flag") ? device.flag(1) : false) == true)`
	assert.Equal(t, want, celast.Unparse(guarded))
}

func TestRelationEnhanceWrapsWholeRelationWhenOtherSideIsComplex(t *testing.T) {
	t.Parallel()

	// x + y involves no member access, so NullSafety leaves it as plain
	// arithmetic: it's neither an atomic literal nor a guard ternary, so
	// rule 2 wraps the whole relation in the guarded side's condition.
	expr := parse(t, "device.battery_level(1) > (x + y)")
	guarded := rewrite.Rewrite(expr)

	want := `(hasFn("device.battery_level") ? (device.battery_level(1) > (x + y)) : false)`
	assert.Equal(t, want, celast.Unparse(guarded))
}

func TestRelationEnhanceCombinesGuardsWhenBothSidesGuarded(t *testing.T) {
	t.Parallel()

	expr := parse(t, "device.a() > device.b()")
	guarded := rewrite.Rewrite(expr)

	want := `((hasFn("device.a") && hasFn("device.b")) ? (device.a() > device.b()) : false)`
	assert.Equal(t, want, celast.Unparse(guarded))
}

func TestRewriteLeavesPlainArithmeticAlone(t *testing.T) {
	t.Parallel()

	expr := parse(t, "1 + 2")
	got := rewrite.Rewrite(expr)

	assert.Equal(t, `(1 + 2)`, celast.Unparse(got))
}
