// SPDX-License-Identifier: Apache-2.0

package bridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/bridge"
	"github.com/superscript-lang/superscript/value"
)

func TestStaticBridgeReturnsDeclaredValue(t *testing.T) {
	t.Parallel()

	b := bridge.NewStatic(
		map[string][]value.V{"battery_level": {value.Int(42)}},
		map[string][]value.V{"is_eligible": {value.Bool(true)}},
	)

	v, err := b.DeviceProperty(context.Background(), "battery_level", nil)
	require.NoError(t, err)
	assert.True(t, value.Int(42).Equal(v))

	v, err = b.ComputedProperty(context.Background(), "is_eligible", nil)
	require.NoError(t, err)
	assert.True(t, value.Bool(true).Equal(v))
}

func TestStaticBridgeReturnsNotDeclaredForUnknownName(t *testing.T) {
	t.Parallel()

	b := bridge.NewStatic(nil, nil)
	_, err := b.DeviceProperty(context.Background(), "nope", nil)
	require.ErrorIs(t, err, bridge.ErrNotDeclared)
}

func TestDeclarationsHasFn(t *testing.T) {
	t.Parallel()

	d := bridge.DeclarationsFrom(
		map[string][]value.V{"battery_level": {value.Int(1)}},
		map[string][]value.V{"is_eligible": {value.Bool(true)}},
	)

	assert.True(t, d.HasFn("device", "battery_level"))
	assert.False(t, d.HasFn("device", "is_eligible"))
	assert.True(t, d.HasFn("computed", "is_eligible"))
	assert.False(t, d.HasFn("computed", "missing"))
	assert.False(t, d.HasFn("other", "battery_level"))
}
