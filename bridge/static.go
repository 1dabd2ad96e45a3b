// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"

	"github.com/superscript-lang/superscript/value"
)

// Static is a fixed-value Bridge for tests and for callers with no live
// host: it answers every call from the device/computed maps it was built
// with, ignoring call arguments.
type Static struct {
	device   map[string][]value.V
	computed map[string][]value.V
}

// NewStatic builds a Static bridge directly from an execution context's
// declared device/computed maps.
func NewStatic(device, computed map[string][]value.V) *Static {
	return &Static{device: device, computed: computed}
}

func (s *Static) DeviceProperty(_ context.Context, name string, _ []value.V) (value.V, error) {
	return lookup(s.device, name)
}

func (s *Static) ComputedProperty(_ context.Context, name string, _ []value.V) (value.V, error) {
	return lookup(s.computed, name)
}

func lookup(m map[string][]value.V, name string) (value.V, error) {
	vals, ok := m[name]
	if !ok || len(vals) == 0 {
		return value.Null(), ErrNotDeclared
	}
	return vals[0], nil
}
