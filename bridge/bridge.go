// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"

	"github.com/superscript-lang/superscript/value"
)

// ErrNotDeclared is returned by DeviceProperty/ComputedProperty when the
// requested name was never declared to the bridge (no such key in the
// execution context's device/computed maps). eval turns this into the same
// undeclared-reference resolution error an unresolved member access
// raises, so it folds to null (or to false inside has()) rather than
// surfacing a Go error.
var ErrNotDeclared = errors.New("bridge: property not declared")

// Bridge resolves dynamic device.*/computed.* calls against a host. A
// call blocks the calling goroutine until the host replies — an adapter
// wrapping an asynchronous host API (a platform callback, a promise
// across a runtime boundary) is expected to block its own goroutine on a
// channel internally rather than exposing that asynchrony here.
type Bridge interface {
	DeviceProperty(ctx context.Context, name string, args []value.V) (value.V, error)
	ComputedProperty(ctx context.Context, name string, args []value.V) (value.V, error)
}

// Declarations is the presence set hasFn consults: the set of names the
// execution context declared under "device" and "computed", independent
// of whether resolving a given call through Bridge actually succeeds.
type Declarations struct {
	Device   map[string]bool
	Computed map[string]bool
}

// DeclarationsFrom builds a Declarations from the raw device/computed
// maps carried on an execution context (only the key sets matter).
func DeclarationsFrom(device, computed map[string][]value.V) Declarations {
	d := Declarations{Device: make(map[string]bool, len(device)), Computed: make(map[string]bool, len(computed))}
	for k := range device {
		d.Device[k] = true
	}
	for k := range computed {
		d.Computed[k] = true
	}
	return d
}

// HasFn reports whether "namespace.name" was declared, matching the
// runtime's hasFn("ns.name") builtin.
func (d Declarations) HasFn(namespace, name string) bool {
	switch namespace {
	case "device":
		return d.Device[name]
	case "computed":
		return d.Computed[name]
	default:
		return false
	}
}
