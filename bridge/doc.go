// SPDX-License-Identifier: Apache-2.0

/*
Package bridge defines the host-bridge contract package eval dispatches
device.* / computed.* calls through.

A Go function call already blocks the calling goroutine until it
returns, which is exactly the synchronous-from-the-evaluator's-perspective
contract this interface needs — an adapter wrapping an async host API
(a platform callback, a JS Promise via a WASM boundary) blocks its own
goroutine on a channel internally rather than needing any futures/wakers
machinery in this package itself.

[Static] is a fixed-value Bridge for tests and for callers with no live
host, built directly from the declared device/computed maps an
[github.com/superscript-lang/superscript/envelope.ExecutionContext] carries.
*/
package bridge
