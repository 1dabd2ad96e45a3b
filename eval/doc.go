// SPDX-License-Identifier: Apache-2.0

/*
Package eval implements the tree-walking evaluator: it binds variables,
registers the builtin functions (has, hasFn, maybe, toString, toBool,
toInt, toFloat, size), dispatches device.* / computed.* calls through a
bridge.Bridge, and runs a rewritten celast.Expr tree to a value.V.

# Basic Usage

	e := eval.NewEvaluator(eval.WithBridge(myBridge))
	result, err := e.Eval(ctx, rewrittenExpr, vars, declarations)

Interpreter errors that the wire contract (spec.md §7) classifies as
"resolution error — handled" — an undeclared reference, an unknown
function, or a comparison that involves null — resolve to value.Null()
rather than propagating as a Go error. Every other error (a bridge
failure, a value the bridge returned with an unrecognized tag, a
cancelled context, exceeding WithMaxSteps) is returned as a Go error for
the caller to fold into the {"Err": ...} envelope.

# Concurrency

An *Evaluator is safe for concurrent use by multiple goroutines; Eval
carries no shared mutable state across calls beyond the bridge it was
constructed with, which the caller's own Bridge implementation is
responsible for making concurrency-safe if it is shared.
*/
package eval
