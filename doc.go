// SPDX-License-Identifier: Apache-2.0

/*
Package superscript is the embeddable expression evaluator: a CEL-derived
dialect with a null-safe member-access rewrite and a synchronous host
bridge for device/computed properties, meant to be driven from a thin
per-platform binding (JNI, WASM, cgo) that only has to marshal JSON across
the boundary.

# Entry Points

	EvaluateWithContext(ctx, envelopeJSON, bridge, opts...) []byte
	EvaluateASTWithContext(ctx, astJSON, bridge, opts...) []byte
	EvaluateAST(ctx, astJSON, opts...) []byte
	ParseToAST(expression) []byte

Each returns an already-serialized {"Ok": ...} / {"Err": ...} envelope —
none of them return a Go error, so a binding layer never has to translate
a panic or an error value across the host boundary, only parse JSON it
already knows how to parse.

# Pipeline

EvaluateWithContext and EvaluateASTWithContext both run:

	decode envelope → normalize variables → (parse, for the text entry
	point) → normalize AST literals → rewrite (null-safety + relation
	enhancement) → eval.Evaluator.Eval → encode result envelope

EvaluateAST runs the same pipeline with a bridge that has nothing
declared, so every device.* / computed.* call resolves as absent.
ParseToAST runs only the parse step, wrapping the AST's wire JSON (not a
value.V) in the same Ok/Err shape.
*/
package superscript
