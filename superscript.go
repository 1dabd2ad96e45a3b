// SPDX-License-Identifier: Apache-2.0

package superscript

import (
	"context"
	"encoding/json"

	"github.com/superscript-lang/superscript/bridge"
	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/envelope"
	"github.com/superscript-lang/superscript/eval"
	"github.com/superscript-lang/superscript/logger"
	"github.com/superscript-lang/superscript/normalize"
	"github.com/superscript-lang/superscript/rewrite"
	"github.com/superscript-lang/superscript/value"
)

// EvaluateWithContext parses envelopeJSON's "expression" string, rewrites
// it for null safety, and evaluates it against the envelope's variables
// and declarations, dispatching device.*/computed.* calls through br.
func EvaluateWithContext(ctx context.Context, envelopeJSON []byte, br bridge.Bridge, opts ...eval.Option) []byte {
	ec, err := envelope.ParseExecutionContext(envelopeJSON)
	if err != nil {
		logger.Debugw("superscript: decode execution context failed", "error", err.Error())
		return encodeErr(err)
	}

	expr, err := celast.Parse(ec.Expression)
	if err != nil {
		logger.Debugw("superscript: parse expression failed", "error", err.Error())
		return encodeErr(err)
	}

	return runPipeline(ctx, expr, ec.Variables.Map, ec.Device, ec.Computed, br, opts)
}

// EvaluateASTWithContext is EvaluateWithContext for a pre-parsed AST.
func EvaluateASTWithContext(ctx context.Context, astJSON []byte, br bridge.Bridge, opts ...eval.Option) []byte {
	ac, err := envelope.ParseASTExecutionContext(astJSON)
	if err != nil {
		logger.Debugw("superscript: decode AST execution context failed", "error", err.Error())
		return encodeErr(err)
	}
	return runPipeline(ctx, ac.Expression, ac.Variables.Map, ac.Device, ac.Computed, br, opts)
}

// EvaluateAST evaluates a pre-parsed AST with no host bridge: every
// device.*/computed.* call resolves as absent, per spec.md §6.
func EvaluateAST(ctx context.Context, astJSON []byte, opts ...eval.Option) []byte {
	ac, err := envelope.ParseASTExecutionContext(astJSON)
	if err != nil {
		logger.Debugw("superscript: decode AST execution context failed", "error", err.Error())
		return encodeErr(err)
	}
	return runPipeline(ctx, ac.Expression, ac.Variables.Map, nil, nil, bridge.NewStatic(nil, nil), opts)
}

func runPipeline(
	ctx context.Context,
	expr celast.Expr,
	rawVars map[string]value.V,
	device, computed map[string][]value.V,
	br bridge.Bridge,
	opts []eval.Option,
) []byte {
	vars := normalizeVariables(rawVars)
	rewritten := rewriteExpr(expr)
	decls := bridge.DeclarationsFrom(device, computed)

	evalOpts := make([]eval.Option, 0, len(opts)+1)
	evalOpts = append(evalOpts, eval.WithBridge(br))
	evalOpts = append(evalOpts, opts...)
	e := eval.NewEvaluator(evalOpts...)

	result, err := e.Eval(ctx, rewritten, vars, decls)
	if err != nil {
		logger.Debugw("superscript: evaluation failed", "error", err.Error())
		return encodeErr(err)
	}
	return encodeOK(result)
}

func rewriteExpr(expr celast.Expr) celast.Expr {
	return rewrite.Rewrite(normalize.ASTLiterals(expr))
}

func normalizeVariables(m map[string]value.V) map[string]value.V {
	out := make(map[string]value.V, len(m))
	for k, v := range m {
		out[k] = normalize.Variables(v)
	}
	return out
}

// ParseToAST parses expression and returns its wire-format AST wrapped in
// the {"Ok": ...} / {"Err": ...} envelope.
func ParseToAST(expression string) []byte {
	expr, err := celast.Parse(expression)
	if err != nil {
		return encodeASTErr(err)
	}
	astJSON, err := celast.Marshal(expr)
	if err != nil {
		return encodeASTErr(err)
	}
	return encodeASTOK(astJSON)
}

func encodeOK(v value.V) []byte {
	data, err := json.Marshal(envelope.OK(v))
	if err != nil {
		return encodeErr(err)
	}
	return data
}

func encodeErr(err error) []byte {
	data, marshalErr := json.Marshal(envelope.Err(err.Error()))
	if marshalErr != nil {
		return []byte(`{"Err":"superscript: failed to encode error"}`)
	}
	return data
}

// astResult is ParseToAST's envelope: its Ok payload is raw AST JSON, not
// a value.V, so it can't reuse envelope.Result.
type astResult struct {
	Ok  json.RawMessage `json:"Ok,omitempty"`
	Err *string         `json:"Err,omitempty"`
}

func encodeASTOK(astJSON json.RawMessage) []byte {
	data, err := json.Marshal(astResult{Ok: astJSON})
	if err != nil {
		return encodeASTErr(err)
	}
	return data
}

func encodeASTErr(err error) []byte {
	msg := err.Error()
	data, marshalErr := json.Marshal(astResult{Err: &msg})
	if marshalErr != nil {
		return []byte(`{"Err":"superscript: failed to encode error"}`)
	}
	return data
}
