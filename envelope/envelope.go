// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/superscript-lang/superscript/celast"
	"github.com/superscript-lang/superscript/value"
)

// Variables wraps the bound-variables map under its wire key "map".
type Variables struct {
	Map map[string]value.V
}

func (v Variables) MarshalJSON() ([]byte, error) {
	m := v.Map
	if m == nil {
		m = map[string]value.V{}
	}
	return json.Marshal(struct {
		Map map[string]value.V `json:"map"`
	}{Map: m})
}

func (v *Variables) UnmarshalJSON(data []byte) error {
	var wire struct {
		Map map[string]value.V `json:"map"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("envelope: decode variables: %w", err)
	}
	if wire.Map == nil {
		return fmt.Errorf("envelope: variables.map is required")
	}
	v.Map = wire.Map
	return nil
}

// ExecutionContext is the input to evaluate_with_context.
type ExecutionContext struct {
	Variables  Variables
	Expression string
	Computed   map[string][]value.V
	Device     map[string][]value.V
}

type wireExecutionContext struct {
	Variables  Variables            `json:"variables"`
	Expression string               `json:"expression"`
	Computed   map[string][]value.V `json:"computed,omitempty"`
	Device     map[string][]value.V `json:"device,omitempty"`
}

// ParseExecutionContext decodes raw into an ExecutionContext, defaulting
// missing computed/device maps to empty.
func ParseExecutionContext(raw []byte) (*ExecutionContext, error) {
	var wire wireExecutionContext
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("envelope: decode execution context: %w", err)
	}
	// Variables.UnmarshalJSON only runs when the "variables" key is present
	// at all; an envelope that omits it entirely would otherwise pass
	// through with a nil Map instead of erroring, so check again here.
	if wire.Variables.Map == nil {
		return nil, fmt.Errorf("envelope: variables.map is required")
	}
	ctx := &ExecutionContext{
		Variables:  wire.Variables,
		Expression: wire.Expression,
		Computed:   wire.Computed,
		Device:     wire.Device,
	}
	if ctx.Computed == nil {
		ctx.Computed = map[string][]value.V{}
	}
	if ctx.Device == nil {
		ctx.Device = map[string][]value.V{}
	}
	return ctx, nil
}

// ASTExecutionContext is the input to evaluate_ast_with_context and
// evaluate_ast (the latter using Variables but ignoring Computed/Device).
type ASTExecutionContext struct {
	Variables  Variables
	Expression celast.Expr
	Computed   map[string][]value.V
	Device     map[string][]value.V
}

type wireASTExecutionContext struct {
	Variables  Variables            `json:"variables"`
	Expression json.RawMessage      `json:"expression"`
	Computed   map[string][]value.V `json:"computed,omitempty"`
	Device     map[string][]value.V `json:"device,omitempty"`
}

// ParseASTExecutionContext decodes raw into an ASTExecutionContext.
func ParseASTExecutionContext(raw []byte) (*ASTExecutionContext, error) {
	var wire wireASTExecutionContext
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("envelope: decode AST execution context: %w", err)
	}
	if wire.Variables.Map == nil {
		return nil, fmt.Errorf("envelope: variables.map is required")
	}
	expr, err := celast.Unmarshal(wire.Expression)
	if err != nil {
		return nil, fmt.Errorf("envelope: decode AST execution context: %w", err)
	}
	ctx := &ASTExecutionContext{
		Variables:  wire.Variables,
		Expression: expr,
		Computed:   wire.Computed,
		Device:     wire.Device,
	}
	if ctx.Computed == nil {
		ctx.Computed = map[string][]value.V{}
	}
	if ctx.Device == nil {
		ctx.Device = map[string][]value.V{}
	}
	return ctx, nil
}

// Result is the {"Ok": ...} / {"Err": ...} envelope every public entry
// point returns.
type Result struct {
	ok     *value.V
	errMsg *string
}

// OK builds a successful result envelope.
func OK(v value.V) Result { return Result{ok: &v} }

// Err builds a failed result envelope.
func Err(msg string) Result { return Result{errMsg: &msg} }

func (r Result) MarshalJSON() ([]byte, error) {
	if r.errMsg != nil {
		return json.Marshal(struct {
			Err string `json:"Err"`
		}{Err: *r.errMsg})
	}
	v := value.Null()
	if r.ok != nil {
		v = *r.ok
	}
	return json.Marshal(struct {
		Ok value.V `json:"Ok"`
	}{Ok: v})
}
