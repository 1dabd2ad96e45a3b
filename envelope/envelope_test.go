// SPDX-License-Identifier: Apache-2.0

package envelope_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/envelope"
	"github.com/superscript-lang/superscript/value"
)

func TestParseExecutionContextDefaultsMissingMaps(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"variables": {"map": {}}, "expression": "1 + 1"}`)
	ctx, err := envelope.ParseExecutionContext(raw)
	require.NoError(t, err)

	assert.Equal(t, "1 + 1", ctx.Expression)
	assert.NotNil(t, ctx.Computed)
	assert.NotNil(t, ctx.Device)
	assert.Empty(t, ctx.Computed)
	assert.Empty(t, ctx.Device)
}

func TestParseExecutionContextDecodesVariables(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"variables": {"map": {"name": {"type": "string", "value": "a"}}},
		"expression": "name",
		"device": {"battery_level": [{"type": "int", "value": 42}]}
	}`)
	ctx, err := envelope.ParseExecutionContext(raw)
	require.NoError(t, err)

	assert.True(t, value.String("a").Equal(ctx.Variables.Map["name"]))
	assert.Len(t, ctx.Device["battery_level"], 1)
}

func TestParseExecutionContextRejectsMissingVariablesMap(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"expression": "1"}`)
	_, err := envelope.ParseExecutionContext(raw)
	require.Error(t, err)
}

func TestParseASTExecutionContextDecodesExpression(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"variables": {"map": {}},
		"expression": {"type": "Atom", "atom": {"type": "int", "value": 1}}
	}`)
	ctx, err := envelope.ParseASTExecutionContext(raw)
	require.NoError(t, err)
	require.NotNil(t, ctx.Expression)
}

func TestResultMarshalsOkAndErr(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(envelope.OK(value.Bool(true)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ok": {"type": "bool", "value": true}}`, string(data))

	data, err = json.Marshal(envelope.Err("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Err": "boom"}`, string(data))
}
