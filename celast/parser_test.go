// SPDX-License-Identifier: Apache-2.0

package celast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/celast"
)

func TestParseAndUnparse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"arithmetic precedence", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"relation", "a < b", "(a < b)"},
		{"logical short circuit shape", "a && b || c", "((a && b) || c)"},
		{"ternary", "a ? b : c", "(a ? b : c)"},
		{"member chain", "device.battery.level", "device.battery.level"},
		{"index", "items[0]", "items[0]"},
		{"call", `has(device.battery)`, "has(device.battery)"},
		{"method call", "device.battery_level(1)", "device.battery_level(1)"},
		{"list literal", "[1, 2, 3]", "[1, 2, 3]"},
		{"map literal", `{"a": 1}`, `{"a": 1}`},
		{"unary not", "!a", "!a"},
		{"in operator", "a in b", "(a in b)"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			expr, err := celast.Parse(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, celast.Unparse(expr))
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []string{
		"a +",
		"(a",
		"a ? b",
		"[1, 2",
	}
	for _, expr := range tests {
		_, err := celast.Parse(expr)
		require.Error(t, err, expr)
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	exprs := []string{
		`device.battery_level > 20 && user.name == "a"`,
		`has(computed.is_eligible) ? computed.is_eligible : false`,
		`[1, 2, 3][1]`,
		`{"x": 1, "y": 2}`,
	}

	for _, src := range exprs {
		src := src
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			expr, err := celast.Parse(src)
			require.NoError(t, err)

			data, err := celast.Marshal(expr)
			require.NoError(t, err)

			decoded, err := celast.Unmarshal(data)
			require.NoError(t, err)

			assert.Equal(t, celast.Unparse(expr), celast.Unparse(decoded))
		})
	}
}
