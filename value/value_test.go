// SPDX-License-Identifier: Apache-2.0

package value_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superscript-lang/superscript/value"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    value.V
	}{
		{"string", value.String("hello")},
		{"int", value.Int(-42)},
		{"uint", value.UInt(18446744073709551615)},
		{"float", value.Float(3.14159)},
		{"bool", value.Bool(true)},
		{"bytes", value.Bytes([]byte{0, 1, 255, 128})},
		{"timestamp", value.Timestamp(1700000000000)},
		{"null", value.Null()},
		{"list", value.List([]value.V{value.Int(1), value.String("two"), value.Bool(false)})},
		{"function no arg", value.Function("maybe", nil)},
		{"function with arg", func() value.V {
			arg := value.Int(7)
			return value.Function("size", &arg)
		}()},
		{"map", value.Map(map[string]value.V{
			"a": value.Int(1),
			"b": value.String("two"),
		}, []string{"a", "b"})},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tc.v)
			require.NoError(t, err)

			var decoded value.V
			require.NoError(t, json.Unmarshal(data, &decoded))

			assert.True(t, tc.v.Equal(decoded), "round trip changed value: %s", string(data))
		})
	}
}

func TestUnmarshalAcceptsCapitalizedNullTag(t *testing.T) {
	t.Parallel()

	var v value.V
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Null"}`), &v))
	assert.True(t, v.IsNull())

	require.NoError(t, json.Unmarshal([]byte(`{"type":"null"}`), &v))
	assert.True(t, v.IsNull())
}

func TestUnmarshalRejectsUnknownTag(t *testing.T) {
	t.Parallel()

	var v value.V
	err := json.Unmarshal([]byte(`{"type":"decimal","value":1}`), &v)
	require.Error(t, err)
}

func TestUnmarshalRejectsMalformedBytesPayload(t *testing.T) {
	t.Parallel()

	var v value.V
	err := json.Unmarshal([]byte(`{"type":"bytes","value":"not-base64!!"}`), &v)
	require.Error(t, err)
}

func TestEqualIsStrictAcrossNumericTags(t *testing.T) {
	t.Parallel()

	assert.False(t, value.Int(5).Equal(value.UInt(5)))
	assert.False(t, value.Int(5).Equal(value.Float(5.0)))
	assert.False(t, value.UInt(5).Equal(value.Float(5.0)))
	assert.True(t, value.Int(5).Equal(value.Int(5)))
}

func TestEqualTreatsNullAsOnlyEqualToNull(t *testing.T) {
	t.Parallel()

	assert.True(t, value.Null().Equal(value.Null()))
	assert.False(t, value.Null().Equal(value.Int(0)))
	assert.False(t, value.Bool(false).Equal(value.Null()))
}

func TestMapPreservesInsertionOrderOnEncode(t *testing.T) {
	t.Parallel()

	v := value.Map(map[string]value.V{
		"z": value.Int(1),
		"a": value.Int(2),
		"m": value.Int(3),
	}, []string{"z", "a", "m"})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var env struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal(data, &env))

	dec := json.NewDecoder(bytes.NewReader(env.Value))
	_, err = dec.Token() // consume the opening '{'
	require.NoError(t, err)

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		order = append(order, tok.(string))
		var discard json.RawMessage
		require.NoError(t, dec.Decode(&discard))
	}

	assert.Equal(t, []string{"z", "a", "m"}, order)
}

