// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// Tag identifies which variant of V is populated.
type Tag string

const (
	TagString    Tag = "string"
	TagInt       Tag = "int"
	TagUint      Tag = "uint"
	TagFloat     Tag = "float"
	TagBool      Tag = "bool"
	TagList      Tag = "list"
	TagMap       Tag = "map"
	TagBytes     Tag = "bytes"
	TagTimestamp Tag = "timestamp"
	TagFunction  Tag = "function"
	TagNull      Tag = "null"
)

// V is a tagged value variant. The zero V is the null value.
type V struct {
	tag Tag

	str string
	i64 int64
	u64 uint64
	f64 float64
	b   bool

	list  []V
	m     map[string]V
	order []string

	bytes []byte

	fnName string
	fnArg  *V
}

func String(s string) V           { return V{tag: TagString, str: s} }
func Int(i int64) V               { return V{tag: TagInt, i64: i} }
func UInt(u uint64) V             { return V{tag: TagUint, u64: u} }
func Float(f float64) V           { return V{tag: TagFloat, f64: f} }
func Bool(b bool) V               { return V{tag: TagBool, b: b} }
func Bytes(b []byte) V            { return V{tag: TagBytes, bytes: append([]byte(nil), b...)} }
func Timestamp(millis int64) V    { return V{tag: TagTimestamp, i64: millis} }
func Null() V                     { return V{tag: TagNull} }
func List(items []V) V            { return V{tag: TagList, list: items} }
func Function(name string, arg *V) V {
	return V{tag: TagFunction, fnName: name, fnArg: arg}
}

// Map builds a map value. order gives the iteration order of keys; it must
// contain exactly the keys present in entries. A nil order falls back to
// Go's map iteration order at construction time, which is arbitrary and
// may differ between two calls with the same entries.
func Map(entries map[string]V, order []string) V {
	if order == nil {
		order = make([]string, 0, len(entries))
		for k := range entries {
			order = append(order, k)
		}
	}
	return V{tag: TagMap, m: entries, order: order}
}

func (v V) Tag() Tag { return v.tag }

func (v V) AsString() (string, bool) {
	if v.tag != TagString {
		return "", false
	}
	return v.str, true
}

func (v V) AsInt() (int64, bool) {
	if v.tag != TagInt {
		return 0, false
	}
	return v.i64, true
}

func (v V) AsUint() (uint64, bool) {
	if v.tag != TagUint {
		return 0, false
	}
	return v.u64, true
}

func (v V) AsFloat() (float64, bool) {
	if v.tag != TagFloat {
		return 0, false
	}
	return v.f64, true
}

func (v V) AsBool() (bool, bool) {
	if v.tag != TagBool {
		return false, false
	}
	return v.b, true
}

func (v V) AsBytes() ([]byte, bool) {
	if v.tag != TagBytes {
		return nil, false
	}
	return v.bytes, true
}

func (v V) AsTimestamp() (int64, bool) {
	if v.tag != TagTimestamp {
		return 0, false
	}
	return v.i64, true
}

func (v V) AsList() ([]V, bool) {
	if v.tag != TagList {
		return nil, false
	}
	return v.list, true
}

// AsMap returns the entries and their insertion order.
func (v V) AsMap() (map[string]V, []string, bool) {
	if v.tag != TagMap {
		return nil, nil, false
	}
	return v.m, v.order, true
}

func (v V) AsFunction() (name string, arg *V, ok bool) {
	if v.tag != TagFunction {
		return "", nil, false
	}
	return v.fnName, v.fnArg, true
}

// IsNull reports whether v is the null value.
func (v V) IsNull() bool { return v.tag == TagNull || v.tag == "" }

// Equal is structural equality: distinct tags are never equal, including
// across the numeric tags.
func (v V) Equal(other V) bool {
	if v.IsNull() || other.IsNull() {
		return v.IsNull() && other.IsNull()
	}
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagString:
		return v.str == other.str
	case TagInt, TagTimestamp:
		return v.i64 == other.i64
	case TagUint:
		return v.u64 == other.u64
	case TagFloat:
		return v.f64 == other.f64
	case TagBool:
		return v.b == other.b
	case TagBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case TagFunction:
		if v.fnName != other.fnName {
			return false
		}
		if (v.fnArg == nil) != (other.fnArg == nil) {
			return false
		}
		if v.fnArg == nil {
			return true
		}
		return v.fnArg.Equal(*other.fnArg)
	case TagList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case TagMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, ev := range v.m {
			ov, ok := other.m[k]
			if !ok || !ev.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v V) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<invalid value: %v>", err)
	}
	return string(data)
}

type wireEnvelope struct {
	Type  Tag             `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type wireFunction struct {
	Name string `json:"name"`
	Arg  *V     `json:"arg,omitempty"`
}

// MarshalJSON encodes v as {"type": "<tag>", "value": <payload>}.
func (v V) MarshalJSON() ([]byte, error) {
	env := wireEnvelope{Type: v.tag}
	if env.Type == "" {
		env.Type = TagNull
	}

	var payload any
	switch v.tag {
	case TagString:
		payload = v.str
	case TagInt, TagTimestamp:
		payload = v.i64
	case TagUint:
		payload = v.u64
	case TagFloat:
		payload = v.f64
	case TagBool:
		payload = v.b
	case TagBytes:
		payload = base64.StdEncoding.EncodeToString(v.bytes)
	case TagFunction:
		payload = wireFunction{Name: v.fnName, Arg: v.fnArg}
	case TagList:
		if v.list == nil {
			payload = []V{}
		} else {
			payload = v.list
		}
	case TagMap:
		return marshalMapEnvelope(v)
	case TagNull, "":
		env.Value = json.RawMessage("null")
		return json.Marshal(env)
	default:
		return nil, fmt.Errorf("value: unknown tag %q", v.tag)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("value: marshal %s payload: %w", v.tag, err)
	}
	env.Value = raw
	return json.Marshal(env)
}

// marshalMapEnvelope hand-writes the object so key order matches v.order
// instead of Go's randomized map iteration order.
func marshalMapEnvelope(v V) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"map","value":{`)
	for i, k := range v.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("value: marshal map key: %w", err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(v.m[k])
		if err != nil {
			return nil, fmt.Errorf("value: marshal map value for %q: %w", k, err)
		}
		buf.Write(valJSON)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the {"type": ..., "value": ...} envelope. The null
// tag accepts both "null" and "Null".
func (v *V) UnmarshalJSON(data []byte) error {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("value: decode envelope: %w", err)
	}

	tag := env.Type
	if tag == "Null" {
		tag = TagNull
	}

	switch tag {
	case TagString:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return fmt.Errorf("value: decode string payload: %w", err)
		}
		*v = String(s)
	case TagInt:
		i, err := decodeInt(env.Value)
		if err != nil {
			return fmt.Errorf("value: decode int payload: %w", err)
		}
		*v = Int(i)
	case TagUint:
		u, err := decodeUint(env.Value)
		if err != nil {
			return fmt.Errorf("value: decode uint payload: %w", err)
		}
		*v = UInt(u)
	case TagFloat:
		f, err := decodeFloat(env.Value)
		if err != nil {
			return fmt.Errorf("value: decode float payload: %w", err)
		}
		*v = Float(f)
	case TagBool:
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return fmt.Errorf("value: decode bool payload: %w", err)
		}
		*v = Bool(b)
	case TagBytes:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return fmt.Errorf("value: decode bytes payload: %w", err)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("value: bytes payload is not valid base64: %w", err)
		}
		*v = Bytes(b)
	case TagTimestamp:
		i, err := decodeInt(env.Value)
		if err != nil {
			return fmt.Errorf("value: decode timestamp payload: %w", err)
		}
		*v = Timestamp(i)
	case TagFunction:
		var fn wireFunction
		if err := json.Unmarshal(env.Value, &fn); err != nil {
			return fmt.Errorf("value: decode function payload: %w", err)
		}
		*v = Function(fn.Name, fn.Arg)
	case TagList:
		var items []V
		if len(env.Value) > 0 {
			if err := json.Unmarshal(env.Value, &items); err != nil {
				return fmt.Errorf("value: decode list payload: %w", err)
			}
		}
		*v = List(items)
	case TagMap:
		entries, order, err := decodeOrderedMap(env.Value)
		if err != nil {
			return fmt.Errorf("value: decode map payload: %w", err)
		}
		*v = Map(entries, order)
	case TagNull:
		*v = Null()
	default:
		return fmt.Errorf("value: unknown tag %q", env.Type)
	}
	return nil
}

func decodeInt(raw json.RawMessage) (int64, error) {
	return strconv.ParseInt(string(raw), 10, 64)
}

func decodeUint(raw json.RawMessage) (uint64, error) {
	return strconv.ParseUint(string(raw), 10, 64)
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	return strconv.ParseFloat(string(raw), 64)
}

// decodeOrderedMap decodes a JSON object preserving source key order, which
// the standard map[string]any decoder would otherwise discard.
func decodeOrderedMap(raw json.RawMessage) (map[string]V, []string, error) {
	entries := make(map[string]V)
	var order []string
	if len(raw) == 0 {
		return entries, order, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("map key is not a string: %v", keyTok)
		}
		var val V
		if err := dec.Decode(&val); err != nil {
			return nil, nil, fmt.Errorf("map value for %q: %w", key, err)
		}
		entries[key] = val
		order = append(order, key)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return entries, order, nil
}
