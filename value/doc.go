// SPDX-License-Identifier: Apache-2.0

/*
Package value implements the tagged value variant shared by every
Superscript wire format: evaluated results, bound variables, and AST
atoms.

# Basic Usage

Construct values with the tag-specific constructors and inspect them with
[V.Tag]:

	v := value.Int(42)
	if v.Tag() == value.TagInt {
		n, _ := v.AsInt()
	}

# Wire Format

A [V] marshals to and from JSON as an envelope carrying its tag and
payload:

	{"type": "int", "value": 42}

Decoding rejects any payload shape that doesn't match its declared tag,
any tag the decoder doesn't recognize, and any byte value outside 0..255
in a "bytes" payload. The null tag accepts either "null" or "Null" on
decode (two runtimes that fed this wire format disagreed on casing) and
always encodes as "null".

# Equality

[V.Equal] is structural: two values are equal only if they carry the same
tag and the same payload. int(5), uint(5), and float(5.0) are distinct
values under [V.Equal] even though the evaluator's own relational
operators (implemented in package eval) compare across those tags more
permissively.
*/
package value
