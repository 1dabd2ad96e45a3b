// SPDX-License-Identifier: Apache-2.0

/*
Package celast implements the AST for the CEL-derived expression
language: a tokenizer, a recursive-descent parser, the Expr node types,
and a JSON codec for the AST wire format used by evaluate_ast_with_context
and parse_to_ast.

# Basic Usage

	expr, err := celast.Parse(`device.battery_level > 20 && user.name == "a"`)
	if err != nil {
		// syntax error
	}
	data, _ := celast.Marshal(expr)

# Grammar

Ternary, logical (&&, ||), relational (< <= > >= == != in), arithmetic
(+ - * / %), unary (! !! - --), member/index access (a.b, a[b]),
function and method calls, list and map literals, and scalar atoms
(string, int, uint with a trailing u, float, bool, bytes as b"...", and
null). There is no support for protobuf message literals or macros beyond
what packages normalize, rewrite, and eval implement as builtin function
calls.
*/
package celast
