// SPDX-License-Identifier: Apache-2.0

/*
Package envelope decodes the JSON request envelopes the four Superscript
entry points accept, and encodes the {"Ok": ...} / {"Err": ...} result
envelope they return.

# Execution Context

	{
	  "variables": {"map": {"name": {"type": "string", "value": "a"}}},
	  "expression": "device.battery_level > 20",
	  "computed": {"is_eligible": [{"type": "bool", "value": true}]},
	  "device": {"battery_level": [{"type": "int", "value": 42}]}
	}

computed and device default to empty maps when omitted. variables.map
missing or not a JSON object is a decode error.

# AST Execution Context

ASTExecutionContext is the same shape with "expression" replaced by an
already-parsed AST in package celast's wire format, for
evaluate_ast_with_context and evaluate_ast.

# Result

	{"Ok": {"type": "bool", "value": true}}
	{"Err": "envelope: variables.map is required"}
*/
package envelope
