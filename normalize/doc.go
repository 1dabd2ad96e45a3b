// SPDX-License-Identifier: Apache-2.0

/*
Package normalize coerces string-shaped primitives into their typed
scalar form: "true"/"false" into bool, and numeric-looking strings into
int, uint, or float, tried in that order. A string whose integer-looking
part has a leading zero other than the literal "0" itself is left alone,
so padded identifiers like account numbers or zip codes ("007", "0042")
survive as strings instead of silently losing their padding.

Variables is applied to a whole bound-variables value recursively
(through lists and maps); ASTLiterals applies the same rule to the atoms
already present in a parsed expression, so `"true" == true` and
`true == true` behave identically regardless of which side was written
as a quoted string literal.
*/
package normalize
