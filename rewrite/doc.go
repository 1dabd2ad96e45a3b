// SPDX-License-Identifier: Apache-2.0

/*
Package rewrite implements the null-safety AST transform: inserting
has()/hasFn() guards around member access and dynamic device/computed
calls so a missing key or an unbacked host call evaluates to null instead
of raising a runtime error, followed by a relation-enhancement pass that
keeps comparisons involving a guarded access symmetric by substituting a
type-appropriate default for the "missing" branch.

# Usage

	guarded := rewrite.NullSafety(expr)
	final := rewrite.RelationEnhance(guarded)
	// equivalently:
	final = rewrite.Rewrite(expr)

Rewrite always runs NullSafety before RelationEnhance: the relation pass
looks for the ternary shape NullSafety produces and would find nothing to
enhance if run first.
*/
package rewrite
