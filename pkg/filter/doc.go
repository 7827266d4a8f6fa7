// Package filter implements the Holmes filter engine: a small compiled
// rule language consulted by every pipeline stage for URL/card admission,
// classification, and attribute override (spec Component C).
//
// # Architecture
//
// A rule file is [Parse]d into an AST, then [Prune]d to a fixed point
// (constant folding, dead-branch elimination, switch collapsing), and
// finally [Compile]d: each switch statement gets accelerator tables
// (a hash table for == cases, a glob matcher for =* cases, a range list
// for =# cases) chosen by case count against configured thresholds. The result is an immutable [*Program] safe for concurrent
// [Program.Clone]s.
//
// Evaluation binds a [*Program] to a per-call [*Args] — a raw field
// accessor, an optional attribute object, a config journal, and a
// user-variable slot array — and runs with three-valued (defined/true/
// false) logic throughout; every operator except string concatenation
// propagates an undefined operand.
//
// # Usage
//
//	prog, err := filter.Compile(source, filter.DefaultThresholds())
//	verdict, err := filter.Run(ctx, prog, filter.NewArgs(prog, rawBinder))
//	if verdict.Kind == filter.VerdictAccept { ... }
package filter
