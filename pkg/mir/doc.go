// Package mir generates mixed-integer-rounding (MIR) and two-step MIR
// cutting planes from a solved LP relaxation.
//
// Given a model and its relaxation state, the package builds a
// [Snapshot] of the relaxation over a unified index space (structural
// columns followed by one slack variable per row), extracts base
// constraints either from simplex tableau rows or directly from
// formulation rows, and runs each base through a fixed pipeline:
//
//	transform → nicefy → cut builders → untransform → slack
//	substitution → desirability filter
//
// The transform step complements every variable onto its closer bound so
// the constraint lives in nonnegative near-zero variables; the nicefier
// absorbs numerical noise into the right-hand side within strict padding
// limits; the builders apply the classic MIR rounding formula and its
// two-step strengthening over a bounded family of integer scales and
// split points. Surviving cuts are expressed over structural variables
// only and are violated by the current fractional optimum.
//
// A [Generator] owns one generation call end to end:
//
//	snap, err := mir.NewSnapshot(model, state, logger)
//	...
//	gen := mir.NewGenerator(snap, basis, mir.DefaultParams(), logger)
//	cuts, err := gen.Generate()
//
// Everything here is single-threaded: a Generator and its Snapshot must
// not be shared across concurrent calls.
package mir
