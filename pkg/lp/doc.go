// Package lp defines the read-only view of a linear relaxation that cut
// generation consumes: the problem data (bounds, integrality, sparse
// constraint matrix) and the state of a solved relaxation (primal
// solution, reduced costs, row duals, warm-start basis).
//
// The package deliberately contains no solver. A host solves the LP
// relaxation and hands its state over, either in-process or as a JSON
// state file produced by [RelaxationState.Write].
//
// # Index conventions
//
// Columns (structural variables) are indexed 0..NumCols-1 and rows
// (constraints) 0..NumRows-1. Consumers that need a unified index space
// (columns followed by one slack per row) build it themselves; see the
// mir package.
package lp
