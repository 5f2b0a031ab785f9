// Package pkg provides the core libraries for mircut cut generation.
//
// # Overview
//
// Mircut derives mixed-integer rounding (MIR) and two-step MIR cutting
// planes from a problem and the LP relaxation state of a host solver,
// for use inside branch-and-cut. The pkg directory is organized around
// that flow:
//
//  1. [lp] - Problem and relaxation-state data model
//  2. [mps] - MPS reader producing an lp.Model
//  3. [factor] - Dense LU factorization of the optimal basis
//  4. [mir] - Cut generation (snapshot, transforms, MIR, two-step MIR)
//  5. [pipeline] - Orchestration (load → snapshot → generate) with caching
//  6. [cache], [errors], [observability], [render] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	MPS problem + relaxation state JSON
//	         ↓
//	    [mps] and [lp] packages (parse and validate)
//	         ↓
//	    [mir] snapshot (unified column/slack index space)
//	         ↓
//	    [factor] basis solve (tableau rows) or formulation rows
//	         ↓
//	    [mir] MIR / two-step MIR cuts over structural columns
//
// # Quick Start
//
// Generate cuts through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ProblemMPS: problemText,
//	    StateJSON:  stateText,
//	})
//
// Or drive the generator directly against a parsed model:
//
//	snap, _ := mir.NewSnapshot(model, state, logger)
//	lu, _ := factor.New(model, colBasic, rowBasic)
//	cuts, _ := mir.NewGenerator(snap, lu, mir.DefaultParams(), logger).Generate()
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/mir/...      # Cut generation only
//	go test -short ./pkg/...   # Skip in-process Graphviz rendering
//
// [lp]: https://pkg.go.dev/github.com/mircut/mircut/pkg/lp
// [mps]: https://pkg.go.dev/github.com/mircut/mircut/pkg/mps
// [factor]: https://pkg.go.dev/github.com/mircut/mircut/pkg/factor
// [mir]: https://pkg.go.dev/github.com/mircut/mircut/pkg/mir
// [pipeline]: https://pkg.go.dev/github.com/mircut/mircut/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mircut/mircut/pkg/cache
// [errors]: https://pkg.go.dev/github.com/mircut/mircut/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mircut/mircut/pkg/observability
// [render]: https://pkg.go.dev/github.com/mircut/mircut/pkg/render
package pkg
