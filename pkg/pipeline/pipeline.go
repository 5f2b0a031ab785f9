// Package pipeline provides the core cut-generation pipeline.
//
// This package implements the complete load → snapshot → generate flow
// that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse the MPS problem and the JSON relaxation state
//  2. Snapshot: Capture the relaxation and factorize the basis
//  3. Generate: Derive MIR and two-step MIR cuts from the snapshot
//
// The host solver supplies the relaxation state; no LP is solved here.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ProblemMPS: problemText,
//	    StateJSON:  stateText,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, cut := range result.Cuts {
//	    fmt.Println(cut.Family, cut.RHS)
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mircut/mircut/pkg/cache"
	"github.com/mircut/mircut/pkg/lp"
	"github.com/mircut/mircut/pkg/mir"
)

const (
	// DefaultAMax is the default two-step alpha ratio cap.
	DefaultAMax = 2

	// DefaultScaleMin and DefaultScaleMax bound the default integer
	// scale range for both cut families.
	DefaultScaleMin = 1
	DefaultScaleMax = 1

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(1983747)
)

// Options contains all configuration for the cut-generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// ProblemMPS is the MPS text of the problem.
	ProblemMPS string `json:"problem_mps"`

	// StateJSON is the JSON relaxation state produced by the host solver.
	StateJSON string `json:"state_json"`

	// Generation toggles. Use the pointer-free convention of the rest of
	// the API: zero values mean "default on", the Skip fields turn a
	// source or formula off.
	SkipTableau     bool `json:"skip_tableau,omitempty"`
	SkipFormulation bool `json:"skip_formulation,omitempty"`
	SkipMIR         bool `json:"skip_mir,omitempty"`
	SkipTwoStep     bool `json:"skip_two_step,omitempty"`

	// Scale ranges. Both-zero means default.
	TMin int `json:"t_min,omitempty"`
	TMax int `json:"t_max,omitempty"`
	QMin int `json:"q_min,omitempty"`
	QMax int `json:"q_max,omitempty"`
	AMax int `json:"a_max,omitempty"`

	// Depth and Pass locate the run inside the host's search tree and
	// gate tableau generation.
	Depth int `json:"depth,omitempty"`
	Pass  int `json:"pass,omitempty"`

	// FormulationRows caps the formulation-row scan. Negative or zero
	// means all rows.
	FormulationRows int `json:"formulation_rows,omitempty"`

	// Seed fixes the formulation sub-selection sequence.
	Seed uint64 `json:"seed,omitempty"`

	// Refresh bypasses the cache read (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ProblemMPS == "" {
		return fmt.Errorf("problem_mps is required")
	}
	if o.StateJSON == "" {
		return fmt.Errorf("state_json is required")
	}

	o.SetGenerationDefaults()
	o.validated = true
	return nil
}

// SetGenerationDefaults applies defaults for the generation stage only.
func (o *Options) SetGenerationDefaults() {
	if o.TMin == 0 && o.TMax == 0 {
		o.TMin, o.TMax = DefaultScaleMin, DefaultScaleMax
	}
	if o.QMin == 0 && o.QMax == 0 {
		o.QMin, o.QMax = DefaultScaleMin, DefaultScaleMax
	}
	if o.AMax == 0 {
		o.AMax = DefaultAMax
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.FormulationRows <= 0 {
		o.FormulationRows = -1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Params maps the options onto the generator's parameter surface.
func (o *Options) Params() mir.Params {
	return mir.Params{
		DoTableau:       !o.SkipTableau,
		DoFormulation:   !o.SkipFormulation,
		DoMIR:           !o.SkipMIR,
		Do2Step:         !o.SkipTwoStep,
		TMin:            o.TMin,
		TMax:            o.TMax,
		QMin:            o.QMin,
		QMax:            o.QMax,
		AMax:            o.AMax,
		Depth:           o.Depth,
		Pass:            o.Pass,
		FormulationRows: o.FormulationRows,
		Seed:            o.Seed,
	}
}

// CutsKeyOpts returns cache key options covering every setting that
// changes the generated cuts.
func (o *Options) CutsKeyOpts() cache.CutsKeyOpts {
	return cache.CutsKeyOpts{
		Tableau:         !o.SkipTableau,
		Formulation:     !o.SkipFormulation,
		MIR:             !o.SkipMIR,
		TwoStep:         !o.SkipTwoStep,
		TMin:            o.TMin,
		TMax:            o.TMax,
		QMin:            o.QMin,
		QMax:            o.QMax,
		AMax:            o.AMax,
		Depth:           o.Depth,
		Pass:            o.Pass,
		FormulationRows: o.FormulationRows,
		Seed:            o.Seed,
	}
}

// Cut is one generated inequality in serializable form, over structural
// columns of the problem.
type Cut struct {
	// Cols and Coeffs are the sparse left-hand side.
	Cols   []int     `json:"cols"`
	Coeffs []float64 `json:"coeffs"`

	// RHS and Sense complete the inequality. Sense is ">=", "<=" or "=".
	RHS   float64 `json:"rhs"`
	Sense string  `json:"sense"`

	// Family tags the source and formula ("tab-mir", "tab-2step",
	// "form-mir", "form-2step"), and Param carries the scale t or the
	// chosen alpha.
	Family string  `json:"family"`
	Param  float64 `json:"param"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs and responses.
	RunID string `json:"run_id"`

	// Model is the parsed problem.
	Model *lp.Model `json:"-"`

	// ModelHash and StateHash are the content hashes used as cache keys.
	ModelHash string `json:"model_hash"`
	StateHash string `json:"state_hash"`

	// Cuts are the generated inequalities.
	Cuts []Cut `json:"cuts"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows         int           `json:"rows"`
	Cols         int           `json:"cols"`
	Integers     int           `json:"integers"`
	CutCount     int           `json:"cut_count"`
	LoadTime     time.Duration `json:"load_time"`
	GenerateTime time.Duration `json:"generate_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	// CutsHit reports whether the cut set came from cache.
	CutsHit bool `json:"cuts_hit"`
}
