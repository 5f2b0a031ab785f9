package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mircut/mircut/pkg/cache"
	"github.com/mircut/mircut/pkg/factor"
	"github.com/mircut/mircut/pkg/lp"
	"github.com/mircut/mircut/pkg/mir"
	"github.com/mircut/mircut/pkg/mps"
	"github.com/mircut/mircut/pkg/observability"
)

// InputError marks failures caused by the caller's inputs rather than
// by the generator. HTTP handlers map it to a client error status.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → snapshot → generate pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, &InputError{fmt.Errorf("invalid options: %w", err)}
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		ModelHash: cache.Hash([]byte(opts.ProblemMPS)),
		StateHash: cache.Hash([]byte(opts.StateJSON)),
	}

	// Stage 1: Load
	observability.Pipeline().OnLoadStart(ctx)
	loadStart := time.Now()
	model, state, err := loadProblem(opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, 0, 0, time.Since(loadStart), err)
		return nil, &InputError{fmt.Errorf("load: %w", err)}
	}
	observability.Pipeline().OnLoadComplete(ctx, model.NumRows(), model.NumCols(), time.Since(loadStart), nil)
	result.Model = model
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = model.NumRows()
	result.Stats.Cols = model.NumCols()
	result.Stats.Integers = model.NumIntegers()

	r.Logger.Info("loaded problem",
		"run", result.RunID,
		"name", model.Name,
		"rows", result.Stats.Rows,
		"cols", result.Stats.Cols,
		"integers", result.Stats.Integers,
		"duration", result.Stats.LoadTime)

	// Stage 2+3: Snapshot and generate, behind the cut cache
	observability.Pipeline().OnGenerateStart(ctx, result.Stats.Rows, result.Stats.Cols)
	genStart := time.Now()
	cuts, hit, err := r.generateWithCacheInfo(ctx, model, state, result, opts)
	observability.Pipeline().OnGenerateComplete(ctx, len(cuts), time.Since(genStart), err)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Cuts = cuts
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.CutCount = len(cuts)
	result.CacheInfo.CutsHit = hit

	r.Logger.Info("generated cuts",
		"run", result.RunID,
		"cuts", result.Stats.CutCount,
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	return result, nil
}

// loadProblem parses both inputs.
func loadProblem(opts Options) (*lp.Model, *lp.RelaxationState, error) {
	model, err := mps.Read(strings.NewReader(opts.ProblemMPS))
	if err != nil {
		return nil, nil, err
	}
	state, err := lp.ReadState(strings.NewReader(opts.StateJSON))
	if err != nil {
		return nil, nil, err
	}
	if err := state.Validate(model); err != nil {
		return nil, nil, err
	}
	return model, state, nil
}

// generateWithCacheInfo derives cuts, consulting the cache first.
func (r *Runner) generateWithCacheInfo(
	ctx context.Context,
	model *lp.Model,
	state *lp.RelaxationState,
	result *Result,
	opts Options,
) ([]Cut, bool, error) {
	cacheKey := r.Keyer.CutsKey(result.ModelHash, result.StateHash, opts.CutsKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cuts []Cut
			if err := json.Unmarshal(data, &cuts); err == nil {
				observability.Cache().OnCacheHit(ctx, "cuts")
				return cuts, true, nil // Cache hit
			}
			// Corrupt entry: drop it and recompute.
			_ = r.Cache.Delete(ctx, cacheKey)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "cuts")

	cuts, err := r.generate(model, state, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(cuts); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLCuts)
		observability.Cache().OnCacheSet(ctx, "cuts", len(data))
	}
	return cuts, false, nil // Cache miss
}

// Generate runs only the snapshot and generation stages against an
// already parsed problem, without caching. Hosts embedding the library
// use this when they hold the model in memory.
func (r *Runner) Generate(model *lp.Model, state *lp.RelaxationState, opts Options) ([]Cut, error) {
	opts.SetGenerationDefaults()
	r.applyLogger(&opts)
	if err := state.Validate(model); err != nil {
		return nil, err
	}
	return r.generate(model, state, opts)
}

// generate is the uncached snapshot + factorize + generate core.
func (r *Runner) generate(model *lp.Model, state *lp.RelaxationState, opts Options) ([]Cut, error) {
	snap, err := mir.NewSnapshot(model, state, opts.Logger)
	if err != nil {
		return nil, err
	}

	// Factorization feeds the tableau pass only; a singular or oversized
	// basis degrades the run to formulation cuts instead of failing it.
	var solver mir.BasisSolver
	if !opts.SkipTableau {
		colBasic, rowBasic := snap.BasisFlags()
		lu, err := factor.New(model, colBasic, rowBasic)
		switch {
		case err == nil:
			solver = lu
		case errors.Is(err, factor.ErrSingular) ||
			errors.Is(err, factor.ErrTooLarge) ||
			errors.Is(err, factor.ErrNotSquare):
			r.Logger.Warn("basis factorization unavailable, skipping tableau cuts", "err", err)
		default:
			return nil, err
		}
	}

	list, err := mir.NewGenerator(snap, solver, opts.Params(), opts.Logger).Generate()
	if err != nil {
		return nil, err
	}
	return convertCuts(list), nil
}

// convertCuts flattens the generator's cut list into the serializable
// form.
func convertCuts(list *mir.CutList) []Cut {
	cuts := make([]Cut, 0, list.Len())
	for _, c := range list.Cuts() {
		cut := Cut{
			Cols:   append([]int(nil), c.Constraint.Index...),
			Coeffs: append([]float64(nil), c.Constraint.Coeffs...),
			RHS:    c.Constraint.RHS,
			Sense:  c.Constraint.Sense.String(),
			Family: c.Family.String(),
			Param:  c.Param,
		}
		cuts = append(cuts, cut)
	}
	return cuts
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
