package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mircut/mircut/pkg/cache"
	"github.com/mircut/mircut/pkg/lp"
	"github.com/mircut/mircut/pkg/mps"
)

const problemMPS = `NAME FRAC2
ROWS
 N  OBJ
 L  R1
 L  R2
COLUMNS
    MARKER 'MARKER' 'INTORG'
    X0 OBJ -1.0 R1 -1.0
    X0 R2 3.0
    X1 OBJ -1.0 R1 1.0
    X1 R2 2.0
    MARKER 'MARKER' 'INTEND'
RHS
    RHS R1 1.0 R2 11.0
BOUNDS
 UP BND X0 10.0
 UP BND X1 10.0
ENDATA
`

const stateJSON = `{
  "col_values": [1.8, 2.8],
  "reduced_costs": [0, 0],
  "row_duals": [-0.2, -0.6],
  "col_basis": [1, 1],
  "row_basis": [0, 0],
  "objective": -4.6
}`

func execOpts() Options {
	return Options{ProblemMPS: problemMPS, StateJSON: stateJSON}
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), execOpts())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.ModelHash == "" || result.StateHash == "" {
		t.Error("content hashes should be set")
	}
	if result.Stats.Rows != 2 || result.Stats.Cols != 2 || result.Stats.Integers != 2 {
		t.Errorf("wrong stats: %+v", result.Stats)
	}
	if len(result.Cuts) == 0 {
		t.Fatal("the fractional vertex should yield cuts")
	}
	if result.Stats.CutCount != len(result.Cuts) {
		t.Error("CutCount should match the cut slice")
	}
	if result.CacheInfo.CutsHit {
		t.Error("first run cannot hit the cache")
	}

	for _, cut := range result.Cuts {
		if len(cut.Cols) != len(cut.Coeffs) {
			t.Errorf("ragged cut: %+v", cut)
		}
		if cut.Sense != ">=" && cut.Sense != "<=" && cut.Sense != "=" {
			t.Errorf("bad sense %q", cut.Sense)
		}
		if cut.Family == "" {
			t.Error("cut family should be tagged")
		}
	}
}

func TestExecuteCaching(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(backend, nil, nil)
	defer r.Close()

	first, err := r.Execute(context.Background(), execOpts())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.CutsHit {
		t.Error("first run cannot hit the cache")
	}

	second, err := r.Execute(context.Background(), execOpts())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.CutsHit {
		t.Error("second run should hit the cache")
	}
	if len(first.Cuts) != len(second.Cuts) {
		t.Errorf("cached run returned %d cuts, fresh run %d", len(second.Cuts), len(first.Cuts))
	}

	// Refresh bypasses the cache read.
	opts := execOpts()
	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.CutsHit {
		t.Error("refresh run must not report a cache hit")
	}
}

func TestExecuteDifferentOptionsMissCache(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(backend, nil, nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), execOpts()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	opts := execOpts()
	opts.SkipTwoStep = true
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.CutsHit {
		t.Error("changed options must produce a different cache key")
	}
	for _, cut := range result.Cuts {
		if strings.Contains(cut.Family, "2step") {
			t.Errorf("two-step cuts generated despite SkipTwoStep: %+v", cut)
		}
	}
}

func TestExecuteValidation(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), Options{StateJSON: stateJSON}); err == nil {
		t.Error("missing problem should fail")
	}
	if _, err := r.Execute(context.Background(), Options{ProblemMPS: problemMPS}); err == nil {
		t.Error("missing state should fail")
	}

	opts := execOpts()
	opts.StateJSON = `{"col_values": [1.0]}`
	if _, err := r.Execute(context.Background(), opts); err == nil {
		t.Error("mismatched state should fail")
	}
}

func TestGenerateDirect(t *testing.T) {
	model, err := mps.Read(strings.NewReader(problemMPS))
	if err != nil {
		t.Fatalf("parse problem: %v", err)
	}
	state, err := lp.ReadState(strings.NewReader(stateJSON))
	if err != nil {
		t.Fatalf("parse state: %v", err)
	}

	r := NewRunner(nil, nil, nil)
	defer r.Close()

	cuts, err := r.Generate(model, state, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cuts) == 0 {
		t.Error("expected cuts from the fractional vertex")
	}
}

func TestLoadConfig(t *testing.T) {
	// Missing file yields the zero config.
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig missing: %v", err)
	}
	if cfg.Cache.Backend != "" {
		t.Errorf("zero config expected, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
[cache]
backend = "none"
scope = "ci:"

[generate]
t_min = 1
t_max = 2
seed = 7

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != "none" || cfg.Cache.Scope != "ci:" {
		t.Errorf("wrong cache config: %+v", cfg.Cache)
	}
	if cfg.Server.ListenAddr() != ":9090" {
		t.Errorf("wrong server addr: %s", cfg.Server.ListenAddr())
	}

	var opts Options
	cfg.Generate.ApplyTo(&opts)
	if opts.TMin != 1 || opts.TMax != 2 || opts.Seed != 7 {
		t.Errorf("config defaults not applied: %+v", opts)
	}

	// Explicit options win over config defaults.
	opts = Options{TMin: 3, TMax: 3, Seed: 11}
	cfg.Generate.ApplyTo(&opts)
	if opts.TMin != 3 || opts.TMax != 3 || opts.Seed != 11 {
		t.Errorf("explicit options overwritten: %+v", opts)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, keyer, err := CacheConfig{Backend: "none"}.OpenCache(ctx)
	if err != nil {
		t.Fatalf("none backend: %v", err)
	}
	c.Close()
	if keyer == nil {
		t.Error("keyer should never be nil")
	}

	c, _, err = CacheConfig{Backend: "file", Dir: t.TempDir()}.OpenCache(ctx)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	c.Close()

	if _, _, err := (CacheConfig{Backend: "bogus"}).OpenCache(ctx); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestServerDefaults(t *testing.T) {
	if (ServerConfig{}).ListenAddr() != ":8080" {
		t.Error("default addr should be :8080")
	}
}
