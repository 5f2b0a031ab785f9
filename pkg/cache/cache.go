// Package cache provides pluggable byte caches and cache-key builders
// for cut generation runs. Backends cover local CLI usage (file), shared
// deployments (redis), and disabled caching (null).
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact class. Problems and cut results are fully
// determined by their key inputs, so the TTLs only bound storage growth.
const (
	// TTLModel is the lifetime of cached parsed problems.
	TTLModel = 24 * time.Hour

	// TTLCuts is the lifetime of cached cut-generation results.
	TTLCuts = 24 * time.Hour

	// TTLRender is the lifetime of cached rendered artifacts.
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support. All implementations
// must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no
	// expiration; a negative TTL stores an already-expired entry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CutsKeyOpts captures every generation setting that changes the cut
// output, so two runs with different settings never share a cache entry.
type CutsKeyOpts struct {
	Tableau     bool
	Formulation bool
	MIR         bool
	TwoStep     bool

	TMin, TMax int
	QMin, QMax int
	AMax       int

	Depth, Pass     int
	FormulationRows int
	Seed            uint64
}

// RenderKeyOpts captures the settings of a structure rendering.
type RenderKeyOpts struct {
	Format  string
	MaxRows int
}

// Keyer builds cache keys for the artifacts of a run. Implementations
// must be deterministic: equal inputs produce equal keys.
type Keyer interface {
	// ModelKey keys a parsed problem by its content hash.
	ModelKey(hash string) string

	// CutsKey keys a cut-generation result by the problem hash, the
	// relaxation-state hash, and the generation settings.
	CutsKey(modelHash, stateHash string, opts CutsKeyOpts) string

	// RenderKey keys a rendered artifact by the problem hash and the
	// rendering settings.
	RenderKey(modelHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes option structs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for a parsed problem.
func (k *DefaultKeyer) ModelKey(hash string) string {
	return "model:" + hash
}

// CutsKey generates a key for a cut-generation result.
func (k *DefaultKeyer) CutsKey(modelHash, stateHash string, opts CutsKeyOpts) string {
	return hashKey("cuts", modelHash, stateHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(modelHash string, opts RenderKeyOpts) string {
	return hashKey("render", modelHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
