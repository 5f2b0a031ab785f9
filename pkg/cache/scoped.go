package cache

// ScopedKeyer prefixes every key from an inner Keyer, so several
// solver deployments sharing one redis keep disjoint cut caches.
//
//	// Per-deployment keys on a shared redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "solver-a:")
//
// The scope is set with the cache.scope config key.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with the prefix. A nil inner falls back to
// the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ModelKey generates a prefixed key for a parsed problem.
func (k *ScopedKeyer) ModelKey(hash string) string {
	return k.prefix + k.inner.ModelKey(hash)
}

// CutsKey generates a prefixed key for a cut-generation result.
func (k *ScopedKeyer) CutsKey(modelHash, stateHash string, opts CutsKeyOpts) string {
	return k.prefix + k.inner.CutsKey(modelHash, stateHash, opts)
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(modelHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(modelHash, opts)
}
