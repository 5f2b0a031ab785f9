package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mircut/mircut/pkg/cache"
)

// Config is the on-disk TOML configuration shared by the CLI and the
// server. All fields are optional; zero values fall back to defaults.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Generate GenerateConfig `toml:"generate"`
	Server   ServerConfig   `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Empty means "file".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means a per-user
	// default under the OS cache directory.
	Dir string `toml:"dir"`

	// RedisURL configures the redis backend.
	RedisURL string `toml:"redis_url"`

	// Scope prefixes every cache key, isolating deployments that share
	// a backend.
	Scope string `toml:"scope"`
}

// GenerateConfig carries default generation settings.
type GenerateConfig struct {
	SkipTableau     bool   `toml:"skip_tableau"`
	SkipFormulation bool   `toml:"skip_formulation"`
	SkipMIR         bool   `toml:"skip_mir"`
	SkipTwoStep     bool   `toml:"skip_two_step"`
	TMin            int    `toml:"t_min"`
	TMax            int    `toml:"t_max"`
	QMin            int    `toml:"q_min"`
	QMax            int    `toml:"q_max"`
	AMax            int    `toml:"a_max"`
	FormulationRows int    `toml:"formulation_rows"`
	Seed            uint64 `toml:"seed"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, default ":8080".
	Addr string `toml:"addr"`
}

// LoadConfig reads a TOML config file. A missing file is not an error
// and yields the zero config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyTo copies the configured generation defaults onto options the
// caller has not set explicitly.
func (g GenerateConfig) ApplyTo(opts *Options) {
	if g.SkipTableau {
		opts.SkipTableau = true
	}
	if g.SkipFormulation {
		opts.SkipFormulation = true
	}
	if g.SkipMIR {
		opts.SkipMIR = true
	}
	if g.SkipTwoStep {
		opts.SkipTwoStep = true
	}
	if opts.TMin == 0 && opts.TMax == 0 && (g.TMin != 0 || g.TMax != 0) {
		opts.TMin, opts.TMax = g.TMin, g.TMax
	}
	if opts.QMin == 0 && opts.QMax == 0 && (g.QMin != 0 || g.QMax != 0) {
		opts.QMin, opts.QMax = g.QMin, g.QMax
	}
	if opts.AMax == 0 {
		opts.AMax = g.AMax
	}
	if opts.FormulationRows == 0 {
		opts.FormulationRows = g.FormulationRows
	}
	if opts.Seed == 0 {
		opts.Seed = g.Seed
	}
}

// OpenCache builds the configured cache backend and keyer.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if c.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Scope)
	}

	switch c.Backend {
	case "", "file":
		dir := c.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, nil, err
			}
			dir = filepath.Join(base, "mircut")
		}
		backend, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return backend, keyer, nil
	case "redis":
		backend, err := cache.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return backend, keyer, nil
	case "none":
		return cache.NewNullCache(), keyer, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

// ListenAddr returns the configured server address or the default.
func (s ServerConfig) ListenAddr() string {
	if s.Addr == "" {
		return ":8080"
	}
	return s.Addr
}
