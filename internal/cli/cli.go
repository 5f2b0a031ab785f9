// Package cli implements the mircut command-line interface.
//
// This package provides commands for generating MIR cuts from a problem
// and relaxation state, inspecting cut files, rendering constraint
// graphs, running the HTTP server, and managing the result cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Derive MIR and two-step MIR cuts from a relaxation
//   - inspect: Summarize a cut file, optionally interactively
//   - graph: Render the problem's constraint graph
//   - serve: Run the HTTP API server
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
//
// # Example
//
//	import "github.com/mircut/mircut/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mircut/mircut/pkg/cache"
	"github.com/mircut/mircut/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "mircut"

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization
// with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the mircut CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute() error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Mircut generates mixed-integer rounding cuts",
		Long:         `Mircut derives MIR and two-step MIR cutting planes from a problem and the relaxation state of a host solver, for use inside branch-and-cut.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(context.Background())
}

// loadConfig reads the TOML config named by --config, falling back to
// the per-user default location. A missing file yields the zero config.
func loadConfig(cmd *cobra.Command) (*pipeline.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return &pipeline.Config{}, nil
		}
		path = filepath.Join(base, appName, "config.toml")
	}
	return pipeline.LoadConfig(path)
}

// newRunner builds a pipeline runner from the config. When the
// configured cache backend cannot be opened, the runner falls back to
// no caching instead of failing the command.
func newRunner(ctx context.Context, cmd *cobra.Command, noCache bool) (*pipeline.Runner, *pipeline.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := loggerFromContext(ctx)

	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), cfg, nil
	}

	if cfg.Cache.Dir == "" && (cfg.Cache.Backend == "" || cfg.Cache.Backend == "file") {
		if dir, err := cacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}

	backend, keyer, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		logger.Warnf("Cache unavailable, continuing without: %v", err)
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), cfg, nil
	}
	return pipeline.NewRunner(backend, keyer, logger), cfg, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mircut/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
