// Package config loads mtsearch's runtime configuration from an optional
// .mtsearch.kdl file and CLI flag overrides. Typed defaults live here;
// the KDL parser lives in kdl_config.go.
package config

import (
	"os"
	"runtime"
)

// Config is the fully-resolved runtime configuration for one mtsearch
// process.
type Config struct {
	Root        string
	Index       Index
	Performance Performance
	Search      Search
	Snapshot    Snapshot
	Include     []string
	Exclude     []string
}

// Index controls tokenization and ingestion behavior.
type Index struct {
	NgramSize        int
	MaxFileSize      int64
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
}

// Performance controls the worker pool.
type Performance struct {
	// Workers is the worker pool size. 0 means auto-detect via runtime.NumCPU().
	Workers int
}

// Search controls result shaping.
type Search struct {
	// ResultCap bounds both find and find_substring result lists. The
	// domain ceiling is 10; this field only allows overriding downward,
	// e.g. for deterministic tests.
	ResultCap int
}

// Snapshot controls optional persistence.
type Snapshot struct {
	Path string
}

const (
	// DefaultNgramSize matches index.DefaultNgramSize; duplicated here so
	// config has no import-cycle dependency on the index package.
	DefaultNgramSize   = 3
	DefaultMaxFileSize = 64 * 1024 * 1024
	DefaultResultCap   = 10
	DefaultDebounceMs  = 300
)

// Default returns the configuration used when no .mtsearch.kdl file is
// present and no CLI overrides are given.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Root: cwd,
		Index: Index{
			NgramSize:        DefaultNgramSize,
			MaxFileSize:      DefaultMaxFileSize,
			RespectGitignore: true,
			WatchMode:        false,
			WatchDebounceMs:  DefaultDebounceMs,
		},
		Performance: Performance{
			Workers: 0,
		},
		Search: Search{
			ResultCap: DefaultResultCap,
		},
		Include: []string{},
		Exclude: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/vendor/**",
		},
	}
}

// ResolvedWorkers returns Performance.Workers, substituting
// runtime.NumCPU() for the auto-detect sentinel of 0.
func (c *Config) ResolvedWorkers() int {
	if c.Performance.Workers > 0 {
		return c.Performance.Workers
	}
	return runtime.NumCPU()
}

// Load reads .mtsearch.kdl from root, if present. A missing file falls
// back to Default() with Root set.
func Load(root string) (*Config, error) {
	cfg, err := loadKDL(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}
	cfg.Root = root
	return cfg, nil
}

// Overrides carries CLI-flag values that take precedence over both the
// KDL file and the defaults. A zero value means "not set by the
// caller" and leaves the existing config value untouched; Workers==0
// is not ambiguous with "unset" because ResolvedWorkers treats 0 as
// auto-detect regardless of where the value came from.
type Overrides struct {
	Root      string
	Workers   int
	NgramSize int
	ResultCap int
	Snapshot  string
}

// Apply layers non-zero-sentinel overrides onto cfg in place.
func (c *Config) Apply(o Overrides) {
	if o.Root != "" {
		c.Root = o.Root
	}
	if o.Workers != 0 {
		c.Performance.Workers = o.Workers
	}
	if o.NgramSize > 0 {
		c.Index.NgramSize = o.NgramSize
	}
	if o.ResultCap > 0 {
		c.Search.ResultCap = o.ResultCap
	}
	if o.Snapshot != "" {
		c.Snapshot.Path = o.Snapshot
	}
}
