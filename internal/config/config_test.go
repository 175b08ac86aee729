package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultNgramSize, cfg.Index.NgramSize)
	assert.Equal(t, DefaultResultCap, cfg.Search.ResultCap)
	assert.False(t, cfg.Index.WatchMode)
	assert.Equal(t, 0, cfg.Performance.Workers)
}

func TestResolvedWorkersAutoDetect(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.ResolvedWorkers())

	cfg.Performance.Workers = 4
	assert.Equal(t, 4, cfg.ResolvedWorkers())
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, DefaultNgramSize, cfg.Index.NgramSize)
}

func TestLoadParsesKDLFile(t *testing.T) {
	dir := t.TempDir()
	kdlSrc := `
index {
    ngram_size 4
    watch_mode true
    watch_debounce_ms 500
}
performance {
    workers 8
}
search {
    result_cap 5
}
snapshot "snap.toml"
include "*.txt"
exclude "**/.git/**" "**/node_modules/**"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mtsearch.kdl"), []byte(kdlSrc), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Index.NgramSize)
	assert.True(t, cfg.Index.WatchMode)
	assert.Equal(t, 500, cfg.Index.WatchDebounceMs)
	assert.Equal(t, 8, cfg.Performance.Workers)
	assert.Equal(t, 5, cfg.Search.ResultCap)
	assert.Equal(t, "snap.toml", cfg.Snapshot.Path)
	assert.Equal(t, []string{"*.txt"}, cfg.Include)
	assert.Equal(t, []string{"**/.git/**", "**/node_modules/**"}, cfg.Exclude)
}

func TestApplyOverridesTakesPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Apply(Overrides{
		Root:      "/custom/root",
		Workers:   6,
		NgramSize: 5,
		ResultCap: 3,
		Snapshot:  "state.toml",
	})
	assert.Equal(t, "/custom/root", cfg.Root)
	assert.Equal(t, 6, cfg.Performance.Workers)
	assert.Equal(t, 5, cfg.Index.NgramSize)
	assert.Equal(t, 3, cfg.Search.ResultCap)
	assert.Equal(t, "state.toml", cfg.Snapshot.Path)
}

func TestApplyZeroValuesLeaveDefaultsUntouched(t *testing.T) {
	cfg := Default()
	cfg.Apply(Overrides{})
	assert.Equal(t, DefaultNgramSize, cfg.Index.NgramSize)
	assert.Equal(t, 0, cfg.Performance.Workers)
	assert.Equal(t, DefaultResultCap, cfg.Search.ResultCap)
}
