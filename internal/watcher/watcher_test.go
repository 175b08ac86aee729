package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/mtsearch/internal/config"
	"github.com/standardbeagle/mtsearch/testhelpers"
)

func newTestWatcher(t *testing.T, cfg *config.Config, onChanged, onRemoved func(string)) *Watcher {
	t.Helper()
	w, err := New(cfg, onChanged, onRemoved)
	require.NoError(t, err)
	t.Cleanup(func() { testhelpers.AssertNoLeaks(t) })
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestExcludedMatchesConfiguredGlobs(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t.TempDir())
	cfg.Exclude = []string{"**/.git/**"}
	w := newTestWatcher(t, cfg, nil, nil)

	assert.True(t, w.excluded("/repo/.git/HEAD"))
	assert.False(t, w.excluded("/repo/main.go"))
}

func TestIncludedDefaultsToEverythingWhenUnset(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t.TempDir())
	w := newTestWatcher(t, cfg, nil, nil)
	assert.True(t, w.included("/anything.txt"))
}

func TestIncludedRestrictsToMatchingGlobs(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t.TempDir())
	cfg.Include = []string{"*.txt"}
	w := newTestWatcher(t, cfg, nil, nil)

	assert.True(t, w.included("notes.txt"))
	assert.False(t, w.included("image.png"))
}

func TestScheduleDebouncesRepeatedEventsForSamePath(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t.TempDir())
	cfg.Index.WatchDebounceMs = 20

	changedCount := 0
	done := make(chan struct{})
	w := newTestWatcher(t, cfg, func(path string) {
		changedCount++
		close(done)
	}, nil)

	w.schedule("/a.txt", EventChanged)
	w.schedule("/a.txt", EventChanged)
	w.schedule("/a.txt", EventChanged)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush never fired")
	}
	assert.Equal(t, 1, changedCount)
}

func TestStartWatchesSubdirectoriesAndSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	cfg := testhelpers.NewTestConfig(root)
	cfg.Exclude = []string{"**/.git"}
	w := newTestWatcher(t, cfg, nil, nil)

	require.NoError(t, w.Start(root))
}

func TestRemovedEventRoutesToOnRemoved(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t.TempDir())
	cfg.Index.WatchDebounceMs = 10

	removedPath := ""
	done := make(chan struct{})
	w := newTestWatcher(t, cfg, nil, func(path string) {
		removedPath = path
		close(done)
	})

	w.schedule("/gone.txt", EventRemoved)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush never fired")
	}
	assert.Equal(t, "/gone.txt", removedPath)
}
