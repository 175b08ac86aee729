// Package testhelpers provides shared utilities for testing mtsearch.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/standardbeagle/mtsearch/internal/config"
)

// NewTestConfig builds a Config rooted at dir with settings tuned for
// fast, deterministic tests: watch mode and gitignore handling off, a
// small worker count, and the default n-gram size and result cap.
func NewTestConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Root = dir
	cfg.Index.WatchMode = false
	cfg.Index.RespectGitignore = false
	cfg.Performance.Workers = 2
	return cfg
}

// WriteFiles creates each name/content pair under dir, creating parent
// directories as needed, and returns a map from each name to the path
// it was written at (filepath.Join(dir, name)).
//
// Usage:
//
//	paths := testhelpers.WriteFiles(t, dir, map[string]string{
//	    "a.txt":     "apple",
//	    "sub/b.txt": "banana",
//	})
func WriteFiles(t *testing.T, dir string, files map[string]string) map[string]string {
	t.Helper()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create parent dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		paths[name] = path
	}
	return paths
}

// WaitFor polls condition until it returns true or timeout elapses,
// failing the test on timeout. Useful for watch-mode tests where a
// debounced callback fires on a background goroutine.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// AssertNoLeaks verifies no goroutine started during the test is still
// running when it returns. Call via t.Cleanup(func() { testhelpers.AssertNoLeaks(t) })
// at the top of tests that start a worker pool or watcher.
func AssertNoLeaks(t *testing.T) {
	t.Helper()
	if err := goleak.Find(goleak.IgnoreCurrent()); err != nil {
		t.Errorf("goroutine leak detected: %v", err)
	}
}
