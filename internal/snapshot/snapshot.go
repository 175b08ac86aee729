// Package snapshot implements mtsearch's optional persistent-storage
// collaborator: a TOML-encoded path+title registry that can be replayed
// through add_file on startup. Document content is never embedded in
// the snapshot — only enough identity to re-read and re-tokenize each
// file, since derived index state is cheaper to rebuild than to
// serialize.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/mtsearch/internal/types"
)

// Entry is one persisted document record.
type Entry struct {
	Path  string `toml:"path"`
	Title string `toml:"title"`
}

// Snapshot is the on-disk registry: document id -> Entry.
type Snapshot struct {
	Documents map[uint64]Entry `toml:"documents"`
}

// New builds an empty Snapshot.
func New() *Snapshot {
	return &Snapshot{Documents: make(map[uint64]Entry)}
}

// Record adds or overwrites the entry for id.
func (s *Snapshot) Record(id types.DocumentID, path string) {
	s.Documents[uint64(id)] = Entry{Path: path, Title: filepath.Base(path)}
}

// Save writes s to path as TOML, creating parent directories as needed.
func (s *Snapshot) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a Snapshot from path. A missing file returns (nil, nil) so
// callers can treat "no prior snapshot" as a normal startup state.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	s := New()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return s, nil
}

// Paths returns every recorded path, in ascending document-id order,
// for callers that replay them through add_file.
func (s *Snapshot) Paths() []string {
	ids := make([]uint64, 0, len(s.Documents))
	for id := range s.Documents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		paths = append(paths, s.Documents[id].Path)
	}
	return paths
}
