package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/mtsearch/internal/types"
)

func TestRecordAndSaveLoadRoundTrip(t *testing.T) {
	s := New()
	s.Record(types.DocumentID(1), "/a.txt")
	s.Record(types.DocumentID(2), "/dir/b.txt")

	path := filepath.Join(t.TempDir(), "snap.toml")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "/a.txt", loaded.Documents[1].Path)
	assert.Equal(t, "b.txt", loaded.Documents[2].Title)
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPathsOrderedByAscendingID(t *testing.T) {
	s := New()
	s.Record(types.DocumentID(5), "/e.txt")
	s.Record(types.DocumentID(1), "/a.txt")
	s.Record(types.DocumentID(3), "/c.txt")

	assert.Equal(t, []string{"/a.txt", "/c.txt", "/e.txt"}, s.Paths())
}

func TestRecordOverwritesExistingID(t *testing.T) {
	s := New()
	s.Record(types.DocumentID(1), "/old.txt")
	s.Record(types.DocumentID(1), "/new.txt")
	assert.Equal(t, "/new.txt", s.Documents[1].Path)
	assert.Len(t, s.Documents, 1)
}
