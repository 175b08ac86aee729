// Package pathutil provides the path-resolution and directory-membership
// helpers shared by the inverted index and the dispatcher. mtsearch
// indexes documents under canonical absolute paths; this package is the
// boundary that turns user-typed, possibly relative paths into that
// canonical form, and answers directory-membership questions without
// holding any index lock.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Canonicalize resolves path to a cleaned absolute path. Symlinks are
// not followed and the file is not required to exist; this is purely
// lexical canonicalization.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// IsInDir reports whether file's parent directory equals dir exactly —
// the flat, non-recursive directory-membership test.
func IsInDir(file, dir string) bool {
	return filepath.Clean(filepath.Dir(file)) == filepath.Clean(dir)
}

// IsUnderDir reports whether file is dir itself or lexically nested
// under dir at any depth — the recursive directory-membership test.
func IsUnderDir(file, dir string) bool {
	file = filepath.Clean(file)
	dir = filepath.Clean(dir)
	if file == dir {
		return true
	}
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
