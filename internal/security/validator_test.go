package security

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestValidateSkipsSmallFiles(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(1, 4) // threshold 1KB
	path := writeFile(t, dir, "tiny.bin", bytes.Repeat([]byte{0x00}, 100))
	assert.NoError(t, v.Validate(context.Background(), path))
}

func TestValidateAcceptsLargeTextFile(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(0, 4)
	content := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 2000))
	path := writeFile(t, dir, "big.txt", content)
	assert.NoError(t, v.Validate(context.Background(), path))
}

func TestValidateRejectsLargeBinaryFile(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(0, 4)
	content := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0xFF}, 20000)
	path := writeFile(t, dir, "big.bin", content)
	err := v.Validate(context.Background(), path)
	assert.Error(t, err)
}

func TestValidateMissingFile(t *testing.T) {
	v := NewValidator(0, 4)
	err := v.Validate(context.Background(), "/does/not/exist")
	assert.Error(t, err)
}

func TestLooksBinaryEmptyHeader(t *testing.T) {
	assert.False(t, looksBinary(nil))
}

func TestConcurrentValidationsUnderSemaphoreSucceed(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(0, 2)
	content := []byte(strings.Repeat("alpha beta gamma delta\n", 3000))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		path := writeFile(t, dir, "f"+string(rune('a'+i))+".txt", content)
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, v.Validate(context.Background(), p))
		}(path)
	}
	wg.Wait()
}
