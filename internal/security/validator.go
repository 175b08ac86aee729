// Package security validates candidate files before they are queued for
// ingestion: large files are cheap to reject on their header alone
// rather than reading them fully only to discover they are binary
// noise.
package security

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/semaphore"
)

// Validator rejects files that look binary before a worker pool task
// spends a full read and tokenize pass on them.
type Validator struct {
	// ValidationThreshold: files at or below this size skip validation
	// entirely — the cost of tokenizing a small binary file is
	// negligible compared to the cost of validating every file.
	ValidationThreshold int64
	HeaderSize          int64
	sem                 *semaphore.Weighted
}

// NewValidator builds a Validator with the given size threshold in
// kilobytes and a concurrency ceiling on simultaneous header reads, so
// that validating a large directory of files cannot itself outrun the
// worker pool's own I/O concurrency.
func NewValidator(thresholdKB int64, maxConcurrent int64) *Validator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Validator{
		ValidationThreshold: thresholdKB * 1024,
		HeaderSize:          64 * 1024,
		sem:                 semaphore.NewWeighted(maxConcurrent),
	}
}

// Validate reports whether path is safe to ingest as text. It returns
// nil for files at or below ValidationThreshold without reading them.
func (v *Validator) Validate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() <= v.ValidationThreshold {
		return nil
	}

	if err := v.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	defer v.sem.Release(1)

	header, err := readHeader(path, v.HeaderSize)
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	if looksBinary(header) {
		return fmt.Errorf("%s appears to be binary content", path)
	}
	return nil
}

func readHeader(path string, size int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, size)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return header[:n], nil
}

// looksBinary flags content as binary when more than 30% of the header's
// bytes are control bytes (excluding tab, LF, VT, FF, CR), or a null byte is
// present anywhere.
func looksBinary(header []byte) bool {
	if len(header) == 0 {
		return false
	}
	if hasNullByte(header) {
		return true
	}
	nonPrintable := 0
	for _, b := range header {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	ratio := float64(nonPrintable) / float64(len(header))
	return ratio > 0.3
}

// hasNullByte is a fast short-circuit many validators use before the
// full ratio scan; kept separate so callers needing only a quick check
// can skip the allocation-heavier path.
func hasNullByte(header []byte) bool {
	return bytes.IndexByte(header, 0) >= 0
}
