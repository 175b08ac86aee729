// Package types holds the small value types shared across mtsearch's
// index, dispatcher, and snapshot packages.
package types

import "github.com/cespare/xxhash/v2"

// DocumentID is a 64-bit monotonically increasing identifier allocated at
// ingestion time. Ids are never reused, even after removal.
type DocumentID uint64

// ContentHash identifies the byte content of a document. It is kept as
// metadata only: a re-add of the same path replaces the document whether
// or not the hash changed.
type ContentHash uint64

// HashContent computes the ContentHash of raw file bytes.
func HashContent(content []byte) ContentHash {
	return ContentHash(xxhash.Sum64(content))
}
