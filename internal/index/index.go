// Package index implements the concurrent inverted index: per-document
// term-frequency vectors, term->doc and n-gram->doc postings, TF·IDF
// ranked search, and a conservative n-gram substring filter. A single
// reader-writer lock guards all maps: reads take RLock, writes take
// Lock, and no lock is held across I/O or tokenization.
package index

import (
	"math"
	"sort"
	"sync"

	"github.com/standardbeagle/mtsearch/internal/debug"
	"github.com/standardbeagle/mtsearch/internal/tokenizer"
	"github.com/standardbeagle/mtsearch/internal/types"
)

// DefaultMaxResults bounds both Search and SearchSubstring result lists
// unless overridden with WithMaxResults.
const DefaultMaxResults = 10

// DefaultNgramSize is used when a non-positive size is requested.
const DefaultNgramSize = 3

type postingSet map[types.DocumentID]struct{}

// Index is the concurrent inverted index. The zero value is not usable;
// construct with New.
type Index struct {
	mu          sync.RWMutex
	ngramSize   int
	maxResults  int
	documents   map[types.DocumentID]Document
	pathToID    map[string]types.DocumentID
	termToDocs  map[string]postingSet
	ngramToDocs map[string]postingSet
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithMaxResults lowers the result cap below DefaultMaxResults.
// Non-positive values are ignored; values above DefaultMaxResults are
// clamped to it.
func WithMaxResults(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.maxResults = min(n, DefaultMaxResults)
		}
	}
}

// New creates an Index with the given n-gram size; non-positive values
// fall back to DefaultNgramSize.
func New(ngramSize int, opts ...Option) *Index {
	if ngramSize < 1 {
		ngramSize = DefaultNgramSize
	}
	idx := &Index{
		ngramSize:   ngramSize,
		maxResults:  DefaultMaxResults,
		documents:   make(map[types.DocumentID]Document),
		pathToID:    make(map[string]types.DocumentID),
		termToDocs:  make(map[string]postingSet),
		ngramToDocs: make(map[string]postingSet),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add tokenizes content and inserts it under id/path. If content yields
// no words, Add is a no-op and returns false — the caller's id is simply
// never consumed. If path is already indexed, the prior document is
// unconditionally removed before the new one is inserted under the new
// id (replace, never mutate in place) — a re-add always replaces, even
// when the new content is byte-identical to the old.
func (idx *Index) Add(id types.DocumentID, path string, content []byte) bool {
	words := tokenizer.ExtractWords(content)
	if len(words) == 0 {
		return false
	}
	hash := types.HashContent(content)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existingID, ok := idx.pathToID[path]; ok {
		idx.removeByIDLocked(existingID)
		delete(idx.pathToID, path)
	}

	doc := newDocument(id, path, hash, words)

	idx.documents[id] = doc
	idx.pathToID[path] = id
	for term := range doc.TermFrequencies {
		idx.addPostingLocked(idx.termToDocs, term, id)
		for _, gram := range tokenizer.NGrams(term, idx.ngramSize) {
			idx.addPostingLocked(idx.ngramToDocs, gram, id)
		}
	}
	debug.LogIndex("add: id=%d path=%s terms=%d words=%d", id, path, len(doc.TermFrequencies), doc.WordCount)
	return true
}

// Remove deletes the document at path, if any. Absent paths are a quiet no-op.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id, ok := idx.pathToID[path]
	if !ok {
		return
	}
	idx.removeByIDLocked(id)
	delete(idx.pathToID, path)
	debug.LogIndex("remove: path=%s id=%d", path, id)
}

// RemoveInDir removes every document whose path is under dir — flat
// (direct children only) or recursive (any depth) — using a two-phase
// pattern: collect matching paths under a read lock, then remove each
// independently so no lock is held across the whole batch.
func (idx *Index) RemoveInDir(dir string, recursive bool, isMatch func(path, dir string) bool) {
	idx.mu.RLock()
	var toRemove []string
	for path := range idx.pathToID {
		if isMatch(path, dir) {
			toRemove = append(toRemove, path)
		}
	}
	idx.mu.RUnlock()

	for _, path := range toRemove {
		idx.Remove(path)
	}
}

// removeByIDLocked removes a document's postings and the document itself.
// Caller must hold idx.mu for writing.
func (idx *Index) removeByIDLocked(id types.DocumentID) {
	doc, ok := idx.documents[id]
	if !ok {
		return
	}
	for term := range doc.TermFrequencies {
		idx.removePostingLocked(idx.termToDocs, term, id)
		for _, gram := range tokenizer.NGrams(term, idx.ngramSize) {
			idx.removePostingLocked(idx.ngramToDocs, gram, id)
		}
	}
	delete(idx.documents, id)
}

func (idx *Index) addPostingLocked(set map[string]postingSet, key string, id types.DocumentID) {
	docs, ok := set[key]
	if !ok {
		docs = make(postingSet, 1)
		set[key] = docs
	}
	docs[id] = struct{}{}
}

func (idx *Index) removePostingLocked(set map[string]postingSet, key string, id types.DocumentID) {
	docs, ok := set[key]
	if !ok {
		return
	}
	delete(docs, id)
	if len(docs) == 0 {
		delete(set, key)
	}
}

// Result is one ranked match from Search.
type Result struct {
	ID    types.DocumentID
	Score float64
}

// Search ranks documents by TF·IDF over queryTerms. Terms absent from
// the index contribute nothing; candidates with a non-positive score
// are dropped; ties break by ascending id; the list is truncated to
// maxResults.
func (idx *Index) Search(queryTerms []string) []Result {
	if len(queryTerms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := make(postingSet)
	for _, term := range queryTerms {
		for id := range idx.termToDocs[term] {
			candidates[id] = struct{}{}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	totalDocs := len(idx.documents)
	results := make([]Result, 0, len(candidates))
	for id := range candidates {
		score := idx.scoreLocked(id, queryTerms, totalDocs)
		if score > 0 {
			results = append(results, Result{ID: id, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > idx.maxResults {
		results = results[:idx.maxResults]
	}
	return results
}

// scoreLocked computes Σ_t tf(d,t)*idf(t). Caller must hold idx.mu (read or write).
func (idx *Index) scoreLocked(id types.DocumentID, queryTerms []string, totalDocs int) float64 {
	doc, ok := idx.documents[id]
	if !ok {
		return 0
	}
	var score float64
	for _, term := range queryTerms {
		count, ok := doc.TermFrequencies[term]
		if !ok || doc.WordCount == 0 {
			continue
		}
		df := len(idx.termToDocs[term])
		if df == 0 || totalDocs == 0 {
			continue
		}
		tf := float64(count) / float64(doc.WordCount)
		idf := math.Log(float64(totalDocs) / float64(df))
		score += tf * idf
	}
	return score
}

// SearchSubstring returns, in ascending id order, up to maxResults
// document ids whose terms collectively contain every n-gram of
// substring. This is a conservative filter: every document that truly
// contains substring appears in the result, but the n-grams need not
// be contiguous within a single term, so false positives are possible.
func (idx *Index) SearchSubstring(substring string) []types.DocumentID {
	lowered := tokenizer.Lowercase(substring)
	grams := tokenizer.NGrams(lowered, idx.ngramSize)
	if len(grams) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := idx.sortedPostingLocked(grams[0])
	for _, gram := range grams[1:] {
		if len(result) == 0 {
			break
		}
		result = intersectSorted(result, idx.sortedPostingLocked(gram))
	}

	if len(result) > idx.maxResults {
		result = result[:idx.maxResults]
	}
	return result
}

func (idx *Index) sortedPostingLocked(key string) []types.DocumentID {
	docs := idx.ngramToDocs[key]
	if len(docs) == 0 {
		return nil
	}
	ids := make([]types.DocumentID, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func intersectSorted(a, b []types.DocumentID) []types.DocumentID {
	result := make([]types.DocumentID, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}

// GetPathByID returns the path of id, or "" if it is not indexed.
func (idx *Index) GetPathByID(id types.DocumentID) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.documents[id].Path
}

// HasDocument reports whether path is currently indexed.
func (idx *Index) HasDocument(path string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.pathToID[path]
	return ok
}

// IndexedDocuments returns a snapshot of every indexed document, sorted
// by ascending id.
func (idx *Index) IndexedDocuments() []Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docs := make([]Document, 0, len(idx.documents))
	for _, doc := range idx.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// TotalDocs returns the number of currently indexed documents.
func (idx *Index) TotalDocs() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.documents)
}
