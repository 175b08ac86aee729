package index

import "github.com/standardbeagle/mtsearch/internal/types"

// Document is one record per indexed file. WordCount is the total
// number of word tokens produced by the tokenizer, not the number of
// unique terms; TermFrequencies maps term -> occurrence count.
type Document struct {
	ID              types.DocumentID
	Path            string
	WordCount       int
	TermFrequencies map[string]int
	ContentHash     types.ContentHash
}

func newDocument(id types.DocumentID, path string, hash types.ContentHash, words []string) Document {
	tf := make(map[string]int, len(words))
	for _, w := range words {
		tf[w]++
	}
	return Document{
		ID:              id,
		Path:            path,
		WordCount:       len(words),
		TermFrequencies: tf,
		ContentHash:     hash,
	}
}
