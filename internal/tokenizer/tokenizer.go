// Package tokenizer implements the pure, stateless text-to-token and
// n-gram functions the inverted index depends on. It is a direct port
// of the original lw8/browser Tokenizer: scan bytes in order,
// accumulate ASCII letters, lowercase and emit on any other byte.
package tokenizer

// ExtractWords scans text in byte order, accumulating runs of ASCII
// letters. Non-ASCII and non-letter bytes are separators. Output
// preserves document order and duplicates.
func ExtractWords(text []byte) []string {
	words := make([]string, 0, len(text)/6+1)
	current := make([]byte, 0, 16)
	for _, ch := range text {
		if isASCIILetter(ch) {
			current = append(current, toLower(ch))
			continue
		}
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}

// NGrams returns every contiguous substring of length n in s, sliding by
// one byte. If len(s) < n, it returns []string{s} when s is non-empty,
// or nil otherwise. Duplicates are preserved.
func NGrams(s string, n int) []string {
	if n < 1 {
		return nil
	}
	if len(s) < n {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	grams := make([]string, 0, len(s)-n+1)
	for i := 0; i+n <= len(s); i++ {
		grams = append(grams, s[i:i+n])
	}
	return grams
}

// Lowercase lowercases ASCII letters byte-for-byte, leaving all other
// bytes untouched. Used on substring-search queries before n-gram
// generation.
func Lowercase(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = toLower(s[i])
	}
	return string(b)
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
