package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractWords(t *testing.T) {
	t.Run("basic sentence", func(t *testing.T) {
		words := ExtractWords([]byte("the quick brown fox"))
		assert.Equal(t, []string{"the", "quick", "brown", "fox"}, words)
	})

	t.Run("mixed case lowercased", func(t *testing.T) {
		words := ExtractWords([]byte("Hello World"))
		assert.Equal(t, []string{"hello", "world"}, words)
	})

	t.Run("non-ascii bytes are separators", func(t *testing.T) {
		words := ExtractWords([]byte("caf\xc3\xa9 bar"))
		assert.Equal(t, []string{"caf", "bar"}, words)
	})

	t.Run("digits and punctuation are separators", func(t *testing.T) {
		words := ExtractWords([]byte("a1b2c3, d.e.f"))
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, words)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ExtractWords([]byte("")))
	})

	t.Run("no letters at all", func(t *testing.T) {
		assert.Empty(t, ExtractWords([]byte("12345 !!! ---")))
	})

	t.Run("preserves duplicates and order", func(t *testing.T) {
		words := ExtractWords([]byte("a a b a"))
		assert.Equal(t, []string{"a", "a", "b", "a"}, words)
	})

	t.Run("trailing run flushed at end of input", func(t *testing.T) {
		words := ExtractWords([]byte("end"))
		assert.Equal(t, []string{"end"}, words)
	})
}

func TestNGrams(t *testing.T) {
	t.Run("longer than n", func(t *testing.T) {
		assert.Equal(t, []string{"abc", "bcd", "cde"}, NGrams("abcde", 3))
	})

	t.Run("shorter than n emits the whole string", func(t *testing.T) {
		assert.Equal(t, []string{"ab"}, NGrams("ab", 3))
	})

	t.Run("equal to n emits one gram", func(t *testing.T) {
		assert.Equal(t, []string{"abc"}, NGrams("abc", 3))
	})

	t.Run("empty string emits nothing", func(t *testing.T) {
		assert.Nil(t, NGrams("", 3))
	})

	t.Run("n of 1 emits every byte", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, NGrams("abc", 1))
	})
}

func TestLowercase(t *testing.T) {
	assert.Equal(t, "hello, world! 123", Lowercase("HeLLo, World! 123"))
}
