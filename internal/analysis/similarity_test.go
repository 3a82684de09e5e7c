// internal/analysis/similarity_test.go

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	texts := []string{
		"breaking news about the election",
		"one",
		"Repeated repeated words words words",
	}
	for _, text := range texts {
		assert.InDelta(t, 1.0, Similarity(text, text), 1e-9)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("anything", ""))
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 0.0, Similarity("", ""))
	// Punctuation-only text has no tokens.
	assert.Equal(t, 0.0, Similarity("?!...", "words here"))
}

func TestSimilaritySymmetric(t *testing.T) {
	a := "the quick brown fox jumps over the lazy dog"
	b := "a lazy dog sleeps all day"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarityKnownValue(t *testing.T) {
	// Vectors over {a,b,c}: (1,1,0) and (1,0,1); cosine = 1/2.
	assert.InDelta(t, 0.5, Similarity("a b", "a c"), 1e-9)
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("Hello World", "hello world"), 1e-9)
}

func TestSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("alpha beta", "gamma delta"))
}
