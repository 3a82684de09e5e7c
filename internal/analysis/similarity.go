// internal/analysis/similarity.go

package analysis

import (
	"math"
	"strings"
	"unicode"
)

// Similarity computes the cosine similarity between two texts over their
// combined vocabulary, weighted by term frequency. The result is in [0,1]
// and symmetric in its arguments. If either text tokenizes to nothing the
// similarity is 0.
func Similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	freqA := termFrequencies(tokensA)
	freqB := termFrequencies(tokensB)

	var dot, normA, normB float64
	for term, fa := range freqA {
		dot += fa * freqB[term]
		normA += fa * fa
	}
	for _, fb := range freqB {
		normB += fb * fb
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}
