package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", Shorten("short", 10))
	assert.Equal(t, "0123456...", Shorten("0123456789abc", 10))
	assert.Equal(t, "ab", Shorten("abcdef", 2))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("rules", "rules"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.InDelta(t, 0.8, Similarity("rules", "rule"), 0.001)
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilarStrings(t *testing.T) {
	candidates := []string{"ask", "rules", "rule-1", "python"}

	assert.Equal(t, []string{"rules", "rule-1"}, SimilarStrings("rulez", candidates, 0.6))
	assert.Empty(t, SimilarStrings("zzzzzz", candidates, 0.6))
}
