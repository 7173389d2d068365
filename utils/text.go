package utils

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const ellipsis = "..."

// Shorten cuts s to at most max characters, ending the cut text with "...".
func Shorten(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= utf8.RuneCountInString(ellipsis) {
		return string(runes[:max])
	}
	cut := strings.TrimRight(string(runes[:max-utf8.RuneCountInString(ellipsis)]), " \t\n")
	return cut + ellipsis
}

// Similarity scores a and b between 0 (nothing shared) and 1 (equal) from
// their edit distance.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// SimilarStrings returns the candidates scoring above threshold against
// query, best match first.
func SimilarStrings(query string, candidates []string, threshold float64) []string {
	type scored struct {
		value string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		if score := Similarity(query, c); score > threshold {
			matches = append(matches, scored{c, score})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}
