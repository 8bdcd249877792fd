// Package suggest finds likely intended names for mistyped CLI input using
// Levenshtein distance and fuzzy subsequence matching.
package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// Names returns up to three entries of valid that unknown was probably meant
// to be, best first. Close edits rank ahead of fuzzy subsequence matches.
func Names(unknown string, valid []string) []string {
	unknown = strings.ToLower(strings.TrimSpace(unknown))
	if unknown == "" {
		return nil
	}

	type scored struct {
		name  string
		score int
	}
	var candidates []scored
	seen := make(map[string]bool)

	maxDist := max(3, len(unknown)/2)
	for _, name := range valid {
		if dist := levenshtein(unknown, strings.ToLower(name)); dist <= maxDist {
			candidates = append(candidates, scored{name, dist})
			seen[name] = true
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	result := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(result) == maxSuggestions {
			return result
		}
		result = append(result, c.name)
	}

	// fuzzy.Find returns matches ordered by descending score.
	for _, m := range fuzzy.Find(unknown, valid) {
		if len(result) == maxSuggestions {
			break
		}
		if seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		result = append(result, m.Str)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
