package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the default maximum edit distance to consider for fuzzy matching
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions is the default maximum number of suggestions to return
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures fuzzy matching behavior
type FuzzyMatchOptions struct {
	MaxDistance    int  // Maximum Levenshtein distance to consider (default: 3)
	MaxSuggestions int  // Maximum number of suggestions to return (default: 3)
	CaseSensitive  bool // Whether matching is case-sensitive (default: false)
}

// suggestion represents a fuzzy match result with its edit distance
type suggestion struct {
	value    string
	distance int
}

// FindSimilar finds strings similar to the target using Levenshtein distance
//
// Example:
//
//	candidates := []string{"motor_on", "motor_off", "wait"}
//	suggestions := FindSimilar("motr_on", candidates, nil)
//	// Returns: ["motor_on", "motor_off"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	if opts == nil {
		opts = &FuzzyMatchOptions{
			MaxDistance:    DefaultMaxDistance,
			MaxSuggestions: DefaultMaxSuggestions,
			CaseSensitive:  false,
		}
	}

	if opts.MaxDistance == 0 {
		opts.MaxDistance = DefaultMaxDistance
	}
	if opts.MaxSuggestions == 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}

	var suggestions []suggestion

	for _, candidate := range candidates {
		targetCmp := target
		candidateCmp := candidate

		if !opts.CaseSensitive {
			targetCmp = strings.ToLower(target)
			candidateCmp = strings.ToLower(candidate)
		}

		dist := LevenshteinDistance(targetCmp, candidateCmp)
		if dist <= opts.MaxDistance {
			suggestions = append(suggestions, suggestion{
				value:    candidate,
				distance: dist,
			})
		}
	}

	// Sort by distance (closest first), keeping candidate order on ties
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].distance < suggestions[j].distance
	})

	// Return top suggestions
	result := make([]string, 0, opts.MaxSuggestions)
	for i := 0; i < len(suggestions) && i < opts.MaxSuggestions; i++ {
		result = append(result, suggestions[i].value)
	}

	return result
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn a into b.
//
//	LevenshteinDistance("kitten", "sitting") // 3
//	LevenshteinDistance("モーター", "モータ")   // 1
func LevenshteinDistance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create matrix
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	// Initialize first column and row
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
