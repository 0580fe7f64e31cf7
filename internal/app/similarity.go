package app

import "strings"

// Similarity returns a 0..1 closeness ratio between two strings, case-folded:
// twice the length of their longest common subsequence over the sum of their
// lengths. Identical strings score 1.0; strings with no common subsequence
// score 0.0. Symmetric by construction.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	// Single-row LCS table keeps the allocation small; guesses are short.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// IsNearMiss reports whether a wrong guess is close enough to the answer to
// deserve a nudge.
func IsNearMiss(guess, answer string) bool {
	return Similarity(guess, answer) >= NearMissThreshold
}
