package utils

import (
	"strings"
)

// ClosestKey performs fuzzy matching between an unknown category key and the
// set of known keys. It returns the best candidate, or "" when nothing is
// close enough to be a plausible typo.
func ClosestKey(input string, known []string) string {
	needle := normalizeKey(input)
	if needle == "" {
		return ""
	}

	best := ""
	bestScore := 0
	for _, k := range known {
		score := keyScore(needle, normalizeKey(k))
		if score > bestScore {
			best = k
			bestScore = score
		}
	}

	// Require at least one shared token; a zero-overlap "suggestion" is noise.
	if bestScore < 1 {
		return ""
	}
	return best
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return k
}

// keyScore counts shared underscore-separated tokens, with a bonus when one
// key contains the other outright.
func keyScore(a, b string) int {
	if a == b {
		return 100
	}

	score := 0
	if strings.Contains(b, a) || strings.Contains(a, b) {
		score += 2
	}

	bTokens := make(map[string]bool)
	for _, t := range strings.Split(b, "_") {
		if t != "" {
			bTokens[t] = true
		}
	}
	for _, t := range strings.Split(a, "_") {
		if t != "" && bTokens[t] {
			score++
		}
	}
	return score
}
