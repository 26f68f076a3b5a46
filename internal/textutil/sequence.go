package textutil

import (
	"slices"
	"strings"
)

// Match is a candidate returned by CloseMatches with its similarity score.
type Match struct {
	Value string
	Score float64
}

// Ratio returns the similarity of a and b in [0, 1] as 2*M/T, where T is the
// total rune count of both strings and M is the number of runes in the
// matching blocks found by repeatedly taking the longest common substring.
// It agrees with difflib's SequenceMatcher.ratio for inputs shorter
// than the autojunk threshold, which covers every title in the catalog.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

// CloseMatches returns at most n candidates whose Ratio against word is at
// least cutoff, best first. Equal scores are ordered by descending value to
// mirror difflib.get_close_matches.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []Match {
	if n <= 0 || cutoff < 0 || cutoff > 1 {
		return nil
	}
	var matches []Match
	for _, candidate := range candidates {
		score := Ratio(candidate, word)
		if score >= cutoff {
			matches = append(matches, Match{Value: candidate, Score: score})
		}
	}
	slices.SortFunc(matches, func(x, y Match) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return -strings.Compare(x.Value, y.Value)
		}
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// ClosestMatch returns the single best candidate at or above cutoff.
func ClosestMatch(word string, candidates []string, cutoff float64) (string, bool) {
	matches := CloseMatches(word, candidates, 1, cutoff)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Value, true
}

func matchingRunes(a, b []rune) int {
	i, j, k := longestMatch(a, b)
	if k == 0 {
		return 0
	}
	return k + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+k:], b[j+k:])
}

// longestMatch finds the longest common substring of a and b. Ties resolve to
// the earliest start in a, then the earliest start in b.
func longestMatch(a, b []rune) (int, int, int) {
	bestI, bestJ, bestK := 0, 0, 0
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestK {
					bestK = curr[j]
					bestI = i - curr[j]
					bestJ = j - curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestI, bestJ, bestK
}
