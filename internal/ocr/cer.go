package ocr

import "unicode/utf8"

// EditDistance returns the Levenshtein distance between a and b counted in
// runes: the minimum number of single-character insertions, deletions and
// substitutions that turn a into b.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// CharErrorRate returns EditDistance(reference, hypothesis) divided by the
// reference length. An empty reference yields 0 for an empty hypothesis and
// 1 otherwise.
func CharErrorRate(reference, hypothesis string) float64 {
	n := utf8.RuneCountInString(reference)
	if n == 0 {
		if hypothesis == "" {
			return 0
		}
		return 1
	}
	return float64(EditDistance(reference, hypothesis)) / float64(n)
}
