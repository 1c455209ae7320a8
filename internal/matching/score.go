package matching

import "strings"

// Score computes the confidence that a candidate title matches a lesson
// title. Deterministic: fixed inputs always produce the same float.
//
// Components, summed without renormalization:
//   - sequence-similarity ratio in [0,1] between normalized titles
//     (1.0 only on exact normalized equality, 0 for disjoint titles)
//   - word-overlap ratio scaled by WordOverlapWeight
//   - ChannelBonus when verified is true
func (p Policy) Score(lessonTitle, candidateTitle string, verified bool) float64 {
	p = p.normalized()

	lessonTokens := strings.Fields(NormalizeTitle(lessonTitle))
	candidateTokens := strings.Fields(NormalizeTitle(candidateTitle))

	score := lcsRatio(lessonTokens, candidateTokens)

	if len(lessonTokens) > 0 {
		candidateWords := make(map[string]struct{}, len(candidateTokens))
		for _, w := range candidateTokens {
			candidateWords[w] = struct{}{}
		}
		overlap := 0
		seen := make(map[string]struct{}, len(lessonTokens))
		for _, w := range lessonTokens {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := candidateWords[w]; ok {
				overlap++
			}
		}
		score += p.WordOverlapWeight * float64(overlap) / float64(len(seen))
	}

	if verified {
		score += p.ChannelBonus
	}
	return score
}

// lcsRatio is a symmetric similarity ratio over token sequences:
// 2*LCS(a,b) / (len(a)+len(b)). Token-level rather than character-level so
// titles sharing no words score 0 instead of accumulating accidental
// character overlap. Two empty sequences are identical.
func lcsRatio(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Two-row DP keeps memory linear in the shorter sequence.
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1] + 1
			} else if prev[i] >= curr[i-1] {
				curr[i] = prev[i]
			} else {
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return 2 * float64(prev[len(a)]) / float64(total)
}
