package matching

import (
	"lessonlink/internal/ytsearch"
)

// Selection is the winning candidate with its score.
type Selection struct {
	Candidate ytsearch.Candidate
	Score     float64
	Verified  bool
}

// SelectBest picks the lesson's match from the provider's ranked candidates.
//
// Verified-channel candidates are scored preferentially; only when none
// exists does scoring fall back to the full list, so an absent publisher in
// noisy results degrades gracefully instead of failing outright. Ties go to
// the earlier candidate, preserving provider ranking. The winner is accepted
// only when its score strictly exceeds the policy threshold.
func SelectBest(lessonTitle string, candidates []ytsearch.Candidate, policy Policy) (Selection, bool) {
	policy = policy.normalized()

	subset := make([]ytsearch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if policy.VerifiedChannel(c) {
			subset = append(subset, c)
		}
	}
	if len(subset) == 0 {
		subset = candidates
	}
	if len(subset) == 0 {
		return Selection{}, false
	}

	var best Selection
	haveBest := false
	for _, c := range subset {
		verified := policy.VerifiedChannel(c)
		score := policy.Score(lessonTitle, c.Title, verified)
		if !haveBest || score > best.Score {
			best = Selection{Candidate: c, Score: score, Verified: verified}
			haveBest = true
		}
	}

	if best.Score <= policy.AcceptThreshold {
		return Selection{}, false
	}
	return best, true
}
