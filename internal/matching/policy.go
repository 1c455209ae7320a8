package matching

import (
	"strings"

	"lessonlink/internal/ytsearch"
)

// Policy centralizes scorer weights, the acceptance threshold, and channel
// verification rules.
type Policy struct {
	// AcceptThreshold is the score a candidate must strictly exceed to be
	// linked. Low enough to tolerate title rephrasing, high enough to
	// reject unrelated videos from a generic text search.
	AcceptThreshold float64
	// WordOverlapWeight scales the word-overlap ratio term.
	WordOverlapWeight float64
	// ChannelBonus is added when the candidate's channel is verified.
	ChannelBonus float64
	// ChannelIDs is the allow-list of verified channel identifiers.
	ChannelIDs []string
	// ChannelNameMatch is the case-insensitive substring fallback applied
	// to the channel name when ChannelIDs is empty.
	ChannelNameMatch string
}

// DefaultPolicy returns the weights the pipeline ships with.
func DefaultPolicy() Policy {
	return Policy{
		AcceptThreshold:   0.3,
		WordOverlapWeight: 0.3,
		ChannelBonus:      0.2,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.AcceptThreshold <= 0 {
		p.AcceptThreshold = d.AcceptThreshold
	}
	if p.WordOverlapWeight <= 0 {
		p.WordOverlapWeight = d.WordOverlapWeight
	}
	if p.ChannelBonus <= 0 {
		p.ChannelBonus = d.ChannelBonus
	}
	return p
}

// VerifiedChannel reports whether the candidate's publisher identity matches
// the expected content source.
func (p Policy) VerifiedChannel(candidate ytsearch.Candidate) bool {
	if len(p.ChannelIDs) > 0 {
		for _, id := range p.ChannelIDs {
			if id != "" && candidate.ChannelID == id {
				return true
			}
		}
		return false
	}
	match := strings.TrimSpace(p.ChannelNameMatch)
	if match == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidate.Channel), strings.ToLower(match))
}
