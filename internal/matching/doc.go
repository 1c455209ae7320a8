// Package matching scores search candidates against lesson titles and picks
// the best acceptable match.
//
// The score is an unweighted sum of a sequence-similarity ratio between
// normalized titles, a weighted word-overlap term, and a fixed bonus for
// candidates from a verified channel. Scores are compared against a strict
// acceptance threshold; nothing normalizes the sum back to [0,1] because
// only relative magnitude matters downstream.
//
// Channel verification prefers an explicit allow-list of channel IDs; the
// publisher-name substring check is only a fallback for configurations
// without channel IDs, since any channel containing the publisher's name
// would pass it.
package matching
