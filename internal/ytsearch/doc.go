// Package ytsearch wraps yt-dlp's text search as the external video index.
//
// A search issues `yt-dlp --flat-playlist --dump-json ytsearchN:<query>` and
// parses one JSON record per output line. The provider is treated as
// unreliable: individual malformed lines are dropped, and callers are
// expected to degrade a failed or timed-out search to an empty candidate
// list rather than aborting a run.
package ytsearch
