// Package videocache persists prior search outcomes per lesson so repeated
// pipeline runs never re-query the search provider for a lesson that has
// already been resolved.
//
// # Storage
//
// The cache is a JSON object keyed by lesson ID, written atomically after
// every store. An entry whose videoId is null records "searched, no
// acceptable match", a first-class outcome distinct from the key being
// absent ("never searched"). Entries never expire; operators force
// re-resolution by removing an entry or deleting the file.
//
// A corrupt or unreadable cache file degrades to an empty cache with a
// warning. The cache is purely an optimization; the manifest remains the
// source of truth for applied results.
package videocache
