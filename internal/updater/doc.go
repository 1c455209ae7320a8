// Package updater walks the course manifest and links video lessons to
// search results.
//
// Per lesson the pipeline is: cache hit -> reuse prior outcome, otherwise
// search "<publisher> <lesson title>", select the best-scoring candidate, and
// persist the outcome to the cache before moving on. The manifest itself is
// written once, atomically, after the walk completes; the per-lesson cache
// writes are what make an interrupted run cheap to repeat.
//
// Processing is deliberately sequential with a fixed pacing delay between
// searches; the provider is rate-limited and this delay is the only
// backpressure mechanism. Search failures degrade to "no match" and are
// cached as such; only manifest I/O aborts a run.
package updater
