// Package manifest owns the course -> unit -> lesson tree and its JSON
// persistence. The manifest file is the authoritative record of lesson media
// links: it is read fully at the start of a run, mutated in memory, and
// written back in a single atomic operation. Load rejects manifests with
// duplicate lesson IDs since every downstream store keys on them.
package manifest
