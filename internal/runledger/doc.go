// Package runledger records update-run history in SQLite: one row per run
// plus one row per lesson resolution. The ledger is observability only; the
// manifest and video cache stay authoritative, so a disabled or failing
// ledger never blocks the pipeline.
package runledger
