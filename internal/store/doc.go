// Package store persists conformance run results in SQLite.
//
// Three tables hold a run:
//   - runs: one row per run, with the final counters
//   - trace_results: one row per trace verdict
//   - step_results: one row per compared step, with both states as
//     canonical ITF JSON and their digests
//
// Rows are ordered by a logical seq from Clock, never by timestamps, so
// listings are deterministic. The store holds results only; the bank state
// itself lives in memory for the duration of one trace.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce referential integrity
package store
