// Package store implements the per-run relational scratch space on SQLite.
//
// The store exists to make the filtering step a set of simple indexed
// queries rather than nested loops over API responses: tempo-range
// selection, exclusion membership, and deterministic discovery ordering.
// It is created at the start of a run (usually at ":memory:"), populated by
// the collector, queried by the filter engine, and discarded when the run
// ends. It is never shared between concurrent invocations.
package store
