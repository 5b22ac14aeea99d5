// Package strategy selects the pool entry a failing record is switched to.
//
// Entries whose type and content equal the live record are never eligible.
// The random strategy picks uniformly among the rest; its source is
// injectable so tests can be deterministic.
package strategy
