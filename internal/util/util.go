// Package util holds small numeric helpers shared across the pipeline
// packages.
package util

import "math"

// RoundHalfAwayFromZero rounds v to the nearest integer, breaking ties away
// from zero. spec.md's bin-index tie-break permits any consistent half-up
// rule since bin width typically exceeds numerical ambiguity; this is that
// rule.
func RoundHalfAwayFromZero(v float64) int {
	return int(math.Round(v))
}
