// Package dsp implements the per-trace signal kernel: detrending, Tukey
// tapering, zero-phase Butterworth filtering, running-mean temporal
// normalization, and spectral whitening, plus the band-index solver that
// locates the useful half-spectrum interval for a given pass band.
package dsp

import "github.com/cwbudde/algo-dsp/dsp/filter/biquad"

// Biquad is a second-order IIR section in direct-form II transposed, the
// numerically stable realization spec.md's signal kernel requires. State is
// two registers (s1, s2) instead of the four input/output history samples a
// direct-form I section needs.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	s1, s2     float64
}

// NewBiquad builds a biquad section from a coefficient set designed by one
// of the Butterworth design functions below.
func NewBiquad(c biquad.Coefficients) *Biquad {
	return &Biquad{b0: c.B0, b1: c.B1, b2: c.B2, a1: c.A1, a2: c.A2}
}

// Process runs one sample through the section.
func (b *Biquad) Process(in float64) float64 {
	out := b.b0*in + b.s1
	b.s1 = b.b1*in - b.a1*out + b.s2
	b.s2 = b.b2*in - b.a2*out
	return out
}

// Reset clears the section's state registers.
func (b *Biquad) Reset() {
	b.s1, b.s2 = 0, 0
}

// ProcessBuffer filters data in place through the section, starting from
// whatever state it currently holds.
func (b *Biquad) ProcessBuffer(data []float64) {
	for i, v := range data {
		data[i] = b.Process(v)
	}
}
