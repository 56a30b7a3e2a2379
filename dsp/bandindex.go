package dsp

import (
	"math/cmplx"

	"github.com/geoseis/ccstack/internal/fftplan"
)

// GetBound computes the half-spectrum index interval [i1,i2) outside of
// which a bandpass(f1,f2) filter's response falls below criticalLevel of
// its peak. fftSize is the transform length M; the returned i2 is clipped
// to M/2+1.
func GetBound(fftSize int, sampleRate, f1, f2, criticalLevel float64) (i1, i2 int, err error) {
	impulse := make([]float64, fftSize)
	impulse[0] = 1.0

	coeffs, err := ButterworthDesign(BandBandpass, f1, f2, sampleRate)
	if err != nil {
		return 0, 0, err
	}
	ZeroPhaseFilter(impulse, coeffs)

	plan, err := fftplan.Get(fftSize)
	if err != nil {
		return 0, 0, err
	}
	half := fftplan.HalfSpectrumLen(fftSize)
	spec := make([]complex128, half)
	if err := plan.Forward(spec, impulse); err != nil {
		return 0, 0, err
	}

	amp := make([]float64, half)
	maxAmp := 0.0
	for i, s := range spec {
		a := cmplx.Abs(s)
		amp[i] = a
		if a > maxAmp {
			maxAmp = a
		}
	}
	c := maxAmp * criticalLevel

	i1 = 0
	found := false
	for i, a := range amp {
		if a > c {
			i1 = i
			found = true
			break
		}
	}
	if !found {
		i1 = 0
	}

	i2 = half
	for i := i1; i < half; i++ {
		if amp[i] <= c {
			i2 = i
			break
		}
	}
	if i2 > half {
		i2 = half
	}
	return i1, i2, nil
}
