package dsp

import (
	"math/cmplx"

	"github.com/geoseis/ccstack/internal/fftplan"
)

// SmoothedMagnitude returns the centered moving average of |spec| over an
// odd window of wfSize bins, the smoothed amplitude envelope frequency_whiten
// divides by.
func SmoothedMagnitude(spec []complex128, wfSize int) []float64 {
	mag := make([]float64, len(spec))
	for i, s := range spec {
		mag[i] = cmplx.Abs(s)
	}
	return CenteredMovingAverage(mag, wfSize)
}

// FrequencyWhiten forward-transforms dat (zero-padded to fftSize), divides
// the half-spectrum by its own smoothed magnitude on [k1,k2) only (zeroing
// everything outside that interval), inverse-transforms, and truncates back
// to len(dat) samples. Edge samples of the returned series are clamped over
// taperLen.
func FrequencyWhiten(dat []float64, fftSize, wfSize int, eps float64, k1, k2, taperLen int) ([]float64, error) {
	plan, err := fftplan.Get(fftSize)
	if err != nil {
		return nil, err
	}

	padded := make([]float64, fftSize)
	copy(padded, dat)

	half := fftplan.HalfSpectrumLen(fftSize)
	spec := make([]complex128, half)
	if err := plan.Forward(spec, padded); err != nil {
		return nil, err
	}

	mag := SmoothedMagnitude(spec, wfSize)

	if k1 < 0 {
		k1 = 0
	}
	if k2 > half {
		k2 = half
	}
	whitened := make([]complex128, half)
	for k := k1; k < k2; k++ {
		a := mag[k]
		if a < eps {
			a = eps
		}
		whitened[k] = spec[k] / complex(a, 0)
	}

	out := make([]float64, fftSize)
	if err := plan.Inverse(out, whitened); err != nil {
		return nil, err
	}

	result := make([]float64, len(dat))
	copy(result, out[:len(dat)])
	ClampEdges(result, taperLen)
	return result, nil
}
