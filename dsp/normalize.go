package dsp

import "math"

// TemporalNormalize divides dat by a smoothed envelope of its own band-
// limited amplitude: band-pass a copy to [f1Env,f2Env], take the absolute
// value, and centered-moving-average it over wtSize samples (forced odd by
// OddWindowSamples at the call site). The envelope's edge samples are
// clamped over taperLen before the division to avoid edge artifacts, and
// the divisor is floored at eps.
func TemporalNormalize(dat []float64, sampleRate float64, wtSize int, f1Env, f2Env, eps float64, taperLen int) ([]float64, error) {
	envSrc := make([]float64, len(dat))
	copy(envSrc, dat)

	coeffs, err := ButterworthDesign(BandBandpass, f1Env, f2Env, sampleRate)
	if err != nil {
		return nil, err
	}
	ZeroPhaseFilter(envSrc, coeffs)

	for i, v := range envSrc {
		envSrc[i] = math.Abs(v)
	}

	envelope := CenteredMovingAverage(envSrc, wtSize)
	ClampEdges(envelope, taperLen)

	out := make([]float64, len(dat))
	for i, v := range dat {
		e := envelope[i]
		if e < eps {
			e = eps
		}
		out[i] = v / e
	}
	return out, nil
}
