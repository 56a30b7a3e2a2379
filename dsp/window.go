package dsp

import "math"

// OddWindowSamples materializes a smoothing-window design length W
// (seconds or Hz) at sampling step (delta or df) as an odd sample count:
// ((round(W/step))/2)*2 + 1. Used for both the temporal-normalization
// running-mean window and the spectral-whitening smoothing window.
func OddWindowSamples(w, step float64) int {
	n := int(math.Round(w / step))
	return (n/2)*2 + 1
}

// CenteredMovingAverage returns the centered moving average of data with the
// given odd window length, clamping the averaging range at the edges rather
// than zero-padding.
func CenteredMovingAverage(data []float64, window int) []float64 {
	n := len(data)
	out := make([]float64, n)
	if window <= 1 {
		copy(out, data)
		return out
	}
	half := window / 2

	var sum float64
	lo, hi := 0, 0
	for i := 0; i < n; i++ {
		wantLo := i - half
		if wantLo < 0 {
			wantLo = 0
		}
		wantHi := i + half
		if wantHi > n-1 {
			wantHi = n - 1
		}
		for lo > wantLo {
			lo--
			sum += data[lo]
		}
		for hi < wantHi {
			hi++
			sum += data[hi]
		}
		for lo < wantLo {
			sum -= data[lo]
			lo++
		}
		for hi > wantHi {
			sum -= data[hi]
			hi--
		}
		out[i] = sum / float64(wantHi-wantLo+1)
	}
	return out
}

// ClampEdges replaces the first and last taperLen samples of data with the
// nearest valid interior sample, suppressing edge artifacts from filtering
// or zero-padded transforms.
func ClampEdges(data []float64, taperLen int) {
	n := len(data)
	if taperLen <= 0 || 2*taperLen >= n {
		return
	}
	head := data[taperLen]
	tail := data[n-1-taperLen]
	for i := 0; i < taperLen; i++ {
		data[i] = head
		data[n-1-i] = tail
	}
}
