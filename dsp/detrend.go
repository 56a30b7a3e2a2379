package dsp

import "gonum.org/v1/gonum/stat"

// Detrend removes the ordinary-least-squares affine trend from data,
// in place.
func Detrend(data []float64) {
	n := len(data)
	if n < 2 {
		return
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, data, nil, false)
	for i, x := range xs {
		data[i] -= alpha + beta*x
	}
}
