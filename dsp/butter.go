package dsp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// Band names accepted by ButterworthDesign, mirroring the original tool's
// pre_filter/post_filter band tags.
const (
	BandLowpass  = "lowpass"
	BandHighpass = "highpass"
	BandBandpass = "bandpass"
)

// ButterworthDesign builds the second-order-section cascade for a Butterworth
// filter of the given band, pass frequencies, and sample rate. Order is
// fixed at 2 per the design notes (a single biquad section). There is no
// passes argument — zero-phase application is the caller's concern (see
// ZeroPhaseFilter).
func ButterworthDesign(band string, f1, f2, sampleRate float64) ([]biquad.Coefficients, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("dsp: sample rate must be positive, got %v", sampleRate)
	}
	switch band {
	case BandLowpass:
		return []biquad.Coefficients{rbjLowpass(f1, sampleRate)}, nil
	case BandHighpass:
		return []biquad.Coefficients{rbjHighpass(f1, sampleRate)}, nil
	case BandBandpass:
		if f2 <= f1 {
			return nil, fmt.Errorf("dsp: bandpass requires f2 > f1, got f1=%v f2=%v", f1, f2)
		}
		return []biquad.Coefficients{rbjBandpass(f1, f2, sampleRate)}, nil
	default:
		return nil, fmt.Errorf("dsp: unknown filter band %q", band)
	}
}

// butterworthQ is 1/sqrt(2), the pole Q of a second-order Butterworth
// low/high-pass section.
const butterworthQ = 0.7071067811865476

func rbjLowpass(cutoff, sampleRate float64) biquad.Coefficients {
	w0 := 2.0 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2.0 * butterworthQ)
	cosw0 := math.Cos(w0)

	b0 := (1.0 - cosw0) / 2.0
	b1 := 1.0 - cosw0
	b2 := (1.0 - cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

func rbjHighpass(cutoff, sampleRate float64) biquad.Coefficients {
	w0 := 2.0 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2.0 * butterworthQ)
	cosw0 := math.Cos(w0)

	b0 := (1.0 + cosw0) / 2.0
	b1 := -(1.0 + cosw0)
	b2 := (1.0 + cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

// rbjBandpass builds a constant-skirt-gain bandpass section with passband
// edges f1,f2, using the RBJ cookbook center-frequency/Q form.
func rbjBandpass(f1, f2, sampleRate float64) biquad.Coefficients {
	f0 := math.Sqrt(f1 * f2)
	q := f0 / (f2 - f1)
	w0 := 2.0 * math.Pi * f0 / sampleRate
	alpha := math.Sin(w0) / (2.0 * q)
	cosw0 := math.Cos(w0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

// ZeroPhaseFilter applies the section cascade forward, then again on the
// time-reversed signal and reverses the result back — spec.md's
// passes=2/zero-phase requirement. data is modified in place.
func ZeroPhaseFilter(data []float64, coeffs []biquad.Coefficients) {
	sections := make([]*Biquad, len(coeffs))
	for i, c := range coeffs {
		sections[i] = NewBiquad(c)
	}

	applyCascade(data, sections)

	reverse(data)
	for _, s := range sections {
		s.Reset()
	}
	applyCascade(data, sections)
	reverse(data)
}

func applyCascade(data []float64, sections []*Biquad) {
	for _, s := range sections {
		s.ProcessBuffer(data)
	}
}

func reverse(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}
