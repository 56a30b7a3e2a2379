// Package fftplan caches real-FFT plans by transform length so that the
// signal kernel, the band-index solver, and the post-stack finisher never
// rebuild a plan for a length they have already seen. It tries the fast
// power-of-two plan first and falls back to the safe arbitrary-length plan,
// the same shape analysis/distance.go in the piano-fit tooling uses for its
// spectral and lag FFT caches.
package fftplan

import (
	"errors"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

var cache sync.Map // map[int]*Plan

// Plan is a cached forward/inverse real FFT of a fixed length n, backed by
// whichever of algo-fft's fast or safe planners accepted that length.
type Plan struct {
	mu   sync.Mutex
	n    int
	fast *algofft.FastPlanReal64
	safe *algofft.PlanRealT[float64, complex128]
}

// Get returns the cached plan for transform length n, building and storing
// one on first use.
func Get(n int) (*Plan, error) {
	if v, ok := cache.Load(n); ok {
		return v.(*Plan), nil
	}

	p := &Plan{n: n}

	fast, err := algofft.NewFastPlanReal64(n)
	if err == nil {
		p.fast = fast
	} else if !errors.Is(err, algofft.ErrNotImplemented) {
		// Fast-plan setup failed for a reason other than "unsupported
		// length"; fall through and rely on the safe plan.
	}

	safe, err := algofft.NewPlanReal64(n)
	if err != nil {
		if p.fast == nil {
			return nil, err
		}
	} else {
		p.safe = safe
	}

	actual, _ := cache.LoadOrStore(n, p)
	return actual.(*Plan), nil
}

// Forward computes the half-spectrum (length n/2+1) real FFT of src into dst.
func (p *Plan) Forward(dst []complex128, src []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fast != nil {
		p.fast.Forward(dst, src)
		return nil
	}
	if p.safe != nil {
		return p.safe.Forward(dst, src)
	}
	return errors.New("fftplan: no forward plan available")
}

// Inverse computes the length-n real inverse FFT of the half-spectrum src
// into dst.
func (p *Plan) Inverse(dst []float64, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fast != nil {
		p.fast.Inverse(dst, src)
		return nil
	}
	if p.safe != nil {
		return p.safe.Inverse(dst, src)
	}
	return errors.New("fftplan: no inverse plan available")
}

// HalfSpectrumLen returns the number of complex bins (n/2+1) in the half
// spectrum of a length-n real FFT.
func HalfSpectrumLen(n int) int {
	return n/2 + 1
}
