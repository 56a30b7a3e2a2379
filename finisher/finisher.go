// Package finisher implements C7, the post-stack time-domain assembly: per-
// row inverse FFT, lag-centering roll, optional folding, optional zero-phase
// post-filter, optional per-row peak normalization, and optional time-
// window cut. Only ever run on the reduction coordinator.
package finisher

import (
	"fmt"
	"math"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/dsp"
	"github.com/geoseis/ccstack/internal/fftplan"
	"github.com/geoseis/ccstack/stack"
)

// Result is the finished lag-domain distance matrix, ready for C8.
type Result struct {
	Rows      [][]float64
	Count     []int32
	Delta     float64
	T0, T1    float64 // inclusive lag-axis bounds, in seconds
	DistStart float64
	DistStep  float64
}

// Finish runs C7 over the globally reduced stack matrix m.
func Finish(m *stack.Matrix, cfg *config.Config, delta float64) (*Result, error) {
	plan := m.Plan
	fftPlan, err := fftplan.Get(plan.M)
	if err != nil {
		return nil, fmt.Errorf("finisher: %w", err)
	}
	half := fftplan.HalfSpectrumLen(plan.M)
	rollsize := plan.N - 1

	rows := make([][]float64, plan.B)
	for b := 0; b < plan.B; b++ {
		spec := make([]complex128, half)
		copy(spec, m.Spec[b])
		spec[0] = 0 // zero the DC bin of every row

		x := make([]float64, plan.M)
		if err := fftPlan.Inverse(x, spec); err != nil {
			return nil, fmt.Errorf("finisher: inverse FFT of bin %d: %w", b, err)
		}

		rolled := rollRight(x, rollsize)
		rows[b] = rolled[:len(rolled)-1] // length M-1
	}

	t0, t1 := -float64(rollsize)*delta, float64(rollsize)*delta

	if cfg.PostFolding {
		for b := range rows {
			addReverse(rows[b])
			rows[b] = rows[b][rollsize:]
		}
		t0 = 0
	}

	if cfg.PostFilter.Enabled {
		coeffs, err := dsp.ButterworthDesign(cfg.PostFilter.Band, cfg.PostFilter.F1, cfg.PostFilter.F2, 1.0/delta)
		if err != nil {
			return nil, fmt.Errorf("finisher: %w", err)
		}
		for b := range rows {
			// The window is applied first, then the filter.
			dsp.Taper(rows[b], cfg.PostTaperRatio)
			dsp.ZeroPhaseFilter(rows[b], coeffs)
		}
	}

	if cfg.PostNorm {
		for b := range rows {
			v := maxOf(rows[b])
			if v > 0 {
				inv := 1.0 / v
				for i := range rows[b] {
					rows[b][i] *= inv
				}
			}
		}
	}

	if cfg.PostCut.Enabled {
		postT1, postT2 := cfg.PostCut.T1, cfg.PostCut.T2
		if postT1 < t0 {
			postT1 = t0
		}
		if postT2 > t1 {
			postT2 = t1
		}
		i1 := int(math.Round((postT1 - t0) / delta))
		i2 := int(math.Round((postT2-t0)/delta)) + 1
		newT0 := t0 + float64(i1)*delta
		for b := range rows {
			rows[b] = rows[b][i1:i2]
		}
		t0 = newT0
		t1 = t0 + float64(i2-i1-1)*delta
	}

	return &Result{
		Rows:      rows,
		Count:     append([]int32(nil), m.Count...),
		Delta:     delta,
		T0:        t0,
		T1:        t1,
		DistStart: plan.DistStart,
		DistStep:  plan.DistStep,
	}, nil
}

// rollRight returns a copy of x circularly shifted right by n positions,
// matching numpy.roll(x, n).
func rollRight(x []float64, n int) []float64 {
	l := len(x)
	n = ((n % l) + l) % l
	out := make([]float64, l)
	for i := range x {
		out[(i+n)%l] = x[i]
	}
	return out
}

// addReverse adds the time-reversal of row onto itself, in place.
func addReverse(row []float64) {
	n := len(row)
	rev := make([]float64, n)
	for i, v := range row {
		rev[n-1-i] = v
	}
	for i := range row {
		row[i] += rev[i]
	}
}

func maxOf(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	m := row[0]
	for _, v := range row[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
