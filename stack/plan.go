// Package stack implements the per-group preprocessor (C4) and pair
// accumulator (C5): the O(N^2) inner loop that turns a group of per-trace
// spectra into a distance-binned complex stack.
package stack

import (
	"fmt"
	"math"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/dsp"
)

// Plan precomputes everything that depends only on Config, not on any one
// group: FFT sizing, the C3 band-index interval, the whitening speedup
// interval, smoothing-window sample counts, and the distance-bin layout.
type Plan struct {
	N    int     // cut-window sample count
	M    int     // FFT length, 2N
	Rate float64 // 1/delta
	DF   float64 // frequency bin spacing of the length-M FFT

	I1, I2 int // C3 band-index interval, driven by post_filter

	WhitenEnabled bool
	WI1, WI2      int // whitening speedup interval (post_filter extended by wf)
	WfSize        int // spectral smoothing window, in bins

	TemporalNormEnabled bool
	WtSize              int // temporal-normalization window, in samples

	TaperLen int // edge-clamp length after temporal-norm/whitening

	B         int // number of distance bins
	DistStart float64
	DistStep  float64
}

// NewPlan builds a Plan from a validated Config.
func NewPlan(cfg *config.Config) (*Plan, error) {
	n := int(math.Round((cfg.Cut.T2-cfg.Cut.T1)/cfg.Delta)) + 1
	m := n * 2
	rate := 1.0 / cfg.Delta
	df := 1.0 / (cfg.Delta * float64(m))

	i1, i2, err := dsp.GetBound(m, rate, cfg.PostFilter.F1, cfg.PostFilter.F2, cfg.BandCriticalLevel)
	if err != nil {
		return nil, fmt.Errorf("stack: computing band index: %w", err)
	}

	p := &Plan{
		N: n, M: m, Rate: rate, DF: df,
		I1: i1, I2: i2,
		TaperLen: int(float64(n) * cfg.WhitenTaperRatio),
	}

	if cfg.SpectralWhiten.Enabled {
		wi1, wi2, err := dsp.GetBound(m, rate, cfg.PostFilter.F1, cfg.PostFilter.F2+cfg.SpectralWhiten.WfHz, cfg.BandCriticalLevel)
		if err != nil {
			return nil, fmt.Errorf("stack: computing whitening speedup bound: %w", err)
		}
		p.WhitenEnabled = true
		p.WI1, p.WI2 = wi1, wi2
		p.WfSize = dsp.OddWindowSamples(cfg.SpectralWhiten.WfHz, df)
	}

	if cfg.TemporalNorm.Enabled {
		p.TemporalNormEnabled = true
		p.WtSize = dsp.OddWindowSamples(cfg.TemporalNorm.WtSeconds, cfg.Delta)
	}

	p.DistStart = cfg.DistMin
	p.DistStep = cfg.DistStep
	p.B = int(math.Floor((cfg.DistMax-cfg.DistMin)/cfg.DistStep)) + 1

	return p, nil
}
