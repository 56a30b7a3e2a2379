package stack

import (
	"math"
	"path/filepath"
	"sort"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/dsp"
	"github.com/geoseis/ccstack/internal/fftplan"
	"github.com/geoseis/ccstack/trace"
)

// GroupResult is C4's output: a dense n x I2 complex matrix of truncated
// spectra plus the per-trace geometry, with skipped traces already
// compacted out.
type GroupResult struct {
	Spectra [][]complex128
	Headers []trace.Header
}

// Stats counts the accepted and skipped traces of one group, surfaced to the
// caller for logging; a skipped trace never aborts a group.
type Stats struct {
	Accepted int
	Skipped  int
}

// PreprocessGroup implements C4: read every file matching group's wildcard
// through store, run the pre-processing/whitening chain, forward-FFT, and
// keep the [0,I2) prefix of each accepted trace's spectrum.
func PreprocessGroup(group trace.Group, store trace.Store, cfg *config.Config, plan *Plan) (*GroupResult, Stats, error) {
	paths, err := filepath.Glob(group.Wildcard())
	if err != nil {
		return nil, Stats{}, err
	}
	sort.Strings(paths)

	fftPlan, err := fftplan.Get(plan.M)
	if err != nil {
		return nil, Stats{}, err
	}

	result := &GroupResult{}
	var stats Stats

	for _, path := range paths {
		samples, hdr, ok := store.Read(path, cfg.Cut.Tmark, cfg.Cut.T1, cfg.Cut.T2)
		if !ok || len(samples) != plan.N || !hasEnergy(samples) || !allFinite(samples) {
			stats.Skipped++
			continue
		}
		if hdr.Delta != 0 && math.Abs(hdr.Delta-cfg.Delta) > 1e-12 {
			stats.Skipped++
			continue
		}

		dat := make([]float64, len(samples))
		copy(dat, samples)

		if cfg.PreDetrend {
			dsp.Detrend(dat)
		}
		if cfg.PreTaperRatio > 1.0e-5 {
			dsp.Taper(dat, cfg.PreTaperRatio)
		}
		if cfg.PreFilter.Enabled {
			coeffs, err := dsp.ButterworthDesign(cfg.PreFilter.Band, cfg.PreFilter.F1, cfg.PreFilter.F2, plan.Rate)
			if err != nil {
				return nil, stats, err
			}
			dsp.ZeroPhaseFilter(dat, coeffs)
		}

		if plan.TemporalNormEnabled {
			normed, err := dsp.TemporalNormalize(dat, plan.Rate, plan.WtSize, cfg.TemporalNorm.F1Env, cfg.TemporalNorm.F2Env, 1.0e-5, plan.TaperLen)
			if err != nil {
				return nil, stats, err
			}
			dat = normed
		}
		if plan.WhitenEnabled {
			whitened, err := dsp.FrequencyWhiten(dat, plan.M, plan.WfSize, 1.0e-5, plan.WI1, plan.WI2, plan.TaperLen)
			if err != nil {
				return nil, stats, err
			}
			dat = whitened
		}

		if !allFinite(dat) || !hasEnergy(dat) {
			stats.Skipped++
			continue
		}

		padded := make([]float64, plan.M)
		copy(padded, dat)
		half := fftplan.HalfSpectrumLen(plan.M)
		spectrum := make([]complex128, half)
		if err := fftPlan.Forward(spectrum, padded); err != nil {
			return nil, stats, err
		}

		row := make([]complex128, plan.I2)
		copy(row, spectrum[:plan.I2])

		result.Spectra = append(result.Spectra, row)
		result.Headers = append(result.Headers, hdr)
		stats.Accepted++
	}

	return result, stats, nil
}

func hasEnergy(data []float64) bool {
	for _, v := range data {
		if v != 0 {
			return true
		}
	}
	return false
}

func allFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
