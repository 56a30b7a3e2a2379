package stack

import (
	"math"
	"math/cmplx"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/geomath"
	"github.com/geoseis/ccstack/internal/util"
	"github.com/geoseis/ccstack/trace"
)

// selection default pass-through ranges, used whenever the selection
// predicate set is enabled (any of daz/gcd/rect configured) but a given
// individual predicate is not — matching the original tool's defaulting of
// unspecified selection criteria to wide-open bounds rather than disabling
// the whole selection pass.
const (
	defaultDazMin, defaultDazMax = -0.1, 90.1
	defaultGcdMin, defaultGcdMax = -0.1, 90.1

	// stationCoincidentTol is the tolerance the rect-selection center
	// computation uses to decide whether two stations of a pair are the
	// same station (and so must fall back to the event point as the second
	// plane-defining point).
	stationCoincidentTol = 1.0e-3
)

var defaultRect = config.Rect{Lo1: -9999, Lo2: 9999, La1: -9999, La2: 9999}

// AccumulatePairs implements C5: the O(n(n+1)/2) double loop over one
// group's traces, accumulating conj(G[i])*G[j] into the distance-bin row
// selected by each pair's inter-station distance, subject to the
// configured selection predicates.
func AccumulatePairs(result *GroupResult, cfg *config.Config, plan *Plan, m *Matrix) {
	n := len(result.Spectra)
	selection := cfg.SelectionEnabled()

	distMin := m.Plan.DistStart
	distMax := distMin + float64(m.Plan.B-1)*m.Plan.DistStep
	distLo := distMin - m.Plan.DistStep*0.5
	distHi := distMax + m.Plan.DistStep*0.5

	for i := 0; i < n; i++ {
		hi := result.Headers[i]
		for j := i; j < n; j++ {
			hj := result.Headers[j]

			d := geomath.Haversine(hi.Stlo, hi.Stla, hj.Stlo, hj.Stla)

			if selection {
				if d < distLo || d > distHi {
					continue
				}
				if !passRectSelection(cfg, hi, hj, i == j) {
					continue
				}
				if !passDazSelection(cfg, hi, hj) {
					continue
				}
				if !passGcdSelection(cfg, hi, hj) {
					continue
				}
			}

			b := util.RoundHalfAwayFromZero((d - m.Plan.DistStart) / m.Plan.DistStep)
			if b < 0 || b >= m.Plan.B {
				continue
			}

			row := m.Spec[b]
			si, sj := result.Spectra[i], result.Spectra[j]
			for k := plan.I1; k < plan.I2; k++ {
				row[k] += cmplx.Conj(si[k]) * sj[k]
			}
			m.Count[b]++
		}
	}
}

func stationsCoincide(a, b trace.Header) bool {
	return math.Abs(a.Stlo-b.Stlo) < stationCoincidentTol && math.Abs(a.Stla-b.Stla) < stationCoincidentTol
}

func passRectSelection(cfg *config.Config, hi, hj trace.Header, samePair bool) bool {
	rects := cfg.GCCenterRect
	if len(rects) == 0 {
		rects = []config.Rect{defaultRect}
	}

	var center geomath.Point
	if samePair || stationsCoincide(hi, hj) {
		center, _ = geomath.GCPCenter(hi.Evlo, hi.Evla, hi.Stlo, hi.Stla)
	} else {
		center, _ = geomath.GCPCenter(hi.Stlo, hi.Stla, hj.Stlo, hj.Stla)
	}

	for _, r := range rects {
		if !(center.Lat >= r.La1 && center.Lat <= r.La2) {
			continue
		}
		if r.Lo1 < r.Lo2 {
			if center.Lon >= r.Lo1 && center.Lon <= r.Lo2 {
				return true
			}
		} else {
			// Longitude-wrapping rectangle: accept the complementary arc,
			// consistent with the non-wrap case above (spec.md's
			// resolution of the ambiguous source wrap branch).
			if center.Lon >= r.Lo1 || center.Lon <= r.Lo2 {
				return true
			}
		}
	}
	return false
}

func passDazSelection(cfg *config.Config, hi, hj trace.Header) bool {
	dazMin, dazMax := defaultDazMin, defaultDazMax
	if cfg.DazRange.Enabled {
		dazMin, dazMax = cfg.DazRange.Min, cfg.DazRange.Max
	}

	daz := math.Mod(hi.Az-hj.Az, 360.0)
	if daz < 0 {
		daz += 360.0
	}
	if daz > 180.0 {
		daz = 360.0 - daz
	}
	if daz > 90.0 {
		daz = 90.0 - daz
	}
	return daz >= dazMin && daz <= dazMax
}

func passGcdSelection(cfg *config.Config, hi, hj trace.Header) bool {
	gcdMin, gcdMax := defaultGcdMin, defaultGcdMax
	if cfg.GcdEvRange.Enabled {
		gcdMin, gcdMax = cfg.GcdEvRange.Min, cfg.GcdEvRange.Max
	}

	gcd := math.Abs(geomath.PointToGCP(hi.Evlo, hi.Evla, hi.Stlo, hi.Stla, hj.Stlo, hj.Stla))
	return gcd >= gcdMin && gcd <= gcdMax
}
