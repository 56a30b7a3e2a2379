package stack

import (
	"math"
	"testing"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/internal/fftplan"
	"github.com/geoseis/ccstack/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves fixed samples/headers keyed by path, for tests that don't
// need real files on disk.
type fakeStore struct {
	samples map[string][]float64
	headers map[string]trace.Header
}

func (s *fakeStore) Read(path string, tmark int, t1, t2 float64) ([]float64, trace.Header, bool) {
	samples, ok := s.samples[path]
	if !ok {
		return nil, trace.Header{}, false
	}
	return samples, s.headers[path], true
}

func baseConfig(distMax, distStep float64) *config.Config {
	return &config.Config{
		Delta:             0.1,
		Cut:               config.Cut{T1: 0, T2: 10.1},
		BandCriticalLevel: 1.0e-3,
		WhitenTaperRatio:  0.005,
		PostFilter:        config.FilterOption{Band: "bandpass", F1: 0.05, F2: 2.0},
		DistMin:           0,
		DistMax:           distMax,
		DistStep:          distStep,
	}
}

func whiteNoise(n int, seed float64) []float64 {
	out := make([]float64, n)
	x := seed
	for i := range out {
		x = math.Mod(x*1103515245+12345, 2147483648)
		out[i] = (x/2147483648.0)*2 - 1
	}
	return out
}

func TestS1SingleTraceSingleGroup(t *testing.T) {
	cfg := baseConfig(15, 1)
	plan, err := NewPlan(cfg)
	require.NoError(t, err)

	samples := whiteNoise(plan.N, 7)
	store := &fakeStore{
		samples: map[string][]float64{"a.wav": samples},
		headers: map[string]trace.Header{"a.wav": {Stlo: 0, Stla: 0, Evlo: 0, Evla: 0}},
	}

	result := &GroupResult{}
	r, stats, err := preprocessSingle(store, cfg, plan, "a.wav")
	require.NoError(t, err)
	require.Equal(t, 1, stats.Accepted)
	result.Spectra = append(result.Spectra, r.spec)
	result.Headers = append(result.Headers, r.hdr)

	m := NewMatrix(plan)
	AccumulatePairs(result, cfg, plan, m)

	assert.Equal(t, int32(1), m.Count[0])
	for b := 1; b < plan.B; b++ {
		assert.Equal(t, int32(0), m.Count[b])
	}
}

func TestS3DistanceBinningDropsOutOfRangePair(t *testing.T) {
	cfg := baseConfig(15, 1)
	plan, err := NewPlan(cfg)
	require.NoError(t, err)

	n := plan.N
	stations := []struct {
		path     string
		lon, lat float64
	}{
		{"s0.wav", 0, 0},
		{"s10.wav", 10, 0},
		{"s20.wav", 20, 0},
	}

	store := &fakeStore{samples: map[string][]float64{}, headers: map[string]trace.Header{}}
	result := &GroupResult{}
	for i, s := range stations {
		store.samples[s.path] = whiteNoise(n, float64(i+1))
		store.headers[s.path] = trace.Header{Stlo: s.lon, Stla: s.lat, Evlo: 0, Evla: -5}
		r, stats, err := preprocessSingle(store, cfg, plan, s.path)
		require.NoError(t, err)
		require.Equal(t, 1, stats.Accepted)
		result.Spectra = append(result.Spectra, r.spec)
		result.Headers = append(result.Headers, r.hdr)
	}

	m := NewMatrix(plan)
	AccumulatePairs(result, cfg, plan, m)

	var total int32
	for _, c := range m.Count {
		total += c
	}
	// 3 self-pairs (bin 0) + (0,10) + (10,20) = 5; (0,20) at d=20 falls
	// outside [0,16) and is silently dropped.
	assert.EqualValues(t, 5, total)
	assert.EqualValues(t, 3, m.Count[0])
	assert.EqualValues(t, 2, m.Count[10])
}

// TestInvariant1PairAccounting checks that with selection disabled, every
// attempted pair either lands in a bin or is dropped for being out of the
// bin range — sum(stack_count) == n(n+1)/2 - rejected_pairs.
func TestInvariant1PairAccounting(t *testing.T) {
	cfg := baseConfig(5, 1) // narrow bin range forces some drops
	plan, err := NewPlan(cfg)
	require.NoError(t, err)

	n := plan.N
	lons := []float64{0, 1, 2, 8, 9}
	store := &fakeStore{samples: map[string][]float64{}, headers: map[string]trace.Header{}}
	result := &GroupResult{}
	for i, lon := range lons {
		path := string(rune('a' + i))
		store.samples[path] = whiteNoise(n, float64(i+3))
		store.headers[path] = trace.Header{Stlo: lon, Stla: 0, Evlo: 0, Evla: -5}
		r, _, err := preprocessSingle(store, cfg, plan, path)
		require.NoError(t, err)
		result.Spectra = append(result.Spectra, r.spec)
		result.Headers = append(result.Headers, r.hdr)
	}

	m := NewMatrix(plan)
	AccumulatePairs(result, cfg, plan, m)

	var total int32
	for _, c := range m.Count {
		total += c
	}

	rejected := 0
	count := len(lons)
	for i := 0; i < count; i++ {
		for j := i; j < count; j++ {
			d := math.Abs(lons[i] - lons[j])
			b := int(math.Round((d - plan.DistStart) / plan.DistStep))
			if b < 0 || b >= plan.B {
				rejected++
			}
		}
	}
	expected := count*(count+1)/2 - rejected
	assert.EqualValues(t, expected, total)
}

// preprocessSingle is a stripped-down stand-in for PreprocessGroup's
// per-trace chain: it reads one file through store, zero-pads it to M,
// forward-FFTs it, and keeps the [0,I2) prefix. It runs none of the optional
// stages and none of the skip checks.
type singleResult struct {
	spec []complex128
	hdr  trace.Header
}

func preprocessSingle(store trace.Store, cfg *config.Config, plan *Plan, path string) (singleResult, statsAlias, error) {
	samples, hdr, ok := store.Read(path, cfg.Cut.Tmark, cfg.Cut.T1, cfg.Cut.T2)
	if !ok {
		return singleResult{}, statsAlias{}, nil
	}
	dat := make([]float64, len(samples))
	copy(dat, samples)

	fftLen := plan.M
	padded := make([]float64, fftLen)
	copy(padded, dat)

	half := fftplan.HalfSpectrumLen(fftLen)
	spec := make([]complex128, half)

	plan2, err := fftplan.Get(fftLen)
	if err != nil {
		return singleResult{}, statsAlias{}, err
	}
	if err := plan2.Forward(spec, padded); err != nil {
		return singleResult{}, statsAlias{}, err
	}

	row := make([]complex128, plan.I2)
	copy(row, spec[:plan.I2])
	return singleResult{spec: row, hdr: hdr}, statsAlias{Accepted: 1}, nil
}

type statsAlias = Stats
