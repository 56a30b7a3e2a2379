package stack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/trace"
	"github.com/geoseis/ccstack/trace/tracestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sidecarFixture mirrors tracestore's unexported sidecarHeader JSON shape,
// so tests can write valid "<path>.hdr.json" fixtures without depending on
// tracestore's internals.
type sidecarFixture struct {
	Stlo float64 `json:"stlo"`
	Stla float64 `json:"stla"`
	Evlo float64 `json:"evlo"`
	Evla float64 `json:"evla"`
	Az   float64 `json:"az"`
	Baz  float64 `json:"baz"`
}

// fullChainConfig enables every optional C4 stage (detrend, taper, pre-filter,
// temporal normalization, spectral whitening), so PreprocessGroup exercises
// the complete per-trace chain, not just the read/FFT/truncate skeleton.
func fullChainConfig() *config.Config {
	return &config.Config{
		Cut:               config.Cut{T1: 0, T2: 3.1},
		Delta:             0.1,
		PreDetrend:        true,
		PreTaperRatio:     0.05,
		PreFilter:         config.FilterOption{Enabled: true, Band: "bandpass", F1: 0.3, F2: 3.0},
		TemporalNorm:      config.TemporalNormOption{Enabled: true, WtSeconds: 1.0, F1Env: 0.3, F2Env: 3.0},
		SpectralWhiten:    config.SpectralWhitenOption{Enabled: true, WfHz: 0.5},
		BandCriticalLevel: 1.0e-3,
		WhitenTaperRatio:  0.01,
		PostFilter:        config.FilterOption{Band: "bandpass", F1: 0.05, F2: 2.0},
		DistMin:           0,
		DistMax:           10,
		DistStep:          1,
	}
}

func writeWAVFixture(t *testing.T, dir, name string, samples []float64, sampleRate int, hdr trace.Header, withSidecar bool) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f32 := make([]float32, len(samples))
	for i, v := range samples {
		f32[i] = float32(v)
	}
	require.NoError(t, tracestore.WriteMono(path, f32, sampleRate))

	if withSidecar {
		raw, err := json.Marshal(sidecarFixture{
			Stlo: hdr.Stlo, Stla: hdr.Stla,
			Evlo: hdr.Evlo, Evla: hdr.Evla,
			Az: hdr.Az, Baz: hdr.Baz,
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path+".hdr.json", raw, 0o644))
	}
	return path
}

// TestPreprocessGroupFullChainAndSkipPath runs stack.PreprocessGroup itself
// (not the stripped-down test helper used elsewhere in this package) against
// a real tracestore.Store fixture on disk, covering both the full
// detrend/taper/pre-filter/temporal-norm/whiten chain and a skip path (a
// file with no geometry sidecar, which Store.Read reports as unreadable).
func TestPreprocessGroupFullChainAndSkipPath(t *testing.T) {
	cfg := fullChainConfig()
	plan, err := NewPlan(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	sampleRate := int(plan.Rate)

	good := whiteNoise(plan.N, 11)
	writeWAVFixture(t, dir, "good.wav", good, sampleRate, trace.Header{Stlo: 1, Stla: 2, Evlo: 0, Evla: -5}, true)

	// No sidecar: Store.Read must report ok=false, so this file is skipped
	// rather than aborting the group.
	writeWAVFixture(t, dir, "nosidecar.wav", whiteNoise(plan.N, 19), sampleRate, trace.Header{}, false)

	store := tracestore.New()
	group := trace.Group{Dir: dir, Pattern: "*.wav"}

	result, stats, err := PreprocessGroup(group, store, cfg, plan)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, result.Spectra, 1)
	require.Len(t, result.Headers, 1)

	assert.Equal(t, 1.0, result.Headers[0].Stlo)
	assert.Len(t, result.Spectra[0], plan.I2)
	assert.True(t, allFinite(complexMagnitudes(result.Spectra[0])))
}

func complexMagnitudes(spec []complex128) []float64 {
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return out
}
