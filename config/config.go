// Package config loads and validates the single run descriptor the
// cmd/ccstack binary needs: everything spec.md's external-interfaces table
// names, plus the ambient fields (logging, output format, worker count)
// this expansion adds.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterOption is the tagged variant for an optional IIR filter stage
// (pre_filter, post_filter): the pipeline queries Enabled, never a null
// check, per the design notes on sentinel "none" options.
type FilterOption struct {
	Enabled bool    `yaml:"enabled"`
	Band    string  `yaml:"band"` // "lowpass", "highpass", or "bandpass"
	F1      float64 `yaml:"f1"`
	F2      float64 `yaml:"f2"`
}

// TemporalNormOption is the tagged variant for C2's running-mean temporal
// normalization stage.
type TemporalNormOption struct {
	Enabled   bool    `yaml:"enabled"`
	WtSeconds float64 `yaml:"wt_seconds"`
	F1Env     float64 `yaml:"f1_env"`
	F2Env     float64 `yaml:"f2_env"`
}

// SpectralWhitenOption is the tagged variant for C2's spectral whitening
// stage.
type SpectralWhitenOption struct {
	Enabled bool    `yaml:"enabled"`
	WfHz    float64 `yaml:"wf_hz"`
}

// RangeOption is a generic [min,max] tagged variant used for the daz and
// gcd-to-event selection predicates.
type RangeOption struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// Rect is one great-circle-plane-center selection rectangle
// (lo1,lo2,la1,la2); lo1 > lo2 is interpreted as a longitude-wrapping arc.
type Rect struct {
	Lo1 float64 `yaml:"lo1,omitempty"`
	Lo2 float64 `yaml:"lo2,omitempty"`
	La1 float64 `yaml:"la1,omitempty"`
	La2 float64 `yaml:"la2,omitempty"`
}

// Cut is the trace cut window: reference mark code plus window seconds.
type Cut struct {
	Tmark int     `yaml:"tmark"`
	T1    float64 `yaml:"t1"`
	T2    float64 `yaml:"t2"`
}

// PostCutOption is the tagged variant for C7's final time-window trim.
type PostCutOption struct {
	Enabled bool    `yaml:"enabled"`
	T1      float64 `yaml:"t1"`
	T2      float64 `yaml:"t2"`
}

// Config is the single source of run parameters, matching spec.md §6's
// configuration table one field at a time.
type Config struct {
	InputPattern string `yaml:"input_pattern"`
	Cut          Cut    `yaml:"cut"`
	Delta        float64 `yaml:"delta"`

	PreDetrend    bool         `yaml:"pre_detrend"`
	PreTaperRatio float64      `yaml:"pre_taper_ratio"`
	PreFilter     FilterOption `yaml:"pre_filter"`

	TemporalNorm   TemporalNormOption   `yaml:"temporal_norm"`
	SpectralWhiten SpectralWhitenOption `yaml:"spectral_whiten"`

	// BandCriticalLevel is the C3 threshold (fraction of peak response)
	// below which half-spectrum energy is treated as negligible.
	BandCriticalLevel float64 `yaml:"band_critical_level"`
	// WhitenTaperRatio sizes the edge-clamp applied after temporal
	// normalization and frequency whitening, as a fraction of N.
	WhitenTaperRatio float64 `yaml:"whiten_taper_ratio"`

	DistMin  float64 `yaml:"dist_min"`
	DistMax  float64 `yaml:"dist_max"`
	DistStep float64 `yaml:"dist_step"`

	DazRange     RangeOption `yaml:"daz_range"`
	GcdEvRange   RangeOption `yaml:"gcd_ev_range"`
	GCCenterRect []Rect      `yaml:"gc_center_rect"`

	PostFolding    bool          `yaml:"post_folding"`
	PostTaperRatio float64       `yaml:"post_taper_ratio"`
	PostFilter     FilterOption  `yaml:"post_filter"`
	PostNorm       bool          `yaml:"post_norm"`
	PostCut        PostCutOption `yaml:"post_cut"`

	OutputPrefix  string   `yaml:"output_prefix"`
	OutputFormats []string `yaml:"output_formats"`

	LogPrefix string `yaml:"log_prefix"`
	Workers   int    `yaml:"workers"`
}

// SelectionEnabled reports whether any geometric pair-selection predicate is
// configured; when false, C5 accumulates every pair unconditionally.
func (c *Config) SelectionEnabled() bool {
	return c.DazRange.Enabled || c.GcdEvRange.Enabled || len(c.GCCenterRect) > 0
}

// Load reads and parses a YAML run descriptor from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.BandCriticalLevel == 0 {
		c.BandCriticalLevel = 1.0e-3
	}
	if c.WhitenTaperRatio == 0 {
		c.WhitenTaperRatio = 0.005
	}
	if len(c.OutputFormats) == 0 {
		c.OutputFormats = []string{"grouped"}
	}
}

// Validate runs every fatal-at-startup check spec.md §7 requires, before
// any worker touches the filesystem.
func (c *Config) Validate() error {
	if c.InputPattern == "" {
		return fmt.Errorf("config: input_pattern is required")
	}
	if c.Delta <= 0 {
		return fmt.Errorf("config: delta must be positive, got %v", c.Delta)
	}
	if c.Cut.T2 <= c.Cut.T1 {
		return fmt.Errorf("config: cut window must have t2 > t1, got t1=%v t2=%v", c.Cut.T1, c.Cut.T2)
	}
	if c.DistStep <= 0 {
		return fmt.Errorf("config: dist_step must be positive, got %v", c.DistStep)
	}
	if c.DistMax < c.DistMin {
		return fmt.Errorf("config: dist_max must be >= dist_min")
	}
	if c.PreFilter.Enabled {
		if err := validateBand(c.PreFilter.Band, "pre_filter"); err != nil {
			return err
		}
		if err := validateBandEdges(c.PreFilter.Band, c.PreFilter.F1, c.PreFilter.F2, "pre_filter"); err != nil {
			return err
		}
	}
	// post_filter's (f1,f2) always drives the C3 band-index solver, even
	// when .Enabled is false and the post-stack filtering step itself is
	// skipped — the original tool's cc_index_range computation reads
	// post_filter unconditionally.
	if err := validateBand(c.PostFilter.Band, "post_filter"); err != nil {
		return fmt.Errorf("%w (post_filter.f1/f2 always define the working passband, independent of post_filter.enabled)", err)
	}
	if err := validateBandEdges(c.PostFilter.Band, c.PostFilter.F1, c.PostFilter.F2, "post_filter"); err != nil {
		return fmt.Errorf("%w (post_filter.f1/f2 always define the working passband, independent of post_filter.enabled)", err)
	}
	if c.PostCut.Enabled && c.PostCut.T2 <= c.PostCut.T1 {
		return fmt.Errorf("config: post_cut must have t2 > t1")
	}
	for _, r := range c.GCCenterRect {
		if r.La1 > r.La2 {
			return fmt.Errorf("config: gc_center_rect latitude range must have la1 <= la2, got %v..%v", r.La1, r.La2)
		}
	}
	return nil
}

func validateBand(band, field string) error {
	switch band {
	case "lowpass", "highpass", "bandpass":
		return nil
	default:
		return fmt.Errorf("config: %s.band must be one of lowpass/highpass/bandpass, got %q", field, band)
	}
}

// validateBandEdges enforces the same f1 < f2 ordering dsp.ButterworthDesign
// requires for a bandpass section, so a malformed passband fails at startup
// instead of deep inside the first group's preprocessing.
func validateBandEdges(band string, f1, f2 float64, field string) error {
	if band == "bandpass" && f2 <= f1 {
		return fmt.Errorf("config: %s.f2 must be > %s.f1 for band=bandpass, got f1=%v f2=%v", field, field, f1, f2)
	}
	return nil
}
