package config

import (
	"github.com/spf13/pflag"
)

// Flags mirrors the original tool's short-option CLI, parsed with pflag the
// way doismellburning-samoyed's kissutil.go builds its flag set.
type Flags struct {
	ConfigPath string

	Input        string
	OutputPrefix string
	Delta        float64
	CutT1        float64
	CutT2        float64
	LogPrefix    string
	Workers      int
}

// RegisterFlags declares the CLI flags on fs and returns the bound Flags.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to the YAML run descriptor")
	fs.StringVarP(&f.Input, "input", "I", "", "override input_pattern")
	fs.StringVarP(&f.OutputPrefix, "output-prefix", "O", "", "override output_prefix")
	fs.Float64VarP(&f.Delta, "delta", "D", 0, "override delta (sample interval, seconds)")
	fs.Float64Var(&f.CutT1, "cut-t1", 0, "override cut window start (seconds)")
	fs.Float64Var(&f.CutT2, "cut-t2", 0, "override cut window end (seconds)")
	fs.StringVar(&f.LogPrefix, "log-prefix", "", "override log_prefix")
	fs.IntVarP(&f.Workers, "workers", "w", 0, "override worker count (0 = GOMAXPROCS)")
	return f
}

// Apply overlays any explicitly-set CLI flags onto cfg, field by field.
func (f *Flags) Apply(cfg *Config) {
	if f.Input != "" {
		cfg.InputPattern = f.Input
	}
	if f.OutputPrefix != "" {
		cfg.OutputPrefix = f.OutputPrefix
	}
	if f.Delta != 0 {
		cfg.Delta = f.Delta
	}
	if f.CutT1 != 0 {
		cfg.Cut.T1 = f.CutT1
	}
	if f.CutT2 != 0 {
		cfg.Cut.T2 = f.CutT2
	}
	if f.LogPrefix != "" {
		cfg.LogPrefix = f.LogPrefix
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
}
