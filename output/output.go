// Package output implements C8: serializing a finished stack (finisher.Result)
// to disk, either as one grouped dataset file or as one time-series file per
// distance bin, per the output_formats config list.
package output

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/finisher"
	"github.com/geoseis/ccstack/trace/tracestore"
)

const groupedMagic = "CCS1"

// groupedHeader is the JSON metadata block written at the front of the
// grouped dataset file, carrying the lag-axis attributes the original tool
// stores as HDF5 attributes cc_t0/cc_t1/delta — kept here under unambiguous
// field names and mapped to those attribute names by the JSON tags:
// LagStart is written as cc_t0, LagEnd as cc_t1.
type groupedHeader struct {
	LagStart  float64 `json:"cc_t0"`
	LagEnd    float64 `json:"cc_t1"`
	Delta     float64 `json:"delta"`
	Bins      int     `json:"bins"`
	Samples   int     `json:"samples"`
	DistStart float64 `json:"dist_start"`
	DistStep  float64 `json:"dist_step"`
}

// WriteGrouped writes one dataset file holding the full ccstack matrix,
// stack_count vector, and dist vector, the grouped analogue of the original
// tool's single HDF5 container.
func WriteGrouped(prefix string, res *finisher.Result) error {
	path := prefix + ".ccstack.bin"
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	samples := 0
	if len(res.Rows) > 0 {
		samples = len(res.Rows[0])
	}
	hdr := groupedHeader{
		LagStart: res.T0, LagEnd: res.T1, Delta: res.Delta,
		Bins: len(res.Rows), Samples: samples,
		DistStart: res.DistStart, DistStep: res.DistStep,
	}
	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("output: encoding header: %w", err)
	}

	if _, err := f.WriteString(groupedMagic); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, int32(len(hdrJSON))); err != nil {
		return err
	}
	if _, err := f.Write(hdrJSON); err != nil {
		return err
	}

	for _, row := range res.Rows {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("output: writing ccstack row: %w", err)
		}
	}
	if err := binary.Write(f, binary.LittleEndian, res.Count); err != nil {
		return fmt.Errorf("output: writing stack_count: %w", err)
	}
	for i := range res.Rows {
		dist := res.DistStart + float64(i)*res.DistStep
		if err := binary.Write(f, binary.LittleEndian, dist); err != nil {
			return fmt.Errorf("output: writing dist: %w", err)
		}
	}
	return nil
}

// binSidecar is the per-bin JSON sidecar written next to each time-series
// file: the lag-axis start and pair count that a SAC header's start time and
// user-defined slot would carry in the original tool's output.
type binSidecar struct {
	LagStart float64 `json:"cc_t0"`
	Delta    float64 `json:"delta"`
	Count    int32   `json:"count"`
	Dist     float64 `json:"dist"`
}

// WritePerBin writes one time-series file per distance bin, empty bins
// included, named
// "<prefix>_<dist:05.1f>_.wav", alongside a JSON sidecar carrying the lag
// start, delta, and pair count.
func WritePerBin(prefix string, res *finisher.Result) error {
	if res.Delta <= 0 {
		return fmt.Errorf("output: delta must be positive, got %v", res.Delta)
	}
	sampleRate := int(math.Round(1.0 / res.Delta))

	for i, row := range res.Rows {
		dist := res.DistStart + float64(i)*res.DistStep
		base := fmt.Sprintf("%s_%05.1f_", prefix, dist)

		f32 := make([]float32, len(row))
		for k, v := range row {
			f32[k] = float32(v)
		}
		if err := tracestore.WriteMono(base+".wav", f32, sampleRate); err != nil {
			return fmt.Errorf("output: writing bin %d: %w", i, err)
		}

		sc := binSidecar{LagStart: res.T0, Delta: res.Delta, Count: res.Count[i], Dist: dist}
		raw, err := json.Marshal(sc)
		if err != nil {
			return fmt.Errorf("output: encoding sidecar for bin %d: %w", i, err)
		}
		if err := os.WriteFile(base+".wav.hdr.json", raw, 0o644); err != nil {
			return fmt.Errorf("output: writing sidecar for bin %d: %w", i, err)
		}
	}
	return nil
}

// Write dispatches to WriteGrouped and/or WritePerBin per cfg.OutputFormats.
func Write(cfg *config.Config, res *finisher.Result) error {
	for _, format := range cfg.OutputFormats {
		switch format {
		case "grouped":
			if err := WriteGrouped(cfg.OutputPrefix, res); err != nil {
				return err
			}
		case "per_bin":
			if err := WritePerBin(cfg.OutputPrefix, res); err != nil {
				return err
			}
		default:
			return fmt.Errorf("output: unknown output format %q", format)
		}
	}
	return nil
}
