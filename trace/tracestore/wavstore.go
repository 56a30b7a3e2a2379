// Package tracestore ships the concrete default implementation of
// trace.Store: mono WAV files carrying a JSON sidecar header, so the
// pipeline runs end to end against ordinary test fixtures without a real
// SAC reader. Production deployments are expected to implement trace.Store
// against their own seismogram format.
package tracestore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/geoseis/ccstack/trace"
)

// sidecarHeader is the JSON document read from "<path>.hdr.json" alongside
// each WAV file. Marks maps a tmark code to its offset, in seconds from the
// start of the file; an absent code is treated as offset 0.
type sidecarHeader struct {
	Stlo  float64            `json:"stlo"`
	Stla  float64            `json:"stla"`
	Evlo  float64            `json:"evlo"`
	Evla  float64            `json:"evla"`
	Az    float64            `json:"az"`
	Baz   float64            `json:"baz"`
	Marks map[string]float64 `json:"marks,omitempty"`
}

// Store reads mono WAV files as traces, using the WAV's own sample rate as
// 1/delta and a JSON sidecar for geometry.
type Store struct{}

// New builds a WAV-backed trace store.
func New() *Store { return &Store{} }

// Read implements trace.Store.
func (s *Store) Read(path string, tmark int, t1, t2 float64) ([]float64, trace.Header, bool) {
	samples, sampleRate, err := readWAVMono(path)
	if err != nil {
		return nil, trace.Header{}, false
	}
	hdr, err := readSidecar(path)
	if err != nil {
		return nil, trace.Header{}, false
	}
	delta := 1.0 / float64(sampleRate)
	hdr.Delta = delta

	mark := 0.0
	var sidecar sidecarHeader
	if raw, rerr := os.ReadFile(sidecarPath(path)); rerr == nil {
		_ = json.Unmarshal(raw, &sidecar)
		if v, ok := sidecar.Marks[fmt.Sprintf("%d", tmark)]; ok {
			mark = v
		}
	}

	n := int(math.Round((t2-t1)/delta)) + 1
	i0 := int(math.Round((mark + t1) / delta))
	cut := make([]float64, n)
	for i := 0; i < n; i++ {
		src := i0 + i
		if src < 0 || src >= len(samples) {
			continue
		}
		cut[i] = samples[src]
	}
	return cut, hdr, true
}

func sidecarPath(path string) string {
	return path + ".hdr.json"
}

func readSidecar(path string) (trace.Header, error) {
	raw, err := os.ReadFile(sidecarPath(path))
	if err != nil {
		return trace.Header{}, fmt.Errorf("tracestore: reading sidecar for %s: %w", path, err)
	}
	var sc sidecarHeader
	if err := json.Unmarshal(raw, &sc); err != nil {
		return trace.Header{}, fmt.Errorf("tracestore: decoding sidecar for %s: %w", path, err)
	}
	return trace.Header{
		Stlo: sc.Stlo, Stla: sc.Stla,
		Evlo: sc.Evlo, Evla: sc.Evla,
		Az: sc.Az, Baz: sc.Baz,
	}, nil
}

func readWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("tracestore: invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("tracestore: invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch)
	}
	return out, buf.Format.SampleRate, nil
}

// WriteMono writes a mono WAV file at path, used by the C8 per-bin output
// writer.
func WriteMono(path string, data []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 32, 1, 3)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 32,
	}
	return enc.Write(buf)
}
