// Package trace defines the data model the stack pipeline reads through:
// per-recording geometry headers and the Store contract a concrete reader
// (SAC, WAV, or otherwise) must implement.
package trace

// Header carries the per-recording geometry and sampling metadata the
// pipeline needs: receiver and event coordinates, azimuth/back-azimuth, and
// the sample interval actually present in the file.
type Header struct {
	Stlo, Stla float64
	Evlo, Evla float64
	Az, Baz    float64
	Delta      float64
}

// Store is the trace store contract: read one recording, cut to
// [tmark+t1, tmark+t2], and report whether the read succeeded. A false ok
// (or a returned samples slice that is empty, all-zero, or contains a
// non-finite value) is treated by the caller as a dropped trace, never as a
// fatal error.
type Store interface {
	Read(path string, tmark int, t1, t2 float64) (samples []float64, hdr Header, ok bool)
}
