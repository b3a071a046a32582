// Package streaming implements sounds decoded incrementally from a
// background worker goroutine rather than held fully in memory: the right
// choice for music and other long-running audio where loading the whole
// buffer up front would be wasteful. The audio thread never decodes
// anything itself; it only ever drains the ring buffer the decoder
// goroutine fills, falling back to silence on underrun.
package streaming

import "github.com/gosound/resonance/pkg/dsp"

// Decoder abstracts a source of sequential audio frames: a file reader, a
// network stream, a synthesized source. Decode and Seek are called only
// from the decoder goroutine, never the audio thread.
type Decoder interface {
	// SampleRate reports the decoder's native sample rate.
	SampleRate() uint32
	// Decode fills buf with the next frames and returns how many it
	// wrote. A short read (n < len(buf)) with a nil error means "no more
	// data available right now, try again"; io.EOF means the source is
	// exhausted.
	Decode(buf []dsp.Frame) (n int, err error)
	// Seek repositions the decoder to the given position in seconds.
	Seek(positionSeconds float64) error
	// Close releases any resources the decoder holds (file handles,
	// network connections).
	Close() error
}
