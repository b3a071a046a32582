package static

import (
	"time"

	"github.com/gosound/resonance/pkg/dsp"
)

// Data is an immutable, fully-decoded sample buffer plus the settings a
// StaticSound built from it starts with. It holds no control/audio-thread
// split of its own: Samples is read-only and safe to share across however
// many StaticSound instances are played from it.
type Data struct {
	SampleRate uint32
	Samples    Samples
	Settings   Settings
}

// NewData builds a Data with Default settings, ready for With*-style
// customization before Play.
func NewData(sampleRate uint32, samples Samples) Data {
	return Data{SampleRate: sampleRate, Samples: samples, Settings: Default()}
}

// WithSettings returns a copy of d with settings replacing its current
// Settings entirely.
func (d Data) WithSettings(settings Settings) Data {
	d.Settings = settings
	return d
}

// Duration returns the total playable length of the buffer.
func (d Data) Duration() time.Duration {
	if d.SampleRate == 0 {
		return 0
	}
	seconds := float64(d.Samples.Len()) / float64(d.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// DurationSeconds is Duration expressed as a float64, the unit every
// position/start_position/seek argument in this package uses.
func (d Data) DurationSeconds() float64 {
	if d.SampleRate == 0 {
		return 0
	}
	return float64(d.Samples.Len()) / float64(d.SampleRate)
}

// FrameAtIndex returns the sample frame at the given integer index, or
// dsp.Zero if out of range.
func (d Data) FrameAtIndex(index int) dsp.Frame {
	return d.Samples.At(index)
}

// FrameAtPosition returns a cubically-interpolated frame at an arbitrary
// position in seconds, for instant scrubbing/previewing outside of normal
// playback. It does not loop or reverse; callers past the end get silence.
func (d Data) FrameAtPosition(positionSeconds float64) dsp.Frame {
	if d.SampleRate == 0 {
		return dsp.Zero
	}
	pos := positionSeconds * float64(d.SampleRate)
	index := int(pos)
	frac := float32(pos - float64(index))
	return dsp.InterpolateFrame(
		d.Samples.At(index-1),
		d.Samples.At(index),
		d.Samples.At(index+1),
		d.Samples.At(index+2),
		frac,
	)
}
