package streaming

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// LoopBehavior enables looping a streaming sound back to startPosition
// (seconds) once the decoder reports end-of-stream, by reseeking the
// decoder rather than any buffer-index arithmetic (the buffer never holds
// the whole source). Reverse playback isn't supported for streaming
// sounds: most Decoder implementations (file/network readers) can't
// produce samples in reverse order without decoding the whole stream
// up front, which defeats the point of streaming at all.
type LoopBehavior struct {
	StartPosition float64
}

// Settings configures how a streaming sound plays.
type Settings struct {
	StartTime     tween.StartTime
	StartPosition float64
	Volume        dsp.Volume
	Panning       float64
	PlaybackRate  float64
	LoopBehavior  *LoopBehavior
	Track         trackid.ID
	// BufferFrames sizes the ring buffer between the decoder goroutine
	// and the audio thread; larger buffers tolerate longer decoder
	// stalls before underrunning at the cost of startup/seek latency.
	BufferFrames int
}

// Default returns the zero-friction settings.
func Default() Settings {
	return Settings{
		StartTime:    tween.Immediate(),
		Volume:       dsp.Amplitude(1),
		Panning:      0.5,
		PlaybackRate: 1,
		Track:        trackid.Main(),
		BufferFrames: 16384,
	}
}

// WithStartTime sets when playback begins.
func (s Settings) WithStartTime(t tween.StartTime) Settings { s.StartTime = t; return s }

// WithStartPosition sets the initial position in seconds.
func (s Settings) WithStartPosition(seconds float64) Settings { s.StartPosition = seconds; return s }

// WithVolume sets the initial volume.
func (s Settings) WithVolume(v dsp.Volume) Settings { s.Volume = v; return s }

// WithPanning sets the initial panning.
func (s Settings) WithPanning(p float64) Settings { s.Panning = p; return s }

// WithPlaybackRate sets the initial playback speed multiplier.
func (s Settings) WithPlaybackRate(rate float64) Settings { s.PlaybackRate = rate; return s }

// WithLoopBehavior enables looping from startPosition seconds, or nil to
// disable looping.
func (s Settings) WithLoopBehavior(lb *LoopBehavior) Settings { s.LoopBehavior = lb; return s }

// WithTrack routes the sound to the named track.
func (s Settings) WithTrack(id trackid.ID) Settings { s.Track = id; return s }

// WithBufferFrames overrides the decoder/audio-thread ring buffer size.
func (s Settings) WithBufferFrames(n int) Settings { s.BufferFrames = n; return s }
