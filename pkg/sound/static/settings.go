package static

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// LoopBehavior enables looping and names the position, in seconds, the
// cursor wraps back to once it runs past the end of the data (forward) or
// past that position (reverse).
type LoopBehavior struct {
	StartPosition float64
}

// Settings configures how a StaticSoundData plays: when it starts, where
// its cursor begins, its initial parameter values, and whether/where it
// loops. The zero value does not play usefully: its Panning of 0 is full
// left, its PlaybackRate of 0 never advances the cursor, and its Track
// names a sub-track at the zero key rather than the main track. Default
// returns the usual starting point.
type Settings struct {
	StartTime     tween.StartTime
	StartPosition float64
	Reverse       bool
	Volume        dsp.Volume
	Panning       float64
	PlaybackRate  float64
	LoopBehavior  *LoopBehavior
	Track         trackid.ID
}

// Default returns the zero-friction settings every StaticSoundData starts
// from before With* calls customize it.
func Default() Settings {
	return Settings{
		StartTime:    tween.Immediate(),
		Volume:       dsp.Amplitude(1),
		Panning:      0.5,
		PlaybackRate: 1,
		Track:        trackid.Main(),
	}
}

// WithStartTime sets when playback begins.
func (s Settings) WithStartTime(t tween.StartTime) Settings { s.StartTime = t; return s }

// WithStartPosition sets the initial cursor position in seconds.
func (s Settings) WithStartPosition(seconds float64) Settings { s.StartPosition = seconds; return s }

// WithReverse sets whether the cursor advances backward through the data.
func (s Settings) WithReverse(reverse bool) Settings { s.Reverse = reverse; return s }

// WithVolume sets the initial volume.
func (s Settings) WithVolume(v dsp.Volume) Settings { s.Volume = v; return s }

// WithPanning sets the initial panning (0 full left, 1 full right).
func (s Settings) WithPanning(p float64) Settings { s.Panning = p; return s }

// WithPlaybackRate sets the initial playback speed multiplier.
func (s Settings) WithPlaybackRate(rate float64) Settings { s.PlaybackRate = rate; return s }

// WithLoopBehavior enables looping from startPosition seconds. Pass nil to
// disable looping.
func (s Settings) WithLoopBehavior(lb *LoopBehavior) Settings { s.LoopBehavior = lb; return s }

// WithTrack routes the sound to the named track.
func (s Settings) WithTrack(id trackid.ID) Settings { s.Track = id; return s }
