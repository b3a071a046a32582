// Package sound declares the common audio-thread contract that every
// playable sound (static, streaming) implements, and the small set of
// types (State, Samples) shared between them. The renderer only ever
// talks to sounds through this interface; it never knows whether a given
// sound is backed by an in-memory buffer or a streaming decoder thread.
package sound

import (
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
)

// State is a sound's playback state machine position. Transitions:
// Playing -> Pausing -> Paused -> Playing (resume) -> ...
// Playing/Pausing/Paused -> Stopping -> Stopped (terminal).
// Stopped is the only state Finished() ever reports true for.
type State int

const (
	Playing State = iota
	Pausing
	Paused
	Stopping
	Stopped
)

// String renders the state for logging.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Pausing:
		return "pausing"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Sound is the audio-thread side of a playing sound. The renderer calls
// OnStartProcessing once per frame before Process (draining commands),
// then Process once to get the frame to mix into the sound's track.
// OnClockTick is forwarded to every live sound once per tick produced
// this frame, in the same order clocks themselves process in.
type Sound interface {
	OnStartProcessing()
	Process(dt float64) dsp.Frame
	OnClockTick(t clock.Time)
	Finished() bool
	State() State
}
