// Package volumecontrol implements a track effect that scales its input
// by a tweenable volume, grounded on kira's
// track/effect/volume_control/builder.rs.
package volumecontrol

import (
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/tween"
)

const commandCapacity = 8

// CommandKind discriminates Command variants.
type CommandKind int

// SetVolume is the only command this effect accepts.
const SetVolume CommandKind = iota

// Command is a control-thread instruction queued for the audio thread.
type Command struct {
	Kind   CommandKind
	Volume dsp.Volume
	Tween  tween.Tween
}

// Effect scales its input frame by a tweenable volume.
type Effect struct {
	commands ring.Consumer[Command]
	volume   *tween.Tweener[dsp.Volume]
}

// Builder configures a VolumeControl effect before it's added to a track.
type Builder struct {
	Volume dsp.Volume
}

// Default returns a Builder starting at full volume (0 dB).
func Default() Builder { return Builder{Volume: dsp.Decibels(0)} }

// Build constructs the audio-thread Effect plus its control-thread Handle.
func (b Builder) Build() (*Effect, Handle) {
	prod, cons := ring.New[Command](commandCapacity)
	e := &Effect{
		commands: cons,
		volume:   tween.New(b.Volume, tween.VolumeDecibels),
	}
	return e, Handle{commands: prod}
}

// Init is a no-op; this effect has no sample-rate-dependent state.
func (e *Effect) Init(sampleRate uint32) {}

// OnStartProcessing drains queued commands before this frame's Process.
func (e *Effect) OnStartProcessing() {
	for {
		cmd, ok := e.commands.Pop()
		if !ok {
			return
		}
		switch cmd.Kind {
		case SetVolume:
			e.volume.Set(cmd.Volume, cmd.Tween)
		}
	}
}

// Process scales input by the current tweened volume.
func (e *Effect) Process(input dsp.Frame, dt float64) dsp.Frame {
	e.volume.Update(dt)
	return input.Scale(float32(e.volume.Value().AsAmplitude()))
}

// OnClockTick forwards the tick to the volume tween.
func (e *Effect) OnClockTick(t clock.Time) { e.volume.OnClockTick(t.ClockID, t.Ticks) }

// OnChangeSampleRate is a no-op; this effect has no sample-rate-dependent
// state.
func (e *Effect) OnChangeSampleRate(sampleRate uint32) {}

// Handle is the control-thread-side reference to a live VolumeControl.
type Handle struct {
	commands ring.Producer[Command]
}

// SetVolume begins tweening the effect's volume toward target.
func (h Handle) SetVolume(target dsp.Volume, tw tween.Tween) error {
	if !h.commands.Push(Command{Kind: SetVolume, Volume: target, Tween: tw}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}
