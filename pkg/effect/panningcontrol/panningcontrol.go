// Package panningcontrol implements a track effect that pans its input
// by a tweenable position, grounded on kira's
// track/effect/panning_control.rs.
package panningcontrol

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

// SetPanning is the only command this effect accepts.
const SetPanning CommandKind = iota

// Command is a control-thread instruction queued for the audio thread.
type Command struct {
	Kind    CommandKind
	Panning float64
	Tween   tween.Tween
}

// Effect pans its input frame by a tweenable position, 0 (full left) to
// 1 (full right).
type Effect struct {
	commands ring.Consumer[Command]
	panning  *tween.Tweener[float64]
}

// Builder configures a PanningControl effect before it's added to a
// track.
type Builder struct {
	Panning float64
}

// Default returns a Builder centered at 0.5.
func Default() Builder { return Builder{Panning: 0.5} }

// Build constructs the audio-thread Effect plus its control-thread Handle.
func (b Builder) Build() (*Effect, Handle) {
	prod, cons := ring.New[Command](commandCapacity)
	e := &Effect{
		commands: cons,
		panning:  tween.New(b.Panning, tween.Float64),
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
		case SetPanning:
			e.panning.Set(cmd.Panning, cmd.Tween)
		}
	}
}

// Process pans input by the current tweened panning.
func (e *Effect) Process(input dsp.Frame, dt float64) dsp.Frame {
	e.panning.Update(dt)
	return input.Panned(e.panning.Value())
}

// OnClockTick forwards the tick to the panning tween.
func (e *Effect) OnClockTick(t clock.Time) { e.panning.OnClockTick(t.ClockID, t.Ticks) }

// OnChangeSampleRate is a no-op; this effect has no sample-rate-dependent
// state.
func (e *Effect) OnChangeSampleRate(sampleRate uint32) {}

// Handle is the control-thread-side reference to a live PanningControl.
type Handle struct {
	commands ring.Producer[Command]
}

// SetPanning begins tweening the effect's panning toward target.
func (h Handle) SetPanning(target float64, tw tween.Tween) error {
	if !h.commands.Push(Command{Kind: SetPanning, Panning: target, Tween: tw}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}
