// Package filter implements a one-pole low-pass/high-pass track effect.
// There is no DSP filter library anywhere in the retrieval pack, so this
// runs on plain float64 math rather than an imported implementation; see
// DESIGN.md.
package filter

import (
	"math"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/tween"
)

const commandCapacity = 8

// Mode selects which side of the cutoff passes through.
type Mode int

const (
	LowPass Mode = iota
	HighPass
)

// CommandKind discriminates Command variants.
type CommandKind int

const (
	SetMode CommandKind = iota
	SetCutoff
)

// Command is a control-thread instruction queued for the audio thread.
type Command struct {
	Kind   CommandKind
	Mode   Mode
	Cutoff float64
	Tween  tween.Tween
}

// Builder configures a Filter effect before it's added to a track.
type Builder struct {
	Mode   Mode
	Cutoff float64 // Hz
}

// Default returns a low-pass filter at 20kHz, effectively transparent
// until the cutoff is lowered.
func Default() Builder { return Builder{Mode: LowPass, Cutoff: 20000} }

// Build constructs the audio-thread Effect plus its control-thread
// Handle. Like delay's buffer, the filter's coefficient depends on
// sampleRate, so Init must run before the first Process.
func (b Builder) Build() (*Effect, Handle) {
	prod, cons := ring.New[Command](commandCapacity)
	e := &Effect{
		commands: cons,
		mode:     b.Mode,
		cutoff:   tween.New(b.Cutoff, tween.Float64),
	}
	return e, Handle{commands: prod}
}

// Effect is a one-pole IIR filter: y[n] = y[n-1] + a*(x[n]-y[n-1]), with
// a derived from the tweened cutoff and current sample rate. High-pass
// output is the input minus the low-pass state.
type Effect struct {
	commands ring.Consumer[Command]

	mode       Mode
	sampleRate uint32
	stateLeft  float64
	stateRight float64

	cutoff *tween.Tweener[float64]
}

// Init records sampleRate and resets filter state.
func (e *Effect) Init(sampleRate uint32) {
	e.sampleRate = sampleRate
	e.stateLeft = 0
	e.stateRight = 0
}

// OnStartProcessing drains queued commands before this frame's Process.
func (e *Effect) OnStartProcessing() {
	for {
		cmd, ok := e.commands.Pop()
		if !ok {
			return
		}
		switch cmd.Kind {
		case SetMode:
			e.mode = cmd.Mode
		case SetCutoff:
			e.cutoff.Set(cmd.Cutoff, cmd.Tween)
		}
	}
}

// Process filters input through the one-pole state.
func (e *Effect) Process(input dsp.Frame, dt float64) dsp.Frame {
	e.cutoff.Update(dt)
	if e.sampleRate == 0 {
		return input
	}
	a := e.coefficient()
	e.stateLeft += a * (float64(input.Left) - e.stateLeft)
	e.stateRight += a * (float64(input.Right) - e.stateRight)

	if e.mode == HighPass {
		return dsp.Frame{
			Left:  input.Left - float32(e.stateLeft),
			Right: input.Right - float32(e.stateRight),
		}
	}
	return dsp.Frame{Left: float32(e.stateLeft), Right: float32(e.stateRight)}
}

func (e *Effect) coefficient() float64 {
	cutoff := e.cutoff.Value()
	if cutoff <= 0 {
		return 0
	}
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / float64(e.sampleRate)
	return dt / (rc + dt)
}

// OnClockTick forwards the tick to the cutoff tween.
func (e *Effect) OnClockTick(t clock.Time) { e.cutoff.OnClockTick(t.ClockID, t.Ticks) }

// OnChangeSampleRate updates the coefficient basis; filter state carries
// over rather than resetting, avoiding a click on device reconfiguration.
func (e *Effect) OnChangeSampleRate(sampleRate uint32) { e.sampleRate = sampleRate }

// Handle is the control-thread-side reference to a live Filter effect.
type Handle struct {
	commands ring.Producer[Command]
}

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetMode switches between low-pass and high-pass immediately.
func (h Handle) SetMode(mode Mode) error { return h.push(Command{Kind: SetMode, Mode: mode}) }

// SetCutoff begins tweening the cutoff frequency toward target Hz.
func (h Handle) SetCutoff(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: SetCutoff, Cutoff: target, Tween: tw})
}
