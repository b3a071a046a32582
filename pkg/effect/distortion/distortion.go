// Package distortion implements a drive/mix waveshaping track effect,
// grounded on kira's track/effect/distortion (handle.rs's SetKind,
// SetDrive, SetMix command surface).
package distortion

import (
	"math"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/tween"
)

const commandCapacity = 8

// Kind selects the waveshaping curve.
type Kind int

const (
	// HardClip clamps the driven signal to [-1, 1].
	HardClip Kind = iota
	// SoftClip runs the driven signal through tanh for a smoother knee.
	SoftClip
)

// CommandKind discriminates Command variants.
type CommandKind int

const (
	SetKind CommandKind = iota
	SetDrive
	SetMix
)

// Command is a control-thread instruction queued for the audio thread.
type Command struct {
	Kind  CommandKind
	Shape Kind
	Value dsp.Volume
	Mix   float64
	Tween tween.Tween
}

// Builder configures a Distortion effect before it's added to a track.
type Builder struct {
	Kind  Kind
	Drive dsp.Volume
	Mix   float64
}

// Default returns a fully-wet soft clip at 0 dB drive. SoftClip applies
// tanh even at this drive, so the default already rounds off the signal,
// barely near zero and more strongly toward full scale.
func Default() Builder {
	return Builder{Kind: SoftClip, Drive: dsp.Decibels(0), Mix: 1}
}

// Build constructs the audio-thread Effect plus its control-thread
// Handle.
func (b Builder) Build() (*Effect, Handle) {
	prod, cons := ring.New[Command](commandCapacity)
	e := &Effect{
		commands: cons,
		kind:     b.Kind,
		drive:    tween.New(b.Drive, tween.VolumeDecibels),
		mix:      tween.New(b.Mix, tween.Float64),
	}
	return e, Handle{commands: prod}
}

// Effect drives its input by an amplitude multiplier, waveshapes it, and
// blends the result back with the dry signal.
type Effect struct {
	commands ring.Consumer[Command]

	kind  Kind
	drive *tween.Tweener[dsp.Volume]
	mix   *tween.Tweener[float64]
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
		case SetKind:
			e.kind = cmd.Shape
		case SetDrive:
			e.drive.Set(cmd.Value, cmd.Tween)
		case SetMix:
			e.mix.Set(cmd.Mix, cmd.Tween)
		}
	}
}

// Process drives and waveshapes input, then blends with the dry signal
// by the current mix.
func (e *Effect) Process(input dsp.Frame, dt float64) dsp.Frame {
	e.drive.Update(dt)
	e.mix.Update(dt)

	amount := float32(e.drive.Value().AsAmplitude())
	wet := dsp.Frame{
		Left:  e.shape(input.Left * amount),
		Right: e.shape(input.Right * amount),
	}
	mix := float32(e.mix.Value())
	return input.Scale(1 - mix).Add(wet.Scale(mix))
}

func (e *Effect) shape(sample float32) float32 {
	switch e.kind {
	case SoftClip:
		return float32(math.Tanh(float64(sample)))
	default:
		if sample > 1 {
			return 1
		}
		if sample < -1 {
			return -1
		}
		return sample
	}
}

// OnClockTick forwards the tick to every tween.
func (e *Effect) OnClockTick(t clock.Time) {
	e.drive.OnClockTick(t.ClockID, t.Ticks)
	e.mix.OnClockTick(t.ClockID, t.Ticks)
}

// OnChangeSampleRate is a no-op; this effect has no sample-rate-dependent
// state.
func (e *Effect) OnChangeSampleRate(sampleRate uint32) {}

// Handle is the control-thread-side reference to a live Distortion
// effect.
type Handle struct {
	commands ring.Producer[Command]
}

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetKind switches the waveshaping curve immediately (not tweened, same
// as kira's handle.rs).
func (h Handle) SetKind(kind Kind) error {
	return h.push(Command{Kind: SetKind, Shape: kind})
}

// SetDrive begins tweening the drive amount toward target.
func (h Handle) SetDrive(target dsp.Volume, tw tween.Tween) error {
	return h.push(Command{Kind: SetDrive, Value: target, Tween: tw})
}

// SetMix begins tweening the dry/wet mix toward target.
func (h Handle) SetMix(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: SetMix, Mix: target, Tween: tw})
}
