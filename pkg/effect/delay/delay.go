// Package delay implements a feedback delay line track effect, grounded
// on the teacher's per-channel echo buffer (pkg/audio/player.go's
// EchoBuffers/EchoPos circular-buffer arithmetic) generalized from a
// fixed one-row delay to a tweenable delay time in seconds.
package delay

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

const (
	SetDelayTime CommandKind = iota
	SetFeedback
	SetMix
)

// Command is a control-thread instruction queued for the audio thread.
type Command struct {
	Kind  CommandKind
	Value float64
	Tween tween.Tween
}

// Builder configures a Delay effect before it's added to a track.
type Builder struct {
	// DelayTime is the echo delay in seconds.
	DelayTime float64
	// Feedback is the fraction of the delayed signal fed back into the
	// buffer, 0 (single echo) to just under 1 (long decay).
	Feedback float64
	// Mix is the dry/wet blend: 0 is fully dry, 1 is fully wet.
	Mix float64
	// MaxDelaySeconds bounds the circular buffer's allocation; DelayTime
	// and any future tween target are clamped to it.
	MaxDelaySeconds float64
}

// Default returns a quarter-second slapback echo with light feedback.
func Default() Builder {
	return Builder{DelayTime: 0.25, Feedback: 0.35, Mix: 0.35, MaxDelaySeconds: 2}
}

// Build constructs the audio-thread Effect plus its control-thread
// Handle. The circular buffer is sized against sampleRate at Init time,
// so Build alone leaves the effect unusable until Init runs; the track
// that owns it calls Init before the first Process, per the Effect
// contract.
func (b Builder) Build() (*Effect, Handle) {
	prod, cons := ring.New[Command](commandCapacity)
	if b.MaxDelaySeconds <= 0 {
		b.MaxDelaySeconds = 2
	}
	e := &Effect{
		commands:    cons,
		maxSeconds:  b.MaxDelaySeconds,
		delayTime:   tween.New(b.DelayTime, tween.Float64),
		feedback:    tween.New(b.Feedback, tween.Float64),
		mix:         tween.New(b.Mix, tween.Float64),
	}
	return e, Handle{commands: prod}
}

// Effect is a feedback delay line: a circular buffer holding, for each
// past frame, its dry input plus the feedback-scaled delayed sample, read
// back at a tweenable lag and mixed with the dry input.
type Effect struct {
	commands ring.Consumer[Command]

	maxSeconds float64
	buffer     []dsp.Frame
	writePos   int
	sampleRate uint32

	delayTime *tween.Tweener[float64]
	feedback  *tween.Tweener[float64]
	mix       *tween.Tweener[float64]
}

// Init (re)allocates the circular buffer for sampleRate.
func (e *Effect) Init(sampleRate uint32) {
	e.sampleRate = sampleRate
	n := int(e.maxSeconds * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	e.buffer = make([]dsp.Frame, n)
	e.writePos = 0
}

// OnStartProcessing drains queued commands before this frame's Process.
func (e *Effect) OnStartProcessing() {
	for {
		cmd, ok := e.commands.Pop()
		if !ok {
			return
		}
		switch cmd.Kind {
		case SetDelayTime:
			e.delayTime.Set(cmd.Value, cmd.Tween)
		case SetFeedback:
			e.feedback.Set(cmd.Value, cmd.Tween)
		case SetMix:
			e.mix.Set(cmd.Value, cmd.Tween)
		}
	}
}

// Process reads the delayed sample, writes the input plus the
// feedback-scaled delayed sample into the buffer for future echoes, and
// returns the dry input and the delayed sample blended by mix.
func (e *Effect) Process(input dsp.Frame, dt float64) dsp.Frame {
	e.delayTime.Update(dt)
	e.feedback.Update(dt)
	e.mix.Update(dt)

	if len(e.buffer) == 0 {
		return input
	}
	delaySamples := int(e.delayTime.Value() * float64(e.sampleRate))
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples >= len(e.buffer) {
		delaySamples = len(e.buffer) - 1
	}
	readPos := (e.writePos - delaySamples + len(e.buffer)) % len(e.buffer)
	wet := e.buffer[readPos]

	feedback := float32(e.feedback.Value())
	toStore := input.Add(wet.Scale(feedback))
	e.buffer[e.writePos] = toStore
	e.writePos = (e.writePos + 1) % len(e.buffer)

	mix := e.mix.Value()
	return input.Scale(float32(1 - mix)).Add(wet.Scale(float32(mix)))
}

// OnClockTick forwards the tick to every tween.
func (e *Effect) OnClockTick(t clock.Time) {
	e.delayTime.OnClockTick(t.ClockID, t.Ticks)
	e.feedback.OnClockTick(t.ClockID, t.Ticks)
	e.mix.OnClockTick(t.ClockID, t.Ticks)
}

// OnChangeSampleRate reallocates the buffer, losing any buffered echo
// tail; a rare enough event (device reconfiguration) that a short click
// is an acceptable tradeoff against carrying resample logic here too.
func (e *Effect) OnChangeSampleRate(sampleRate uint32) { e.Init(sampleRate) }

// Handle is the control-thread-side reference to a live Delay effect.
type Handle struct {
	commands ring.Producer[Command]
}

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetDelayTime begins tweening the echo delay toward target seconds.
func (h Handle) SetDelayTime(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: SetDelayTime, Value: target, Tween: tw})
}

// SetFeedback begins tweening the feedback amount toward target.
func (h Handle) SetFeedback(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: SetFeedback, Value: target, Tween: tw})
}

// SetMix begins tweening the dry/wet mix toward target.
func (h Handle) SetMix(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: SetMix, Value: target, Tween: tw})
}
