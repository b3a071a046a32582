package spatial

import (
	"math"
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/trackid"
)

// ListenerCommandCapacity bounds how many unconsumed updates a listener's
// command ring can hold.
const ListenerCommandCapacity = 8

// ListenerCommandKind discriminates ListenerCommand variants.
type ListenerCommandKind int

const (
	SetListenerPosition ListenerCommandKind = iota
	SetListenerOrientation
)

// ListenerCommand is a control-thread instruction queued for the audio
// thread to apply to one Listener.
type ListenerCommand struct {
	Kind        ListenerCommandKind
	Position    dsp.Vec3
	Orientation dsp.Quaternion
}

// Apply performs the command against l.
func (cmd ListenerCommand) Apply(l *Listener) {
	switch cmd.Kind {
	case SetListenerPosition:
		l.position = cmd.Position
	case SetListenerOrientation:
		l.orientation = cmd.Orientation
	}
}

// ListenerShared is the cross-thread-visible state of a Listener.
type ListenerShared struct {
	removed atomic.Bool
}

// MarkForRemoval is called by a ListenerHandle on drop or explicit removal.
func (sh *ListenerShared) MarkForRemoval() { sh.removed.Store(true) }

// MarkedForRemoval reports whether MarkForRemoval has been called.
func (sh *ListenerShared) MarkedForRemoval() bool { return sh.removed.Load() }

// Listener is the audio-thread side of a spatial sound receiver. Once per
// frame it folds every live emitter's output into a single mixed frame,
// applying distance attenuation and ear-difference panning per spec.md
// §4.9, and emits the result to its target track.
type Listener struct {
	commands ring.Consumer[ListenerCommand]

	position    dsp.Vec3
	orientation dsp.Quaternion
	track       trackid.ID
}

// NewListener builds a Listener from settings, paired with the consumer
// half of its command ring.
func NewListener(settings ListenerSettings, commands ring.Consumer[ListenerCommand]) *Listener {
	return &Listener{
		commands:    commands,
		position:    settings.Position,
		orientation: settings.Orientation,
		track:       settings.Track,
	}
}

// Track returns the mixer track this listener's mixed output is routed to.
func (l *Listener) Track() trackid.ID { return l.track }

// OnStartProcessing drains queued commands before this frame's Process.
func (l *Listener) OnStartProcessing() {
	for {
		cmd, ok := l.commands.Pop()
		if !ok {
			return
		}
		cmd.Apply(l)
	}
}

// Process folds every live emitter's output into this listener's mix:
// distance-attenuates it if the emitter has an attenuation function, then
// pans it by ear direction if spatialization is enabled, per spec.md
// §4.9 steps 1-4.
func (l *Listener) Process(es *emitters) dsp.Frame {
	var output dsp.Frame
	es.arena.Each(func(_ arena.Key, e *emitterEntry) {
		output = output.Add(l.processOne(e.emitter))
	})
	return output
}

func (l *Listener) processOne(e *Emitter) dsp.Frame {
	out := e.Output()

	if d := e.Distances(); d != nil {
		fn := e.AttenuationFunction()
		if fn == nil {
			fn = LinearAttenuation
		}
		distance := e.Position().Sub(l.position).Norm()
		r := relativeDistance(distance, d.Min, d.Max)
		relativeVolume := fn(1 - r)
		amplitude := dsp.LerpDecibels(dsp.Decibels(dsp.MinDecibels), dsp.Decibels(0), relativeVolume).AsAmplitude()
		out = out.Scale(float32(amplitude))
	}

	if e.SpatializationEnabled() {
		leftEar, rightEar := l.earPositions()
		leftEarDir := l.orientation.RotatePoint(dsp.Left)
		rightEarDir := l.orientation.RotatePoint(dsp.Right)

		leftDir := e.Position().Sub(leftEar).Normalize()
		rightDir := e.Position().Sub(rightEar).Normalize()

		leftGain := (leftEarDir.Dot(leftDir) + 1) / 2
		rightGain := (rightEarDir.Dot(rightDir) + 1) / 2

		out.Left *= float32(leftGain)
		out.Right *= float32(rightGain)
	}

	return out
}

func (l *Listener) earPositions() (left, right dsp.Vec3) {
	left = l.position.Add(l.orientation.RotatePoint(dsp.Left.Mul(EarDistance)))
	right = l.position.Add(l.orientation.RotatePoint(dsp.Right.Mul(EarDistance)))
	return left, right
}

// relativeDistance maps an absolute distance into [0, 1] over [min, max]:
// 0 at or below min, 1 at or beyond max.
func relativeDistance(distance, min, max float64) float64 {
	if max <= min {
		if distance <= min {
			return 0
		}
		return 1
	}
	r := (distance - min) / (max - min)
	return math.Max(0, math.Min(1, r))
}

// listeners is the audio-thread arena of live listeners plus its bound
// controller, owned by a Scene.
type listenersArena struct {
	arena *arena.Arena[listenerEntry]
}

type listenerEntry struct {
	listener *Listener
	shared   *ListenerShared
}

func newListeners(controller *arena.Controller) *listenersArena {
	return &listenersArena{arena: arena.New[listenerEntry](controller)}
}

func (ls *listenersArena) insert(key arena.Key, l *Listener, shared *ListenerShared) {
	ls.arena.Insert(key, listenerEntry{listener: l, shared: shared})
}

func (ls *listenersArena) onStartProcessing() {
	ls.arena.Each(func(_ arena.Key, e *listenerEntry) { e.listener.OnStartProcessing() })
}

func (ls *listenersArena) removeFinished() []*Listener {
	var removed []*Listener
	var toRemove []arena.Key
	ls.arena.Each(func(k arena.Key, e *listenerEntry) {
		if e.shared.MarkedForRemoval() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := ls.arena.Remove(k); ok {
			removed = append(removed, v.listener)
		}
	}
	return removed
}
