package spatial

import (
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
)

// EmitterCommandCapacity bounds how many unconsumed position updates an
// emitter's command ring can hold.
const EmitterCommandCapacity = 8

// EmitterCommandKind discriminates EmitterCommand variants.
type EmitterCommandKind int

// SetEmitterPosition is the only command an Emitter accepts; everything
// else in EmitterSettings is fixed at creation.
const SetEmitterPosition EmitterCommandKind = iota

// EmitterCommand is a control-thread instruction queued for the audio
// thread to apply to one Emitter.
type EmitterCommand struct {
	Kind     EmitterCommandKind
	Position dsp.Vec3
}

// Apply performs the command against e.
func (cmd EmitterCommand) Apply(e *Emitter) {
	switch cmd.Kind {
	case SetEmitterPosition:
		e.position = cmd.Position
	}
}

// EmitterShared is the cross-thread-visible state of an Emitter: only a
// removal flag, since position is set-only from the control thread (no
// handle method reads it back) and everything else is immutable.
type EmitterShared struct {
	removed atomic.Bool
}

// MarkForRemoval is called by an EmitterHandle on drop or explicit removal.
func (sh *EmitterShared) MarkForRemoval() { sh.removed.Store(true) }

// MarkedForRemoval reports whether MarkForRemoval has been called.
func (sh *EmitterShared) MarkedForRemoval() bool { return sh.removed.Load() }

// Emitter is the audio-thread side of a spatial sound source: an input
// accumulator that sounds targeting it (via trackid.Emitter) feed into,
// plus the fixed attenuation/spatialization configuration a Listener
// reads when folding it into its own output (spec.md §4.9).
type Emitter struct {
	commands ring.Consumer[EmitterCommand]
	shared   *EmitterShared

	position dsp.Vec3
	settings EmitterSettings

	input dsp.Frame
}

// NewEmitter builds an Emitter from settings, paired with the consumer
// half of its command ring (the producer half goes to the EmitterHandle
// returned to the caller of add_emitter).
func NewEmitter(settings EmitterSettings, commands ring.Consumer[EmitterCommand], shared *EmitterShared) *Emitter {
	return &Emitter{
		commands: commands,
		shared:   shared,
		position: settings.Position,
		settings: settings,
	}
}

// OnStartProcessing drains queued commands before this frame's processing.
func (e *Emitter) OnStartProcessing() {
	for {
		cmd, ok := e.commands.Pop()
		if !ok {
			return
		}
		cmd.Apply(e)
	}
}

// AddInput accumulates f into this frame's input. Called by the renderer
// when dispatching a sound's output whose Settings.Track names this
// emitter (trackid.ID.IsEmitter()).
func (e *Emitter) AddInput(f dsp.Frame) { e.input = e.input.Add(f) }

// Output returns and clears this frame's accumulated input, for a
// Listener to fold into its own mix.
func (e *Emitter) Output() dsp.Frame {
	out := e.input
	e.input = dsp.Zero
	return out
}

// Position returns the emitter's current position.
func (e *Emitter) Position() dsp.Vec3 { return e.position }

// Distances returns the emitter's attenuation range, or nil if distance
// attenuation is disabled.
func (e *Emitter) Distances() *Distances { return e.settings.Distances }

// AttenuationFunction returns the emitter's attenuation curve. Only
// meaningful when Distances() is non-nil.
func (e *Emitter) AttenuationFunction() AttenuationFunction { return e.settings.AttenuationFunction }

// SpatializationEnabled reports whether ear-difference panning applies to
// this emitter.
func (e *Emitter) SpatializationEnabled() bool { return e.settings.EnableSpatialization }

// emitters is the audio-thread arena of live emitters plus its bound
// controller, owned by a Scene.
type emitters struct {
	arena *arena.Arena[emitterEntry]
}

type emitterEntry struct {
	emitter *Emitter
	shared  *EmitterShared
}

func newEmitters(controller *arena.Controller) *emitters {
	return &emitters{arena: arena.New[emitterEntry](controller)}
}

func (es *emitters) insert(key arena.Key, e *Emitter, shared *EmitterShared) {
	es.arena.Insert(key, emitterEntry{emitter: e, shared: shared})
}

func (es *emitters) get(key arena.Key) *Emitter {
	entry := es.arena.Get(key)
	if entry == nil {
		return nil
	}
	return entry.emitter
}

func (es *emitters) onStartProcessing() {
	es.arena.Each(func(_ arena.Key, e *emitterEntry) { e.emitter.OnStartProcessing() })
}

func (es *emitters) removeFinished() []*Emitter {
	var removed []*Emitter
	var toRemove []arena.Key
	es.arena.Each(func(k arena.Key, e *emitterEntry) {
		if e.shared.MarkedForRemoval() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := es.arena.Remove(k); ok {
			removed = append(removed, v.emitter)
		}
	}
	return removed
}
