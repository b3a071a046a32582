package spatial

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/trackid"
)

// EmitterHandle is the control-thread-side reference to a live Emitter.
type EmitterHandle struct {
	id       trackid.ID
	shared   *EmitterShared
	commands ring.Producer[EmitterCommand]
}

// NewEmitterHandlePair builds the (EmitterHandle, Consumer) pair for a
// newly reserved emitter slot, sceneKey identifying the scene it belongs
// to.
func NewEmitterHandlePair(sceneKey, key arena.Key, shared *EmitterShared) (EmitterHandle, ring.Consumer[EmitterCommand]) {
	prod, cons := ring.New[EmitterCommand](EmitterCommandCapacity)
	return EmitterHandle{id: trackid.Emitter(sceneKey, key), shared: shared, commands: prod}, cons
}

// ID returns the identifier a sound's Settings.Track field can name to
// target this emitter instead of a mixer track.
func (h EmitterHandle) ID() trackid.ID { return h.id }

// Shared returns the emitter's cross-thread shared state, for
// manager.Manager to reuse when building the claim that inserts this
// Emitter into its Scene.
func (h EmitterHandle) Shared() *EmitterShared { return h.shared }

// SetPosition queues a position update.
func (h EmitterHandle) SetPosition(p dsp.Vec3) error {
	if !h.commands.Push(EmitterCommand{Kind: SetEmitterPosition, Position: p}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// Remove marks the emitter for removal; the audio thread returns it via
// the unused-resource ring on a later frame.
func (h EmitterHandle) Remove() { h.shared.MarkForRemoval() }
