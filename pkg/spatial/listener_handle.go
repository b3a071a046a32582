package spatial

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
)

// ListenerHandle is the control-thread-side reference to a live Listener.
// sceneKey identifies the scene it belongs to, for manager.Manager to
// build the claim that inserts the Listener into the right Scene.
type ListenerHandle struct {
	sceneKey arena.Key
	key      arena.Key
	shared   *ListenerShared
	commands ring.Producer[ListenerCommand]
}

// NewListenerHandlePair builds the (ListenerHandle, Consumer) pair for a
// newly reserved listener slot.
func NewListenerHandlePair(sceneKey, key arena.Key, shared *ListenerShared) (ListenerHandle, ring.Consumer[ListenerCommand]) {
	prod, cons := ring.New[ListenerCommand](ListenerCommandCapacity)
	return ListenerHandle{sceneKey: sceneKey, key: key, shared: shared, commands: prod}, cons
}

// SceneKey returns the key of the scene this listener belongs to.
func (h ListenerHandle) SceneKey() arena.Key { return h.sceneKey }

// Key returns this listener's key within its scene's listener arena.
func (h ListenerHandle) Key() arena.Key { return h.key }

// Shared returns the listener's cross-thread shared state, for
// manager.Manager to reuse when building the claim that inserts this
// Listener into its Scene.
func (h ListenerHandle) Shared() *ListenerShared { return h.shared }

func (h ListenerHandle) push(cmd ListenerCommand) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetPosition queues a position update.
func (h ListenerHandle) SetPosition(p dsp.Vec3) error {
	return h.push(ListenerCommand{Kind: SetListenerPosition, Position: p})
}

// SetOrientation queues an orientation update.
func (h ListenerHandle) SetOrientation(q dsp.Quaternion) error {
	return h.push(ListenerCommand{Kind: SetListenerOrientation, Orientation: q})
}

// Remove marks the listener for removal; the audio thread returns it via
// the unused-resource ring on a later frame.
func (h ListenerHandle) Remove() { h.shared.MarkForRemoval() }
