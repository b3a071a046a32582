package clock

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/tween"
)

// commandCapacity bounds how many unconsumed commands one clock's ring
// can hold before Handle calls start failing with ErrCommandQueueFull.
const commandCapacity = 8

// Handle is the control-thread-side reference to a Clock. It pushes
// commands into a per-clock ring and reads cross-thread Shared state
// directly (both are safe with no locking).
type Handle struct {
	key      arena.Key
	shared   *Shared
	commands ring.Producer[Command]
}

// NewHandlePair builds the (Handle, Consumer) pair for a newly reserved
// clock: the Consumer side is handed to the audio-thread Clock so it can
// drain commands; the Handle is returned to the caller of add_clock.
func NewHandlePair(key arena.Key, shared *Shared) (Handle, ring.Consumer[Command]) {
	prod, cons := ring.New[Command](commandCapacity)
	return Handle{key: key, shared: shared, commands: prod}, cons
}

// ID returns the clock's identifier, for use as a tween.AtClockTime
// target.
func (h Handle) ID() uint64 { return uint64(h.key.Index()) }

// Time reads the clock's current tick count.
func (h Handle) Time() uint64 { return h.shared.Ticks() }

// Ticking reports whether the clock is currently advancing.
func (h Handle) Ticking() bool { return h.shared.Ticking() }

// Start enqueues a command to begin ticking.
func (h Handle) Start() error {
	if !h.commands.Push(Command{Kind: CmdStart}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// Stop enqueues a command to pause ticking.
func (h Handle) Stop() error {
	if !h.commands.Push(Command{Kind: CmdStop}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetSpeed enqueues a command to tween the clock's speed to target.
func (h Handle) SetSpeed(target Speed, tw tween.Tween) error {
	if !h.commands.Push(Command{Kind: CmdSetSpeed, Speed: target, Tween: tw}) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// Remove marks the clock for removal; the audio thread will return it on
// a later frame via the unused-resource ring.
func (h Handle) Remove() { h.shared.MarkForRemoval() }

// DrainInto drains all queued commands from cons and applies them to c.
// Called once per frame by the renderer before c.Process.
func DrainInto(cons ring.Consumer[Command], c *Clock) {
	for {
		cmd, ok := cons.Pop()
		if !ok {
			return
		}
		cmd.Apply(c)
	}
}
