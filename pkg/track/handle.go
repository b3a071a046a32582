package track

import (
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// CommandCapacity is the command ring capacity every track (Main or
// sub-track) is built with.
const CommandCapacity = 8

// Shared is the cross-thread-visible state of a sub-track. Unlike sounds
// and clocks, a track has no meaningful "finished" concept of its own; the
// only thing a control thread needs is removal.
type Shared struct {
	removed atomic.Bool
}

// MarkForRemoval is called by a Handle on drop or explicit removal.
func (sh *Shared) MarkForRemoval() { sh.removed.Store(true) }

// MarkedForRemoval reports whether MarkForRemoval has been called.
func (sh *Shared) MarkedForRemoval() bool { return sh.removed.Load() }

// Handle is the control-thread-side reference to a sub-track.
type Handle struct {
	id       trackid.ID
	shared   *Shared
	commands ring.Producer[Command]
}

// NewHandlePair builds the (Handle, Consumer) pair for a newly reserved
// sub-track slot.
func NewHandlePair(key arena.Key, shared *Shared) (Handle, ring.Consumer[Command]) {
	prod, cons := ring.New[Command](CommandCapacity)
	return Handle{id: trackid.Sub(key), shared: shared, commands: prod}, cons
}

// NewMainHandlePair builds the (Handle, Consumer) pair for the mixer's
// single, always-present Main track, which has no arena.Key of its own.
func NewMainHandlePair() (Handle, ring.Consumer[Command]) {
	prod, cons := ring.New[Command](CommandCapacity)
	return Handle{id: trackid.Main(), shared: &Shared{}, commands: prod}, cons
}

// ID returns the identifier to quote as a route target or a sound's
// Settings.Track.
func (h Handle) ID() trackid.ID { return h.id }

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetVolume begins tweening the track's volume toward target.
func (h Handle) SetVolume(target dsp.Volume, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetVolume, Volume: target, Tween: tw})
}

// SetRouteVolume begins tweening the volume of this track's existing
// route to target toward volume.
func (h Handle) SetRouteVolume(target trackid.ID, volume dsp.Volume, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetRouteVolume, Target: target, Volume: volume, Tween: tw})
}

// RemoveRoute deletes this track's route to target, if one exists.
func (h Handle) RemoveRoute(target trackid.ID) error {
	return h.push(Command{Kind: CmdRemoveRoute, Target: target})
}

// Remove marks the track for removal; the audio thread returns it via the
// unused-resource ring on a later frame.
func (h Handle) Remove() { h.shared.MarkForRemoval() }
