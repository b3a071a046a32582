package static

import (
	"math"
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/tween"
)

// commandCapacity bounds how many unconsumed commands one sound's command
// ring can hold before Handle calls start failing.
const commandCapacity = 8

// Shared is the cross-thread-visible state of a Sound: its playback
// state, position and removal flag. Only the audio thread (via Sound's
// publish) writes state/position; only the control thread writes removed.
type Shared struct {
	state    atomic.Int32
	position atomic.Uint64 // math.Float64bits of the position in seconds
	removed  atomic.Bool
}

// NewShared allocates a Shared with Playing as the initial observable
// state, matching a freshly-created Sound before its first Process call.
func NewShared() *Shared {
	sh := &Shared{}
	sh.state.Store(int32(soundpkg.Playing))
	return sh
}

func (sh *Shared) setState(s soundpkg.State)    { sh.state.Store(int32(s)) }
func (sh *Shared) setPosition(seconds float64)  { sh.position.Store(math.Float64bits(seconds)) }
func (sh *Shared) State() soundpkg.State        { return soundpkg.State(sh.state.Load()) }
func (sh *Shared) Position() float64            { return math.Float64frombits(sh.position.Load()) }
func (sh *Shared) Finished() bool               { return sh.State() == soundpkg.Stopped }
func (sh *Shared) MarkForRemoval()              { sh.removed.Store(true) }
func (sh *Shared) MarkedForRemoval() bool       { return sh.removed.Load() }

// Handle is the control-thread-side reference to a playing static Sound.
type Handle struct {
	key      arena.Key
	shared   *Shared
	commands ring.Producer[Command]
}

// NewHandlePair builds the (Handle, Consumer) pair for a newly reserved
// sound slot: the Consumer goes to the audio-thread Sound; the Handle is
// returned to the caller of Manager.Play.
func NewHandlePair(key arena.Key, shared *Shared) (Handle, ring.Consumer[Command]) {
	prod, cons := ring.New[Command](commandCapacity)
	return Handle{key: key, shared: shared, commands: prod}, cons
}

// State reads the sound's last-published playback state.
func (h Handle) State() soundpkg.State { return h.shared.State() }

// Position reads the sound's last-published cursor position in seconds.
func (h Handle) Position() float64 { return h.shared.Position() }

// Finished reports whether the sound has reached Stopped.
func (h Handle) Finished() bool { return h.shared.Finished() }

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

// SetVolume queues a volume tween.
func (h Handle) SetVolume(target dsp.Volume, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetVolume, Volume: target, Tween: tw})
}

// SetPanning queues a panning tween.
func (h Handle) SetPanning(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetPanning, Panning: target, Tween: tw})
}

// SetPlaybackRate queues a playback-rate tween.
func (h Handle) SetPlaybackRate(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetPlaybackRate, Rate: target, Tween: tw})
}

// Pause queues a pause, fading to silence over tw.
func (h Handle) Pause(tw tween.Tween) error {
	return h.push(Command{Kind: CmdPause, Tween: tw})
}

// Resume queues a resume, fading back to full over tw.
func (h Handle) Resume(tw tween.Tween) error {
	return h.push(Command{Kind: CmdResume, Tween: tw})
}

// Stop queues a stop, fading to silence over tw before becoming finished.
func (h Handle) Stop(tw tween.Tween) error {
	return h.push(Command{Kind: CmdStop, Tween: tw})
}

// SeekTo queues an absolute seek to the given position in seconds.
func (h Handle) SeekTo(seconds float64) error {
	return h.push(Command{Kind: CmdSeekTo, Seconds: seconds})
}

// SeekBy queues a relative seek by the given number of seconds.
func (h Handle) SeekBy(amount float64) error {
	return h.push(Command{Kind: CmdSeekBy, Seconds: amount})
}

// Remove marks the sound for removal; the audio thread returns it via the
// unused-resource ring on a later frame.
func (h Handle) Remove() { h.shared.MarkForRemoval() }

// DrainInto drains all queued commands from cons and applies them to s.
func DrainInto(cons ring.Consumer[Command], s *Sound) {
	for {
		cmd, ok := cons.Pop()
		if !ok {
			return
		}
		cmd.Apply(s)
	}
}
