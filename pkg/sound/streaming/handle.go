package streaming

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

const commandCapacity = 8

// Shared is the cross-thread-visible state of a streaming Sound.
type Shared struct {
	state    atomic.Int32
	position atomic.Uint64
	removed  atomic.Bool
}

// NewShared allocates a Shared starting in the Playing state.
func NewShared() *Shared {
	sh := &Shared{}
	sh.state.Store(int32(soundpkg.Playing))
	return sh
}

func (sh *Shared) setState(s soundpkg.State)   { sh.state.Store(int32(s)) }
func (sh *Shared) setPosition(seconds float64) { sh.position.Store(math.Float64bits(seconds)) }
func (sh *Shared) State() soundpkg.State       { return soundpkg.State(sh.state.Load()) }
func (sh *Shared) Position() float64           { return math.Float64frombits(sh.position.Load()) }
func (sh *Shared) Finished() bool              { return sh.State() == soundpkg.Stopped }
func (sh *Shared) MarkForRemoval()             { sh.removed.Store(true) }
func (sh *Shared) MarkedForRemoval() bool      { return sh.removed.Load() }

// Handle is the control-thread-side reference to a playing streaming
// Sound.
type Handle struct {
	key      arena.Key
	shared   *Shared
	commands ring.Producer[Command]
}

// NewHandlePair builds the (Handle, Consumer) pair for a newly reserved
// streaming sound slot.
func NewHandlePair(key arena.Key, shared *Shared) (Handle, ring.Consumer[Command]) {
	prod, cons := ring.New[Command](commandCapacity)
	return Handle{key: key, shared: shared, commands: prod}, cons
}

func (h Handle) State() soundpkg.State { return h.shared.State() }
func (h Handle) Position() float64     { return h.shared.Position() }
func (h Handle) Finished() bool        { return h.shared.Finished() }

func (h Handle) push(cmd Command) error {
	if !h.commands.Push(cmd) {
		return rterr.ErrCommandQueueFull
	}
	return nil
}

func (h Handle) SetVolume(target dsp.Volume, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetVolume, Volume: target, Tween: tw})
}

func (h Handle) SetPanning(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetPanning, Panning: target, Tween: tw})
}

func (h Handle) SetPlaybackRate(target float64, tw tween.Tween) error {
	return h.push(Command{Kind: CmdSetPlaybackRate, Rate: target, Tween: tw})
}

func (h Handle) Pause(tw tween.Tween) error { return h.push(Command{Kind: CmdPause, Tween: tw}) }

func (h Handle) Resume(tw tween.Tween) error { return h.push(Command{Kind: CmdResume, Tween: tw}) }

func (h Handle) Stop(tw tween.Tween) error { return h.push(Command{Kind: CmdStop, Tween: tw}) }

func (h Handle) SeekTo(seconds float64) error {
	return h.push(Command{Kind: CmdSeekTo, Seconds: seconds})
}

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
