// Package clock implements the periodic tick source that synchronizes
// tweens and sound starts across the control/audio boundary. A Clock is
// driven once per audio frame at the output sample rate; its tick count
// is readable from control threads at any time through its shared state.
package clock

import (
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/tween"
)

// SpeedKind discriminates the two ways a clock's rate can be expressed.
type SpeedKind int

const (
	// TicksPerSecond expresses speed directly as ticks/second.
	TicksPerSecond SpeedKind = iota
	// SecondsPerTick expresses speed as the reciprocal; convenient for
	// synchronizing to a musical tempo (seconds per beat).
	SecondsPerTick
)

// Speed is a clock's tick rate, tweenable like any other parameter.
type Speed struct {
	Kind  SpeedKind
	Value float64
}

// TicksPerSecondValue normalizes Speed to a ticks/second rate regardless
// of which Kind it was expressed in.
func (s Speed) TicksPerSecondValue() float64 {
	if s.Kind == SecondsPerTick {
		if s.Value <= 0 {
			return 0
		}
		return 1 / s.Value
	}
	return s.Value
}

// LerpSpeed interpolates two Speeds. Mixed-kind tweens interpolate after
// normalizing both ends to ticks/second, since that's the only value both
// kinds agree on.
func LerpSpeed(from, to Speed, t float64) Speed {
	return Speed{
		Kind:  TicksPerSecond,
		Value: tween.Float64(from.TicksPerSecondValue(), to.TicksPerSecondValue(), t),
	}
}

// Time identifies a specific tick of a specific clock: the value a tween
// waits on via tween.AtClockTime.
type Time struct {
	ClockID uint64
	Ticks   uint64
}

// Shared is the cross-thread-visible state of a Clock: whether it's
// currently ticking and how many ticks it has produced so far. Control
// threads read this with SeqCst-equivalent atomics (Go's sync/atomic
// default ordering); only the audio thread writes it.
type Shared struct {
	ticking atomic.Bool
	ticks   atomic.Uint64
	removed atomic.Bool
}

// Ticking reports whether the clock is currently advancing.
func (s *Shared) Ticking() bool { return s.ticking.Load() }

// Ticks reports the number of ticks produced so far.
func (s *Shared) Ticks() uint64 { return s.ticks.Load() }

// MarkForRemoval is called by a handle on drop; the audio thread notices
// on the next frame and returns the Clock via the unused-resource channel.
func (s *Shared) MarkForRemoval() { s.removed.Store(true) }

// MarkedForRemoval reports whether MarkForRemoval has been called.
func (s *Shared) MarkedForRemoval() bool { return s.removed.Load() }

// Clock is a periodic tick source. Process is called once per audio
// frame by the renderer; it advances the speed tween, accumulates
// fractional ticks, and returns how many whole ticks occurred this frame
// (almost always 0 or 1, but a large dt or very fast speed can produce
// more).
type Clock struct {
	id          uint64
	shared      *Shared
	speed       *tween.Tweener[Speed]
	accumulator float64
}

// New creates a Clock with the given id (its arena.Key index, used as the
// ClockID tweens gate on) and initial speed. It starts paused; Start must
// be called (via a command) to begin ticking.
func New(id uint64, speed Speed) *Clock {
	return &Clock{
		id:     id,
		shared: &Shared{},
		speed:  tween.New(speed, LerpSpeed),
	}
}

// ID returns the clock's stable identifier.
func (c *Clock) ID() uint64 { return c.id }

// Shared returns the cross-thread shared state, for a handle to hold.
func (c *Clock) Shared() *Shared { return c.shared }

// Start begins ticking.
func (c *Clock) Start() { c.shared.ticking.Store(true) }

// Stop pauses ticking. The fractional accumulator is preserved, so
// resuming doesn't skip or repeat a partial tick.
func (c *Clock) Stop() { c.shared.ticking.Store(false) }

// SetSpeed begins tweening the clock's speed toward target.
func (c *Clock) SetSpeed(target Speed, tw tween.Tween) {
	c.speed.Set(target, tw)
}

// OnClockTick forwards a tick observed on another clock to this clock's
// speed tween, in case it was scheduled to start at that clock's time.
func (c *Clock) OnClockTick(t Time) {
	c.speed.OnClockTick(t.ClockID, t.Ticks)
}

// Process advances the clock by dt seconds and returns the ticks produced
// this frame, if any. While paused it still advances the speed tween (so
// a speed change scheduled during a pause still resolves) but does not
// accumulate ticks.
func (c *Clock) Process(dt float64) []Time {
	c.speed.Update(dt)
	if !c.shared.ticking.Load() {
		return nil
	}
	ticksPerSecond := c.speed.Value().TicksPerSecondValue()
	c.accumulator += ticksPerSecond * dt
	var produced []Time
	for c.accumulator >= 1 {
		c.accumulator--
		n := c.shared.ticks.Add(1)
		produced = append(produced, Time{ClockID: c.id, Ticks: n})
	}
	return produced
}

// entry pairs a live Clock with the consumer half of its command ring.
type entry struct {
	clock    *Clock
	commands ring.Consumer[Command]
}

// Clocks owns the arena of all live clocks plus the arena.Controller
// handed to the control-thread-side Handles. It lives on the audio
// thread; AudioManager's control side only ever touches the Controller
// and per-clock Shared state.
type Clocks struct {
	arena *arena.Arena[entry]
}

// NewClocks builds an empty, fixed-capacity clock arena.
func NewClocks(controller *arena.Controller) *Clocks {
	return &Clocks{arena: arena.New[entry](controller)}
}

// Insert stores a newly created Clock and its command consumer at key,
// as queued by a "claim" command from the control thread.
func (cs *Clocks) Insert(key arena.Key, c *Clock, commands ring.Consumer[Command]) {
	cs.arena.Insert(key, entry{clock: c, commands: commands})
}

// Get returns the Clock at key, or nil if it's stale/absent.
func (cs *Clocks) Get(key arena.Key) *Clock {
	e := cs.arena.Get(key)
	if e == nil {
		return nil
	}
	return e.clock
}

// OnStartProcessing drains every clock's command ring before the frame's
// Process pass, mirroring the renderer's on_start_processing/process
// split (spec.md §5 ordering guarantee).
func (cs *Clocks) OnStartProcessing() {
	cs.arena.Each(func(_ arena.Key, e *entry) {
		DrainInto(e.commands, e.clock)
	})
}

// ProcessAll advances every live clock by dt and returns every tick
// produced this frame, across all clocks, so the renderer can broadcast
// them to sounds/tweeners/effects before those process the same frame
// (spec.md §4.4).
func (cs *Clocks) ProcessAll(dt float64) []Time {
	var all []Time
	cs.arena.Each(func(_ arena.Key, e *entry) {
		all = append(all, e.clock.Process(dt)...)
	})
	return all
}

// OnClockTick forwards a tick produced this frame to every clock's speed
// tween, the clock that produced it included.
func (cs *Clocks) OnClockTick(t Time) {
	cs.arena.Each(func(_ arena.Key, e *entry) {
		e.clock.OnClockTick(t)
	})
}

// RemoveFinished takes out every clock marked for removal and returns
// them, so the renderer can push them onto the unused-resource ring for
// the control thread to drop.
func (cs *Clocks) RemoveFinished() []*Clock {
	var removed []*Clock
	var toRemove []arena.Key
	cs.arena.Each(func(k arena.Key, e *entry) {
		if e.clock.shared.MarkedForRemoval() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := cs.arena.Remove(k); ok {
			removed = append(removed, v.clock)
		}
	}
	return removed
}
