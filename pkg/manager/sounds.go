package manager

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/trackid"
)

// soundEntry pairs a live Sound with the destination its output gets
// routed to and a closure reading its Handle's removal flag. A closure
// (rather than a shared interface type) keeps this package from needing
// to know whether the sound underneath is a static.Sound or a
// streaming.Sound — soundpkg.Sound is already the common processing
// contract; the entry only adds what it lacks.
type soundEntry struct {
	sound   soundpkg.Sound
	target  trackid.ID
	removed func() bool
}

// sounds is the audio-thread arena of every currently playing sound,
// mirroring clock.Clocks/track.Tracks' split between the fixed arena.Arena
// storage and the control-thread-visible arena.Controller.
type sounds struct {
	arena *arena.Arena[soundEntry]
}

func newSounds(controller *arena.Controller) *sounds {
	return &sounds{arena: arena.New[soundEntry](controller)}
}

func (s *sounds) insert(c soundClaim) {
	s.arena.Insert(c.key, soundEntry{sound: c.sound, target: c.target, removed: c.removed})
}

// onStartProcessing drains every sound's own command ring before this
// frame's processAll.
func (s *sounds) onStartProcessing() {
	s.arena.Each(func(_ arena.Key, e *soundEntry) { e.sound.OnStartProcessing() })
}

// onClockTick forwards a tick produced this frame to every live sound,
// before any of them process that frame (spec.md §4.4).
func (s *sounds) onClockTick(t clock.Time) {
	s.arena.Each(func(_ arena.Key, e *soundEntry) { e.sound.OnClockTick(t) })
}

// soundDestination pairs a processed sound's output Frame with where it
// goes: a mixer track directly, or a spatial scene emitter.
type soundDestination struct {
	target trackid.ID
	frame  dsp.Frame
}

// processAll advances every sound by dt and returns each one's output
// paired with its destination, for the renderer to route into Tracks or a
// Scene's emitter before the mixer graph itself processes this frame.
func (s *sounds) processAll(dt float64) []soundDestination {
	var out []soundDestination
	s.arena.Each(func(_ arena.Key, e *soundEntry) {
		out = append(out, soundDestination{target: e.target, frame: e.sound.Process(dt)})
	})
	return out
}

// removeFinished takes out every sound whose Handle has been dropped or
// which has reached Stopped, and returns them so the renderer can push
// them onto the unused-resource ring for the control thread to drop.
func (s *sounds) removeFinished() []soundpkg.Sound {
	var removed []soundpkg.Sound
	var toRemove []arena.Key
	s.arena.Each(func(k arena.Key, e *soundEntry) {
		if e.removed() || e.sound.Finished() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := s.arena.Remove(k); ok {
			removed = append(removed, v.sound)
		}
	}
	return removed
}
