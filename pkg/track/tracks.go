package track

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
)

// subEntry pairs a live sub-track with its Shared removal flag.
type subEntry struct {
	track  *Track
	shared *Shared
}

// Tracks is the audio-thread side of the mixer graph: the single Main
// track plus the sub-track arena, mirroring clock.Clocks' split between a
// fixed special-cased resource and an arena of dynamic ones. The control
// side only ever touches the arena.Controller it was built from, plus
// each sub-track's Handle/Shared and the Manager's Router.
type Tracks struct {
	main *Track
	subs *arena.Arena[subEntry]
}

// NewTracks builds a Tracks with main as the always-present Main track
// and an empty sub-track arena bound to controller.
func NewTracks(main *Track, controller *arena.Controller) *Tracks {
	return &Tracks{main: main, subs: arena.New[subEntry](controller)}
}

// Main returns the mixer's Main track, for the renderer to read its final
// output frame after ProcessAll.
func (ts *Tracks) Main() *Track { return ts.main }

// Insert stores a newly created sub-track and its command consumer's
// owning Shared at key, as queued by a "claim" command from the control
// thread.
func (ts *Tracks) Insert(key arena.Key, t *Track, shared *Shared) {
	ts.subs.Insert(key, subEntry{track: t, shared: shared})
}

// get resolves a trackid.ID to its live Track, or nil if id names a
// stale/removed sub-track. Never panics: routes and sound Settings.Track
// fields can outlive the track they name.
func (ts *Tracks) get(id trackid.ID) *Track {
	if id.IsMain() {
		return ts.main
	}
	e := ts.subs.Get(id.Key())
	if e == nil {
		return nil
	}
	return e.track
}

// Init propagates the output sample rate to every track's effect chain,
// Main included. Called once by the renderer before the first ProcessAll.
func (ts *Tracks) Init(sampleRate uint32) {
	ts.main.Init(sampleRate)
	ts.subs.Each(func(_ arena.Key, e *subEntry) { e.track.Init(sampleRate) })
}

// OnChangeSampleRate forwards a sample rate change to every track.
func (ts *Tracks) OnChangeSampleRate(sampleRate uint32) {
	ts.main.OnChangeSampleRate(sampleRate)
	ts.subs.Each(func(_ arena.Key, e *subEntry) { e.track.OnChangeSampleRate(sampleRate) })
}

// OnStartProcessing drains every track's command ring, Main's included,
// before this frame's ProcessAll — the renderer's
// on_start_processing/process ordering (spec.md §5).
func (ts *Tracks) OnStartProcessing() {
	ts.main.OnStartProcessing()
	ts.subs.Each(func(_ arena.Key, e *subEntry) { e.track.OnStartProcessing() })
}

// AddInput routes f into the named track's input accumulator. A stale or
// removed target is a silent no-op.
func (ts *Tracks) AddInput(id trackid.ID, f dsp.Frame) {
	if t := ts.get(id); t != nil {
		t.AddInput(f)
	}
}

// OnClockTick forwards a tick produced this frame to Main and every
// sub-track (spec.md §4.4: delivered before sounds process the frame;
// Tracks itself is told after Clocks.ProcessAll, same as sounds are).
func (ts *Tracks) OnClockTick(t clock.Time) {
	ts.main.OnClockTick(t)
	ts.subs.Each(func(_ arena.Key, e *subEntry) { e.track.OnClockTick(t) })
}

// ProcessAll processes every sub-track first, in insertion order, routing
// each one's scaled output into its destinations' input accumulators, and
// only then processes Main — returning Main's output as the frame the
// renderer emits to the backend (spec.md §4.7).
func (ts *Tracks) ProcessAll(dt float64) dsp.Frame {
	ts.subs.Each(func(_ arena.Key, e *subEntry) {
		out := e.track.Process(dt)
		e.track.forEachRoute(func(target trackid.ID, volume dsp.Volume) {
			ts.AddInput(target, out.Scale(float32(volume.AsAmplitude())))
		})
	})
	mainOut := ts.main.Process(dt)
	ts.main.forEachRoute(func(target trackid.ID, volume dsp.Volume) {
		ts.AddInput(target, mainOut.Scale(float32(volume.AsAmplitude())))
	})
	return mainOut
}

// RemoveFinished takes out every sub-track marked for removal and returns
// them, so the renderer can push them onto the unused-resource ring.
func (ts *Tracks) RemoveFinished() []*Track {
	var removed []*Track
	var toRemove []arena.Key
	ts.subs.Each(func(k arena.Key, e *subEntry) {
		if e.shared.MarkedForRemoval() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := ts.subs.Remove(k); ok {
			removed = append(removed, v.track)
		}
	}
	return removed
}
