package manager

import (
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/track"
	"github.com/gosound/resonance/pkg/trackid"
)

// unusedResource is whatever came out of an arena's removeFinished sweep,
// boxed so a single ring can carry every resource kind back to the
// control thread to be dropped. The control thread never does anything
// with the value except let it fall out of scope (and, for diagnostics,
// count it) — the point is only that the audio thread never keeps a
// removed resource alive one frame longer than it has to.
type unusedResource struct {
	value any
}

// Renderer is the audio-thread side of a Manager: it owns every resource
// arena and is driven by exactly two calls per block, per spec.md §4.11 —
// OnStartProcessing() once, then Process() once per output frame — plus
// OnChangeSampleRate on a backend sample rate change. Every method here
// runs only on the audio thread. Process is not allocation-free: it
// gathers each frame's clock ticks, sound outputs, listener outputs and
// removed resources into slices it appends to afresh.
type Renderer struct {
	sampleRate uint32

	sounds *sounds
	clocks *clock.Clocks
	tracks *track.Tracks
	scenes *scenes

	soundClaims    ring.Consumer[soundClaim]
	clockClaims    ring.Consumer[clockClaim]
	subTrackClaims ring.Consumer[subTrackClaim]
	sceneClaims    ring.Consumer[sceneClaim]
	emitterClaims  ring.Consumer[emitterClaim]
	listenerClaims ring.Consumer[listenerClaim]

	unused ring.Producer[unusedResource]
}

// OnStartProcessing drains every pending claim (new resources, in the
// order a racing claim can depend on an earlier one: scenes before the
// emitters/listeners that target them), then every live resource's own
// command ring, before this block's Process calls. This is the renderer's
// half of spec.md §5's "on_start_processing runs before process" ordering
// guarantee.
func (r *Renderer) OnStartProcessing() {
	for {
		c, ok := r.clockClaims.Pop()
		if !ok {
			break
		}
		r.clocks.Insert(c.key, c.clock, c.commands)
	}
	for {
		c, ok := r.subTrackClaims.Pop()
		if !ok {
			break
		}
		c.track.Init(r.sampleRate)
		r.tracks.Insert(c.key, c.track, c.shared)
	}
	for {
		c, ok := r.sceneClaims.Pop()
		if !ok {
			break
		}
		r.scenes.insert(c)
	}
	for {
		c, ok := r.emitterClaims.Pop()
		if !ok {
			break
		}
		r.scenes.insertEmitter(c)
	}
	for {
		c, ok := r.listenerClaims.Pop()
		if !ok {
			break
		}
		r.scenes.insertListener(c)
	}
	for {
		c, ok := r.soundClaims.Pop()
		if !ok {
			break
		}
		r.sounds.insert(c)
	}

	r.clocks.OnStartProcessing()
	r.tracks.OnStartProcessing()
	r.scenes.onStartProcessing()
	r.sounds.onStartProcessing()
}

// Process advances the whole graph by one output frame of dt seconds and
// returns the frame to send to the backend: clocks tick first and
// broadcast to every tick subscriber (spec.md §4.4), then every sound
// processes and its output is routed to its track or emitter, then every
// spatial scene folds its emitters into its listeners' mixes and those
// are routed to their target tracks, and finally the mixer graph itself
// processes, sub-tracks before Main (spec.md §4.7).
func (r *Renderer) Process(dt float64) dsp.Frame {
	for _, t := range r.clocks.ProcessAll(dt) {
		r.clocks.OnClockTick(t)
		r.tracks.OnClockTick(t)
		r.sounds.onClockTick(t)
	}

	for _, d := range r.sounds.processAll(dt) {
		r.route(d.target, d.frame)
	}

	for _, d := range r.scenes.processAll() {
		r.tracks.AddInput(d.track, d.frame)
	}

	out := r.tracks.ProcessAll(dt)

	r.collectUnused()

	return out
}

// route sends a sound's processed frame to its target: a mixer track
// directly, or a spatial scene emitter's input accumulator.
func (r *Renderer) route(target trackid.ID, f dsp.Frame) {
	if target.IsEmitter() {
		r.scenes.addEmitterInput(target, f)
		return
	}
	r.tracks.AddInput(target, f)
}

// OnChangeSampleRate propagates a backend sample rate change to every
// track's effect chain and updates the cached rate Process's callers may
// read.
func (r *Renderer) OnChangeSampleRate(sampleRate uint32) {
	r.sampleRate = sampleRate
	r.tracks.OnChangeSampleRate(sampleRate)
}

// SampleRate returns the sample rate Process is currently being driven
// at, as of New or the last OnChangeSampleRate call.
func (r *Renderer) SampleRate() uint32 { return r.sampleRate }

// collectUnused sweeps every arena for finished/removed resources and
// pushes them onto the unused-resource ring so the control thread's
// garbage collection pass can drop the last reference to each. A full
// ring here just means the resource is dropped one frame later than
// ideal, not a correctness problem — nothing on the audio thread blocks
// waiting for it.
func (r *Renderer) collectUnused() {
	for _, v := range r.sounds.removeFinished() {
		r.unused.Push(unusedResource{value: v})
	}
	for _, v := range r.clocks.RemoveFinished() {
		r.unused.Push(unusedResource{value: v})
	}
	for _, v := range r.tracks.RemoveFinished() {
		r.unused.Push(unusedResource{value: v})
	}
	removedScenes, removedEmitters, removedListeners := r.scenes.removeFinished()
	for _, v := range removedScenes {
		r.unused.Push(unusedResource{value: v})
	}
	for _, v := range removedEmitters {
		r.unused.Push(unusedResource{value: v})
	}
	for _, v := range removedListeners {
		r.unused.Push(unusedResource{value: v})
	}
}
