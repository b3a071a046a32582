// Package track implements the mixer graph: the Main track, sub-tracks,
// volume-scaled routes between them, and each track's effect chain.
// Grounded on spec.md §4.7/§4.8 and, for the routing/cycle-rejection
// shape, the teacher's per-channel echo-source wiring
// (pkg/audio/player.go's EchoSource/EchoDelay, generalized from a single
// fixed echo tap to an arbitrary acyclic graph of tracks).
package track

import (
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/effect"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// Track is one node in the mixer graph: an input accumulator, a volume
// tween, an effect chain, and zero or more outgoing routes to other
// tracks.
type Track struct {
	commands ring.Consumer[Command]

	volume  *tween.Tweener[dsp.Volume]
	effects []effect.Effect
	routes  []route

	input dsp.Frame
}

// New builds a Track from a Builder and its command consumer.
func New(builder Builder, commands ring.Consumer[Command]) *Track {
	t := &Track{
		commands: commands,
		volume:   tween.New(builder.Settings.Volume, tween.VolumeDecibels),
		effects:  builder.Effects,
	}
	for _, spec := range builder.Routes {
		t.addRoute(spec.Target, spec.Volume)
	}
	return t
}

// Init propagates the output sample rate to every effect in the chain.
// Called once before the track's first Process: by Tracks.Init for Main,
// and by the renderer when it inserts a claimed sub-track. A later sample
// rate change goes through OnChangeSampleRate instead.
func (t *Track) Init(sampleRate uint32) {
	for _, e := range t.effects {
		e.Init(sampleRate)
	}
}

// OnChangeSampleRate forwards a sample rate change to every effect.
func (t *Track) OnChangeSampleRate(sampleRate uint32) {
	for _, e := range t.effects {
		e.OnChangeSampleRate(sampleRate)
	}
}

// OnStartProcessing drains queued commands, then lets every effect drain
// its own.
func (t *Track) OnStartProcessing() {
	for {
		cmd, ok := t.commands.Pop()
		if !ok {
			break
		}
		cmd.Apply(t)
	}
	for _, e := range t.effects {
		e.OnStartProcessing()
	}
}

// AddInput accumulates f into this frame's input, per spec.md §4.7 ("the
// destination track's input accumulator").
func (t *Track) AddInput(f dsp.Frame) { t.input = t.input.Add(f) }

// Process updates the volume tween, takes and clears the accumulated
// input, folds it through the effect chain, and scales the result by the
// track's own volume. Route volume tweens are updated here too (so
// Tracks.ProcessAll observes this frame's values when it scales the
// returned Frame for each destination) but are applied by the caller, not
// here: a route's scale happens on the way INTO the destination, which
// this track does not own.
func (t *Track) Process(dt float64) dsp.Frame {
	t.volume.Update(dt)
	for i := range t.routes {
		t.routes[i].volume.Update(dt)
	}

	in := t.input
	t.input = dsp.Zero

	out := in
	for _, e := range t.effects {
		out = e.Process(out, dt)
	}
	return out.Scale(float32(t.volume.Value().AsAmplitude()))
}

// OnClockTick forwards the tick to the volume tween, every route's volume
// tween, and every effect.
func (t *Track) OnClockTick(time clock.Time) {
	t.volume.OnClockTick(time.ClockID, time.Ticks)
	for i := range t.routes {
		t.routes[i].volume.OnClockTick(time.ClockID, time.Ticks)
	}
	for _, e := range t.effects {
		e.OnClockTick(time)
	}
}

// SetVolume begins tweening the track's own volume toward target.
func (t *Track) SetVolume(target dsp.Volume, tw tween.Tween) { t.volume.Set(target, tw) }

// addRoute appends a new outgoing route. New calls it for build-time
// routes; CmdAddRoute calls it only after Router.AddRoute's cycle check
// has passed.
func (t *Track) addRoute(target trackid.ID, volume dsp.Volume) {
	t.routes = append(t.routes, newRoute(target, volume))
}

// SetRouteVolume begins tweening an existing route's volume toward
// target; a no-op if no route to target exists.
func (t *Track) SetRouteVolume(target trackid.ID, volume dsp.Volume, tw tween.Tween) {
	for i := range t.routes {
		if t.routes[i].target == target {
			t.routes[i].volume.Set(volume, tw)
			return
		}
	}
}

// RemoveRoute deletes the route to target, if one exists.
func (t *Track) RemoveRoute(target trackid.ID) {
	for i := range t.routes {
		if t.routes[i].target == target {
			t.routes = append(t.routes[:i], t.routes[i+1:]...)
			return
		}
	}
}

// routeTargets returns the destination of every outgoing route.
// Router.AddRoute's cycle-detection DFS walks the Router's own shadow of
// the graph, not this.
func (t *Track) routeTargets() []trackid.ID {
	targets := make([]trackid.ID, len(t.routes))
	for i, r := range t.routes {
		targets[i] = r.target
	}
	return targets
}

// forEachRoute calls fn with each route's target and its currently
// tweened volume, for Tracks.ProcessAll to scale this frame's output
// before adding it into each destination's input accumulator.
func (t *Track) forEachRoute(fn func(target trackid.ID, volume dsp.Volume)) {
	for _, r := range t.routes {
		fn(r.target, r.volume.Value())
	}
}
