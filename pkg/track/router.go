package track

import (
	"sync"

	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// pusher is the minimal capability Router needs from a track handle to
// queue a route command; both sub-track Handle and the Main track's
// Handle (from NewMainHandlePair) satisfy it.
type pusher interface {
	ID() trackid.ID
	push(cmd Command) error
}

// Router is the control-thread-side keeper of the mixer graph's full
// topology. It exists because AddRoute's cycle-rejection DFS (spec.md §9)
// needs every track's route list at once, and Track route lists are
// audio-thread-exclusive state the control thread never reads directly —
// so Router keeps its own shadow of the graph, updated optimistically as
// routes are added and removed through it.
type Router struct {
	mu     sync.Mutex
	routes map[trackid.ID][]trackid.ID
}

// NewRouter returns an empty Router, one per AudioManager/mixer instance.
func NewRouter() *Router {
	return &Router{routes: make(map[trackid.ID][]trackid.ID)}
}

// Seed records a track's build-time routes (from its Builder.Routes), so
// later AddRoute calls see a complete graph from the moment a track is
// created rather than only the routes added afterward.
func (r *Router) Seed(from trackid.ID, specs []RouteSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		r.routes[from] = append(r.routes[from], s.Target)
	}
}

// AddRoute adds a route from `from` to `to`, scaled by volume. The route
// takes that volume at once: tw travels with the command but the track
// does not apply it. It is rejected with ErrRouteCycle if `from` is already
// reachable from `to` by following recorded routes — adding the edge
// would close a cycle back on itself.
func (r *Router) AddRoute(from pusher, to trackid.ID, volume dsp.Volume, tw tween.Tween) error {
	r.mu.Lock()
	if r.reaches(to, from.ID(), make(map[trackid.ID]bool)) {
		r.mu.Unlock()
		return rterr.ErrRouteCycle
	}
	r.routes[from.ID()] = append(r.routes[from.ID()], to)
	r.mu.Unlock()

	if err := from.push(Command{Kind: CmdAddRoute, Target: to, Volume: volume, Tween: tw}); err != nil {
		r.forget(from.ID(), to)
		return err
	}
	return nil
}

// RemoveRoute removes the recorded edge from `from` to `to` and queues the
// command that deletes it on the audio thread.
func (r *Router) RemoveRoute(from pusher, to trackid.ID) error {
	r.forget(from.ID(), to)
	return from.push(Command{Kind: CmdRemoveRoute, Target: to})
}

func (r *Router) forget(from, to trackid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	edges := r.routes[from]
	for i, t := range edges {
		if t == to {
			r.routes[from] = append(edges[:i], edges[i+1:]...)
			return
		}
	}
}

// reaches reports whether target is reachable from start by following
// recorded routes, depth-first. Called with r.mu held.
func (r *Router) reaches(start, target trackid.ID, seen map[trackid.ID]bool) bool {
	if start == target {
		return true
	}
	if seen[start] {
		return false
	}
	seen[start] = true
	for _, next := range r.routes[start] {
		if r.reaches(next, target, seen) {
			return true
		}
	}
	return false
}
