package manager

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/spatial"
	"github.com/gosound/resonance/pkg/trackid"
)

// sceneEntry pairs a live Scene with its SceneShared removal flag.
type sceneEntry struct {
	scene  *spatial.Scene
	shared *spatial.SceneShared
}

// scenes is the audio-thread arena of every currently live spatial scene.
type scenes struct {
	arena *arena.Arena[sceneEntry]
}

func newScenes(controller *arena.Controller) *scenes {
	return &scenes{arena: arena.New[sceneEntry](controller)}
}

func (s *scenes) insert(c sceneClaim) {
	s.arena.Insert(c.key, sceneEntry{scene: c.scene, shared: c.shared})
}

func (s *scenes) get(key arena.Key) *spatial.Scene {
	e := s.arena.Get(key)
	if e == nil {
		return nil
	}
	return e.scene
}

// insertEmitter routes a claimed Emitter into the scene it belongs to, if
// that scene is still live. A claim for an already-removed scene is a
// silent no-op, mirroring every other stale-resource path in this module.
func (s *scenes) insertEmitter(c emitterClaim) {
	if scene := s.get(c.sceneKey); scene != nil {
		scene.InsertEmitter(c.key, c.emitter, c.shared)
	}
}

func (s *scenes) insertListener(c listenerClaim) {
	if scene := s.get(c.sceneKey); scene != nil {
		scene.InsertListener(c.key, c.listener, c.shared)
	}
}

// onStartProcessing drains every scene's emitter/listener command rings
// before this frame's processAll.
func (s *scenes) onStartProcessing() {
	s.arena.Each(func(_ arena.Key, e *sceneEntry) { e.scene.OnStartProcessing() })
}

// addEmitterInput routes f into the named emitter's input accumulator,
// resolving id's scene first. A stale scene or emitter is a silent no-op.
func (s *scenes) addEmitterInput(id trackid.ID, f dsp.Frame) {
	if scene := s.get(id.SceneKey()); scene != nil {
		scene.AddEmitterInput(id, f)
	}
}

// listenerDestination pairs a listener's mixed output with its target track.
type listenerDestination struct {
	track trackid.ID
	frame dsp.Frame
}

// processAll has every live scene fold its emitters into each of its
// listeners' mixes, returning every listener's result across every scene.
func (s *scenes) processAll() []listenerDestination {
	var out []listenerDestination
	s.arena.Each(func(_ arena.Key, e *sceneEntry) {
		for _, d := range e.scene.ProcessAll() {
			out = append(out, listenerDestination{track: d.Track, frame: d.Frame})
		}
	})
	return out
}

// removeFinished takes out every scene marked for removal, after first
// draining its own emitters'/listeners' finished resources (which the
// renderer still needs to forward to the unused-resource ring even though
// the whole scene is going away too).
func (s *scenes) removeFinished() ([]*spatial.Scene, []*spatial.Emitter, []*spatial.Listener) {
	var removedEmitters []*spatial.Emitter
	var removedListeners []*spatial.Listener
	s.arena.Each(func(_ arena.Key, e *sceneEntry) {
		removedEmitters = append(removedEmitters, e.scene.RemoveFinishedEmitters()...)
		removedListeners = append(removedListeners, e.scene.RemoveFinishedListeners()...)
	})

	var removedScenes []*spatial.Scene
	var toRemove []arena.Key
	s.arena.Each(func(k arena.Key, e *sceneEntry) {
		if e.shared.MarkedForRemoval() {
			toRemove = append(toRemove, k)
		}
	})
	for _, k := range toRemove {
		if v, ok := s.arena.Remove(k); ok {
			removedScenes = append(removedScenes, v.scene)
		}
	}
	return removedScenes, removedEmitters, removedListeners
}
