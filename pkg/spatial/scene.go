package spatial

import (
	"sync/atomic"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/trackid"
)

// Settings configures a Scene's emitter/listener capacities at creation.
type Settings struct {
	EmitterCapacity  int
	ListenerCapacity int
}

// DefaultSettings returns room for 16 emitters and 8 listeners per scene.
func DefaultSettings() Settings {
	return Settings{EmitterCapacity: 16, ListenerCapacity: 8}
}

// Scene is the audio-thread side of one spatial scene: an emitter arena
// and a listener arena, each with their own arena.Controller for the
// control thread to reserve slots from. A scene is itself a resource the
// manager's scene arena holds, so a whole scene can be created and torn
// down as a unit.
type Scene struct {
	emitters  *emitters
	listeners *listenersArena
}

// Controllers are the control-thread-side handles for reserving emitter
// and listener slots in a Scene, returned alongside it by NewScene.
type Controllers struct {
	Emitters  *arena.Controller
	Listeners *arena.Controller
}

// NewScene builds an empty Scene and its paired Controllers.
func NewScene(settings Settings) (*Scene, Controllers) {
	emitterController := arena.NewController(settings.EmitterCapacity)
	listenerController := arena.NewController(settings.ListenerCapacity)
	return &Scene{
			emitters:  newEmitters(emitterController),
			listeners: newListeners(listenerController),
		}, Controllers{
			Emitters:  emitterController,
			Listeners: listenerController,
		}
}

// InsertEmitter stores a newly created Emitter at key, as queued by a
// "claim" command from the control thread.
func (s *Scene) InsertEmitter(key arena.Key, e *Emitter, shared *EmitterShared) {
	s.emitters.insert(key, e, shared)
}

// InsertListener stores a newly created Listener at key.
func (s *Scene) InsertListener(key arena.Key, l *Listener, shared *ListenerShared) {
	s.listeners.insert(key, l, shared)
}

// OnStartProcessing drains every emitter's and listener's command ring
// before this frame's ProcessAll.
func (s *Scene) OnStartProcessing() {
	s.emitters.onStartProcessing()
	s.listeners.onStartProcessing()
}

// AddEmitterInput routes f into the named emitter's input accumulator,
// for the renderer's sound dispatch when a sound's Settings.Track names
// an emitter instead of a track. A stale or removed target is a silent
// no-op.
func (s *Scene) AddEmitterInput(id trackid.ID, f dsp.Frame) {
	e := s.emitters.get(id.Key())
	if e == nil {
		return
	}
	e.AddInput(f)
}

// Destination pairs a listener's mixed output with the track it should be
// routed into.
type Destination struct {
	Track trackid.ID
	Frame dsp.Frame
}

// ProcessAll has every listener fold all live emitters into its own mix
// (spec.md §4.9: "once per frame, each listener processes all emitters")
// and returns each listener's result paired with its target track, for
// the renderer to add into Tracks.
func (s *Scene) ProcessAll() []Destination {
	var out []Destination
	s.listeners.arena.Each(func(_ arena.Key, e *listenerEntry) {
		out = append(out, Destination{Track: e.listener.Track(), Frame: e.listener.Process(s.emitters)})
	})
	return out
}

// RemoveFinishedEmitters takes out every emitter marked for removal and
// returns them.
func (s *Scene) RemoveFinishedEmitters() []*Emitter { return s.emitters.removeFinished() }

// RemoveFinishedListeners takes out every listener marked for removal and
// returns them.
func (s *Scene) RemoveFinishedListeners() []*Listener { return s.listeners.removeFinished() }

// SceneShared is the cross-thread-visible state of a whole Scene resource
// (the manager's scene arena holds one per live scene).
type SceneShared struct {
	removed atomic.Bool
}

// MarkForRemoval is called by a Handle on drop or explicit removal.
func (sh *SceneShared) MarkForRemoval() { sh.removed.Store(true) }

// MarkedForRemoval reports whether MarkForRemoval has been called.
func (sh *SceneShared) MarkedForRemoval() bool { return sh.removed.Load() }

// Handle is the control-thread-side reference to a whole Scene: it owns
// the Controllers for reserving emitter/listener slots. Its AddEmitter and
// AddListener only reserve a slot and return the new handle plus command
// consumer; Manager.AddEmitter/AddListener build the audio-thread object
// and push the "claim" command. sceneKey is this scene's own key
// within manager.Renderer's scene arena, stamped onto every EmitterHandle
// it issues so sounds can be routed back to the right scene.
type Handle struct {
	sceneKey    arena.Key
	controllers Controllers
	shared      *SceneShared
}

// NewHandle wraps controllers and shared for a newly created Scene at
// sceneKey.
func NewHandle(sceneKey arena.Key, controllers Controllers, shared *SceneShared) Handle {
	return Handle{sceneKey: sceneKey, controllers: controllers, shared: shared}
}

// AddEmitter reserves an emitter slot and returns its Handle plus the
// consumer half manager.Renderer must insert into the Scene, or
// ErrResourceLimitReached if the emitter arena is full.
func (h Handle) AddEmitter(settings EmitterSettings) (EmitterHandle, ring.Consumer[EmitterCommand], error) {
	key, err := h.controllers.Emitters.TryReserve()
	if err != nil {
		return EmitterHandle{}, ring.Consumer[EmitterCommand]{}, rterr.ErrResourceLimitReached
	}
	shared := &EmitterShared{}
	handle, cons := NewEmitterHandlePair(h.sceneKey, key, shared)
	return handle, cons, nil
}

// AddListener reserves a listener slot and returns its Handle plus the
// consumer half manager.Renderer must insert into the Scene.
func (h Handle) AddListener(settings ListenerSettings) (ListenerHandle, ring.Consumer[ListenerCommand], error) {
	key, err := h.controllers.Listeners.TryReserve()
	if err != nil {
		return ListenerHandle{}, ring.Consumer[ListenerCommand]{}, rterr.ErrResourceLimitReached
	}
	shared := &ListenerShared{}
	handle, cons := NewListenerHandlePair(h.sceneKey, key, shared)
	return handle, cons, nil
}

// Remove marks the whole scene for removal.
func (h Handle) Remove() { h.shared.MarkForRemoval() }
