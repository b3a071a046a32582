// Package manager implements spec.md §4.11's "Manager & renderer entry":
// Manager.New allocates every resource arena and command ring at the
// configured capacities and splits into a control-side Manager (reserving
// slots, pushing commands and claims) and an audio-side Renderer (owning
// the arenas, driven by a Backend). Grounded on the teacher's
// Player/RealtimeOutput split (pkg/audio/player.go, pkg/audio/realtime.go)
// generalized from one fixed oscillator voice list to resonance's full
// sound/clock/track/spatial-scene resource model.
package manager

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/sound/static"
	"github.com/gosound/resonance/pkg/sound/streaming"
	"github.com/gosound/resonance/pkg/spatial"
	"github.com/gosound/resonance/pkg/track"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// SoundHandle is the control-thread-side surface common to a playing
// static or streaming sound (spec.md §6, "Handle surfaces: Sound").
// static.Handle and streaming.Handle both satisfy it structurally; this
// interface is what lets Manager.Play return one type regardless of
// which kind of sound data it was given.
type SoundHandle interface {
	State() soundpkg.State
	Position() float64
	Finished() bool
	SetVolume(dsp.Volume, tween.Tween) error
	SetPanning(float64, tween.Tween) error
	SetPlaybackRate(float64, tween.Tween) error
	Pause(tween.Tween) error
	Resume(tween.Tween) error
	Stop(tween.Tween) error
	SeekTo(float64) error
	SeekBy(float64) error
	Remove()
}

// Manager is the control-thread-side surface of an audio engine instance:
// `play`, `add_clock`, `add_sub_track`, `add_spatial_scene`, and
// `main_track` from spec.md §6. Its methods may run concurrently with
// the Renderer's audio-thread calls, since all cross-thread communication
// goes through the lock-free primitives in pkg/ring and pkg/arena. Those
// rings and arena free lists are single-producer, so calls into one
// Manager (and into the handles it returns) must not run concurrently
// with each other.
type Manager struct {
	settings Settings

	soundsController *arena.Controller
	clocksController *arena.Controller
	tracksController *arena.Controller
	scenesController *arena.Controller

	soundClaims    ring.Producer[soundClaim]
	clockClaims    ring.Producer[clockClaim]
	subTrackClaims ring.Producer[subTrackClaim]
	sceneClaims    ring.Producer[sceneClaim]
	emitterClaims  ring.Producer[emitterClaim]
	listenerClaims ring.Producer[listenerClaim]

	unused ring.Consumer[unusedResource]

	router    *track.Router
	mainTrack track.Handle
}

// New allocates a Manager/Renderer pair at the given sample rate and
// settings. The Renderer is not yet driven by anything; a Backend (see
// backend.go) calls OnStartProcessing/Process/OnChangeSampleRate.
func New(sampleRate uint32, settings Settings) (*Manager, *Renderer) {
	soundsController := arena.NewController(settings.SoundCapacity)
	clocksController := arena.NewController(settings.ClockCapacity)
	tracksController := arena.NewController(settings.SubTrackCapacity)
	scenesController := arena.NewController(settings.SpatialSceneCapacity)

	soundClaimProd, soundClaimCons := ring.New[soundClaim](settings.CommandCapacity)
	clockClaimProd, clockClaimCons := ring.New[clockClaim](settings.CommandCapacity)
	subTrackClaimProd, subTrackClaimCons := ring.New[subTrackClaim](settings.CommandCapacity)
	sceneClaimProd, sceneClaimCons := ring.New[sceneClaim](settings.CommandCapacity)
	emitterClaimProd, emitterClaimCons := ring.New[emitterClaim](settings.CommandCapacity)
	listenerClaimProd, listenerClaimCons := ring.New[listenerClaim](settings.CommandCapacity)
	unusedProd, unusedCons := ring.New[unusedResource](settings.CommandCapacity)

	mainHandle, mainCommands := track.NewMainHandlePair()
	mainTrack := track.New(settings.MainTrackBuilder, mainCommands)

	router := track.NewRouter()
	router.Seed(mainHandle.ID(), settings.MainTrackBuilder.Routes)

	renderer := &Renderer{
		sampleRate:     sampleRate,
		sounds:         newSounds(soundsController),
		clocks:         clock.NewClocks(clocksController),
		tracks:         track.NewTracks(mainTrack, tracksController),
		scenes:         newScenes(scenesController),
		soundClaims:    soundClaimCons,
		clockClaims:    clockClaimCons,
		subTrackClaims: subTrackClaimCons,
		sceneClaims:    sceneClaimCons,
		emitterClaims:  emitterClaimCons,
		listenerClaims: listenerClaimCons,
		unused:         unusedProd,
	}
	renderer.tracks.Init(sampleRate)

	m := &Manager{
		settings:         settings,
		soundsController: soundsController,
		clocksController: clocksController,
		tracksController: tracksController,
		scenesController: scenesController,
		soundClaims:      soundClaimProd,
		clockClaims:      clockClaimProd,
		subTrackClaims:   subTrackClaimProd,
		sceneClaims:      sceneClaimProd,
		emitterClaims:    emitterClaimProd,
		listenerClaims:   listenerClaimProd,
		unused:           unusedCons,
		router:           router,
		mainTrack:        mainHandle,
	}
	return m, renderer
}

// MainTrack returns the handle to the mixer's always-present Main track.
func (m *Manager) MainTrack() track.Handle { return m.mainTrack }

// Play reserves a sound slot and constructs a Sound from data, which must
// be a static.Data or streaming.Data (spec.md §6: `play(sound_data) →
// Handle`). Returns ErrResourceLimitReached if the sound arena is full.
func (m *Manager) Play(data any) (SoundHandle, error) {
	switch d := data.(type) {
	case static.Data:
		return m.playStatic(d)
	case streaming.Data:
		return m.playStreaming(d)
	default:
		return nil, fmt.Errorf("manager: unsupported sound data type %T", data)
	}
}

func (m *Manager) playStatic(data static.Data) (static.Handle, error) {
	key, err := m.soundsController.TryReserve()
	if err != nil {
		return static.Handle{}, rterr.ErrResourceLimitReached
	}
	shared := static.NewShared()
	handle, cons := static.NewHandlePair(key, shared)
	sound := static.New(data, cons, shared)
	claim := soundClaim{key: key, sound: sound, target: data.Settings.Track, removed: shared.MarkedForRemoval}
	if !m.soundClaims.Push(claim) {
		return static.Handle{}, rterr.ErrCommandQueueFull
	}
	log.Debug("Manager: sound created", "kind", "static", "track", data.Settings.Track)
	return handle, nil
}

func (m *Manager) playStreaming(data streaming.Data) (streaming.Handle, error) {
	key, err := m.soundsController.TryReserve()
	if err != nil {
		return streaming.Handle{}, rterr.ErrResourceLimitReached
	}
	shared := streaming.NewShared()
	handle, cons := streaming.NewHandlePair(key, shared)
	sound := streaming.New(data.Decoder, data.Settings, cons, shared)
	claim := soundClaim{key: key, sound: sound, target: data.Settings.Track, removed: shared.MarkedForRemoval}
	if !m.soundClaims.Push(claim) {
		return streaming.Handle{}, rterr.ErrCommandQueueFull
	}
	log.Debug("Manager: sound created", "kind", "streaming", "track", data.Settings.Track)
	return handle, nil
}

// AddClock reserves a clock slot and returns its Handle, ticking at
// speed, started paused.
func (m *Manager) AddClock(speed clock.Speed) (clock.Handle, error) {
	key, err := m.clocksController.TryReserve()
	if err != nil {
		return clock.Handle{}, rterr.ErrResourceLimitReached
	}
	c := clock.New(uint64(key.Index()), speed)
	handle, cons := clock.NewHandlePair(key, c.Shared())
	if !m.clockClaims.Push(clockClaim{key: key, clock: c, commands: cons}) {
		return clock.Handle{}, rterr.ErrCommandQueueFull
	}
	log.Debug("Manager: clock created", "id", c.ID())
	return handle, nil
}

// AddSubTrack reserves a sub-track slot, builds it from builder, and seeds
// its build-time routes into the Router, returning its Handle.
func (m *Manager) AddSubTrack(builder track.Builder) (track.Handle, error) {
	key, err := m.tracksController.TryReserve()
	if err != nil {
		return track.Handle{}, rterr.ErrResourceLimitReached
	}
	shared := &track.Shared{}
	handle, cons := track.NewHandlePair(key, shared)
	t := track.New(builder, cons)
	claim := subTrackClaim{key: key, track: t, shared: shared}
	if !m.subTrackClaims.Push(claim) {
		return track.Handle{}, rterr.ErrCommandQueueFull
	}
	m.router.Seed(handle.ID(), builder.Routes)
	log.Debug("Manager: sub-track created", "id", handle.ID())
	return handle, nil
}

// AddRoute adds a route from one track to another, scaled by volume. The
// route takes that volume at once; tw is not applied to it. Rejected with
// ErrRouteCycle if it would close a cycle.
func (m *Manager) AddRoute(from track.Handle, to trackid.ID, volume dsp.Volume, tw tween.Tween) error {
	return m.router.AddRoute(from, to, volume, tw)
}

// AddSpatialScene reserves a scene slot and builds an empty Scene ready
// to have emitters and listeners added to it, returning its Handle.
func (m *Manager) AddSpatialScene(settings spatial.Settings) (spatial.Handle, error) {
	key, err := m.scenesController.TryReserve()
	if err != nil {
		return spatial.Handle{}, rterr.ErrResourceLimitReached
	}
	scene, controllers := spatial.NewScene(settings)
	shared := &spatial.SceneShared{}
	if !m.sceneClaims.Push(sceneClaim{key: key, scene: scene, controllers: controllers, shared: shared}) {
		return spatial.Handle{}, rterr.ErrCommandQueueFull
	}
	handle := spatial.NewHandle(key, controllers, shared)
	log.Debug("Manager: spatial scene created")
	return handle, nil
}

// AddEmitter reserves an emitter slot within scene and constructs the
// audio-thread Emitter, returning its EmitterHandle.
func (m *Manager) AddEmitter(scene spatial.Handle, settings spatial.EmitterSettings) (spatial.EmitterHandle, error) {
	handle, cons, err := scene.AddEmitter(settings)
	if err != nil {
		return spatial.EmitterHandle{}, err
	}
	emitter := spatial.NewEmitter(settings, cons, handle.Shared())
	claim := emitterClaim{
		sceneKey: handle.ID().SceneKey(),
		key:      handle.ID().Key(),
		emitter:  emitter,
		shared:   handle.Shared(),
	}
	if !m.emitterClaims.Push(claim) {
		return spatial.EmitterHandle{}, rterr.ErrCommandQueueFull
	}
	return handle, nil
}

// AddListener reserves a listener slot within scene and constructs the
// audio-thread Listener, returning its ListenerHandle.
func (m *Manager) AddListener(scene spatial.Handle, settings spatial.ListenerSettings) (spatial.ListenerHandle, error) {
	handle, cons, err := scene.AddListener(settings)
	if err != nil {
		return spatial.ListenerHandle{}, err
	}
	listener := spatial.NewListener(settings, cons)
	claim := listenerClaim{
		sceneKey: handle.SceneKey(),
		key:      handle.Key(),
		listener: listener,
		shared:   handle.Shared(),
	}
	if !m.listenerClaims.Push(claim) {
		return spatial.ListenerHandle{}, rterr.ErrCommandQueueFull
	}
	return handle, nil
}

// CollectGarbage drains every resource the audio thread has finished
// with since the last call and returns how many were dropped. A
// caller-driven housekeeping step (a ticker goroutine, or called
// alongside the backend callback) rather than something the Renderer
// itself does, since freeing memory is not a real-time-safe operation to
// force onto the audio thread's own call stack.
func (m *Manager) CollectGarbage() int {
	n := 0
	for {
		_, ok := m.unused.Pop()
		if !ok {
			if n > 0 {
				log.Debug("Manager: collected garbage", "count", n)
			}
			return n
		}
		n++
	}
}
