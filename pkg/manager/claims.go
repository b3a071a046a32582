package manager

import (
	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/ring"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/spatial"
	"github.com/gosound/resonance/pkg/track"
	"github.com/gosound/resonance/pkg/trackid"
)

// A resource created by the control thread (a sound, clock, sub-track or
// spatial scene) doesn't exist on the audio thread until its "claim" — the
// already-constructed value plus the arena.Key it was reserved at — is
// pushed across one of these rings and drained by Renderer.OnStartProcessing.
// This is the same two-step reserve-then-claim split every resource kind's
// doc comment already refers to (pkg/arena/arena.go, clock.Clocks.Insert,
// track.Tracks.Insert, spatial.Scene.InsertEmitter/InsertListener).

// soundClaim hands the renderer a newly constructed Sound plus the track
// or emitter it should be routed to; removed reports whether its Handle's
// shared state has been marked for removal (bound to the concrete
// static.Shared or streaming.Shared without naming either package here).
type soundClaim struct {
	key     arena.Key
	sound   soundpkg.Sound
	target  trackid.ID
	removed func() bool
}

type clockClaim struct {
	key      arena.Key
	clock    *clock.Clock
	commands ring.Consumer[clock.Command]
}

type subTrackClaim struct {
	key    arena.Key
	track  *track.Track
	shared *track.Shared
}

type sceneClaim struct {
	key         arena.Key
	scene       *spatial.Scene
	controllers spatial.Controllers
	shared      *spatial.SceneShared
}

type emitterClaim struct {
	sceneKey arena.Key
	key      arena.Key
	emitter  *spatial.Emitter
	shared   *spatial.EmitterShared
}

type listenerClaim struct {
	sceneKey arena.Key
	key      arena.Key
	listener *spatial.Listener
	shared   *spatial.ListenerShared
}
