package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/spatial"
	"github.com/gosound/resonance/pkg/trackid"
)

// newScene builds a Scene plus the Handle a manager would hold for it,
// using an arbitrary scene key since these tests never route back through
// a manager's own scene arena.
func newScene(t *testing.T, settings spatial.Settings) (*spatial.Scene, spatial.Handle) {
	t.Helper()
	sceneKey, err := arena.NewController(1).TryReserve()
	require.NoError(t, err)
	scene, controllers := spatial.NewScene(settings)
	return scene, spatial.NewHandle(sceneKey, controllers, &spatial.SceneShared{})
}

// addEmitter reserves and inserts a live emitter, returning its ID for use
// as a sound's Settings.Track target.
func addEmitter(t *testing.T, scene *spatial.Scene, handle spatial.Handle, settings spatial.EmitterSettings) trackid.ID {
	t.Helper()
	eh, cons, err := handle.AddEmitter(settings)
	require.NoError(t, err)
	scene.InsertEmitter(eh.ID().Key(), spatial.NewEmitter(settings, cons, eh.Shared()), eh.Shared())
	return eh.ID()
}

// addListener reserves and inserts a live listener, returning its handle.
func addListener(t *testing.T, scene *spatial.Scene, handle spatial.Handle, settings spatial.ListenerSettings) spatial.ListenerHandle {
	t.Helper()
	lh, cons, err := handle.AddListener(settings)
	require.NoError(t, err)
	scene.InsertListener(lh.Key(), spatial.NewListener(settings, cons), lh.Shared())
	return lh
}

// TestListenerPassesThroughUnspatializedEmitter reproduces spec.md §4.9's
// base case: an emitter with spatialization disabled and no attenuation
// range contributes its input to the listener's mix unmodified.
func TestListenerPassesThroughUnspatializedEmitter(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	emitterID := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().WithSpatialization(false))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(emitterID, dsp.Frame{Left: 1, Right: 1})

	out := scene.ProcessAll()
	require.Len(t, out, 1)
	assert.InDelta(t, 1.0, out[0].Frame.Left, 1e-6)
	assert.InDelta(t, 1.0, out[0].Frame.Right, 1e-6)
}

// TestDistanceAttenuationFadesWithRange checks that an emitter placed at
// the far edge of its attenuation range is audibly quieter than one at
// the near edge, per spec.md §4.9's decibel-interpolated falloff.
func TestDistanceAttenuationFadesWithRange(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	near := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().
		WithSpatialization(false).
		WithPosition(dsp.Vec3{X: 1}).
		WithAttenuation(0, 10, spatial.LinearAttenuation))
	far := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().
		WithSpatialization(false).
		WithPosition(dsp.Vec3{X: 9}).
		WithAttenuation(0, 10, spatial.LinearAttenuation))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(near, dsp.Frame{Left: 1, Right: 1})
	nearOut := scene.ProcessAll()
	require.Len(t, nearOut, 1)

	scene.AddEmitterInput(far, dsp.Frame{Left: 1, Right: 1})
	farOut := scene.ProcessAll()
	require.Len(t, farOut, 1)

	assert.Greater(t, nearOut[0].Frame.Left, farOut[0].Frame.Left)
	assert.Less(t, farOut[0].Frame.Left, float32(1.0))
}

// TestDistanceAttenuationSilentBeyondMax checks the edge case at or beyond
// Distances.Max: full silence rather than a negative or clipped gain.
func TestDistanceAttenuationSilentBeyondMax(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	emitterID := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().
		WithSpatialization(false).
		WithPosition(dsp.Vec3{X: 100}).
		WithAttenuation(0, 10, spatial.LinearAttenuation))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(emitterID, dsp.Frame{Left: 1, Right: 1})

	out := scene.ProcessAll()
	require.Len(t, out, 1)
	assert.InDelta(t, 0, out[0].Frame.Left, 1e-6)
	assert.InDelta(t, 0, out[0].Frame.Right, 1e-6)
}

// TestSpatializationPansTowardNearEar checks ear-difference panning: an
// emitter directly on the listener's left pans almost entirely to the
// left channel.
func TestSpatializationPansTowardNearEar(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	emitterID := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().
		WithSpatialization(true).
		WithPosition(dsp.Vec3{X: -10}))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(emitterID, dsp.Frame{Left: 1, Right: 1})

	out := scene.ProcessAll()
	require.Len(t, out, 1)
	assert.Greater(t, out[0].Frame.Left, out[0].Frame.Right)
}

// TestListenerFoldsMultipleEmitters checks that a listener's mix is the
// sum of every live emitter's contribution, per spec.md §4.9's "folds
// every live emitter's output into a single mixed frame".
func TestListenerFoldsMultipleEmitters(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	a := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().WithSpatialization(false))
	b := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().WithSpatialization(false))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(a, dsp.Frame{Left: 0.3, Right: 0.3})
	scene.AddEmitterInput(b, dsp.Frame{Left: 0.4, Right: 0.4})

	out := scene.ProcessAll()
	require.Len(t, out, 1)
	assert.InDelta(t, 0.7, out[0].Frame.Left, 1e-6)
}

// TestListenerRoutesToConfiguredTrack checks that ProcessAll pairs each
// listener's mix with the trackid it was configured with, rather than
// always Main.
func TestListenerRoutesToConfiguredTrack(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	subKey, err := arena.NewController(1).TryReserve()
	require.NoError(t, err)
	sub := trackid.Sub(subKey)

	addListener(t, scene, handle, spatial.DefaultListenerSettings().WithTrack(sub))

	out := scene.ProcessAll()
	require.Len(t, out, 1)
	assert.Equal(t, sub, out[0].Track)
}

// TestEmitterInputIsClearedEachFrame checks that Emitter.Output resets the
// accumulator, so a frame with no new AddInput calls contributes silence
// rather than repeating the previous frame's input.
func TestEmitterInputIsClearedEachFrame(t *testing.T) {
	scene, handle := newScene(t, spatial.DefaultSettings())

	emitterID := addEmitter(t, scene, handle, spatial.DefaultEmitterSettings().WithSpatialization(false))
	addListener(t, scene, handle, spatial.DefaultListenerSettings())

	scene.AddEmitterInput(emitterID, dsp.Frame{Left: 1, Right: 1})
	first := scene.ProcessAll()
	require.Len(t, first, 1)
	assert.InDelta(t, 1.0, first[0].Frame.Left, 1e-6)

	second := scene.ProcessAll()
	require.Len(t, second, 1)
	assert.InDelta(t, 0, second[0].Frame.Left, 1e-6)
}

// TestInverseSquareAttenuationFallsOffFasterThanLinear cross-checks the
// two built-in AttenuationFunctions at the same midpoint distance.
func TestInverseSquareAttenuationFallsOffFasterThanLinear(t *testing.T) {
	linear := spatial.LinearAttenuation(0.5)
	inverseSquare := spatial.InverseSquareAttenuation(0.5)
	assert.Less(t, inverseSquare, linear)
	assert.True(t, math.Abs(inverseSquare-0.25) < 1e-9)
}
