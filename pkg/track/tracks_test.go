package track_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/track"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

func newMain(t *testing.T) *track.Track {
	t.Helper()
	_, cons := ring.New[track.Command](1)
	return track.New(track.Builder{Settings: track.Default()}, cons)
}

// addPassthroughSub inserts a sub-track with a single route to Main at
// routeVolume and no effects, returning the trackid.ID a sound would
// target to feed it.
func addPassthroughSub(t *testing.T, ts *track.Tracks, controller *arena.Controller, routeVolume dsp.Volume) trackid.ID {
	t.Helper()
	key, err := controller.TryReserve()
	require.NoError(t, err)
	builder := track.NewBuilder().WithoutDefaultRoute().WithRoute(trackid.Main(), routeVolume)
	_, cons := ring.New[track.Command](1)
	sub := track.New(builder, cons)
	ts.Insert(key, sub, &track.Shared{})
	return trackid.Sub(key)
}

// TestTwoSubTracksRouteToMain reproduces spec.md §8 scenario 6: two
// sub-tracks route to Main with volumes 0.5 and 0.25; each receives a
// Frame(1.0). Main output = 0.75 * main_volume.
func TestTwoSubTracksRouteToMain(t *testing.T) {
	controller := arena.NewController(4)
	main := newMain(t)
	ts := track.NewTracks(main, controller)

	idA := addPassthroughSub(t, ts, controller, dsp.Amplitude(0.5))
	idB := addPassthroughSub(t, ts, controller, dsp.Amplitude(0.25))

	ts.Init(1)

	one := dsp.Frame{Left: 1, Right: 1}
	ts.OnStartProcessing()
	ts.AddInput(idA, one)
	ts.AddInput(idB, one)

	out := ts.ProcessAll(1)
	assert.InDelta(t, 0.75, out.Left, 1e-6)
	assert.InDelta(t, 0.75, out.Right, 1e-6)
}

// TestRouterRejectsCycle checks spec.md §9: a route that would close a
// cycle is rejected at add time via DFS from the proposed target.
func TestRouterRejectsCycle(t *testing.T) {
	controller := arena.NewController(4)
	router := track.NewRouter()

	keyA, err := controller.TryReserve()
	require.NoError(t, err)
	handleA, _ := track.NewHandlePair(keyA, &track.Shared{})
	router.Seed(handleA.ID(), nil)

	keyB, err := controller.TryReserve()
	require.NoError(t, err)
	handleB, _ := track.NewHandlePair(keyB, &track.Shared{})
	router.Seed(handleB.ID(), nil)

	require.NoError(t, router.AddRoute(handleA, handleB.ID(), dsp.Decibels(0), tween.Default()))

	err = router.AddRoute(handleB, handleA.ID(), dsp.Decibels(0), tween.Default())
	assert.ErrorIs(t, err, rterr.ErrRouteCycle)
}
