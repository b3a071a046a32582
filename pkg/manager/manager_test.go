package manager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/manager"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/sound/static"
	"github.com/gosound/resonance/pkg/spatial"
	"github.com/gosound/resonance/pkg/track"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

func newManager(t *testing.T, settings manager.Settings) (*manager.Manager, *manager.MockBackend) {
	t.Helper()
	m, r := manager.New(1, settings)
	backend := &manager.MockBackend{}
	require.NoError(t, backend.Install(r))
	return m, backend
}

func constantData(value float32, frames int) static.Data {
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = value
	}
	return static.NewData(1, static.FromF32Mono(samples))
}

// TestPlaySoundReachesMainTrack reproduces spec.md §8 scenario 1: a
// sound played with default settings (routed to Main, full volume,
// centered panning) contributes its samples to the main track's output,
// each channel scaled by the center pan gain cos(pi/4).
func TestPlaySoundReachesMainTrack(t *testing.T) {
	m, backend := newManager(t, manager.Default())

	_, err := m.Play(constantData(1.0, 3))
	require.NoError(t, err)

	center := dsp.FromMono(1.0).Panned(0.5)
	out := backend.Tick(3, 1)
	for i, f := range out {
		assert.InDelta(t, center.Left, f.Left, 1e-6, "frame %d", i)
		assert.InDelta(t, center.Right, f.Right, 1e-6, "frame %d", i)
	}
}

// TestPlayResourceLimitReached reproduces spec.md §9: once the sound
// arena is full, Play returns ErrResourceLimitReached instead of
// blocking or panicking.
func TestPlayResourceLimitReached(t *testing.T) {
	m, _ := newManager(t, manager.Default().WithSoundCapacity(1))

	_, err := m.Play(constantData(0, 1))
	require.NoError(t, err)

	_, err = m.Play(constantData(0, 1))
	assert.ErrorIs(t, err, rterr.ErrResourceLimitReached)
}

// TestSubTrackRouting reproduces spec.md §8 scenario 6 through the
// Manager's public surface: a sound routed to a sub-track reaches Main
// scaled by the sub-track's route volume (on top of its own center pan
// gain).
func TestSubTrackRouting(t *testing.T) {
	m, backend := newManager(t, manager.Default())

	sub, err := m.AddSubTrack(track.NewBuilder().WithoutDefaultRoute().WithRoute(trackid.Main(), dsp.Amplitude(0.5)))
	require.NoError(t, err)

	data := constantData(1.0, 1).WithSettings(static.Default().WithTrack(sub.ID()))
	_, err = m.Play(data)
	require.NoError(t, err)

	center := dsp.FromMono(1.0).Panned(0.5)
	out := backend.Tick(1, 1)
	assert.InDelta(t, 0.5*center.Left, out[0].Left, 1e-6)
}

// TestAddRouteRejectsCycle checks that Manager.AddRoute surfaces the
// Router's cycle rejection (spec.md §9).
func TestAddRouteRejectsCycle(t *testing.T) {
	m, _ := newManager(t, manager.Default())

	a, err := m.AddSubTrack(track.NewBuilder().WithoutDefaultRoute())
	require.NoError(t, err)
	b, err := m.AddSubTrack(track.NewBuilder().WithoutDefaultRoute())
	require.NoError(t, err)

	require.NoError(t, m.AddRoute(a, b.ID(), dsp.Decibels(0), tween.Default()))
	err = m.AddRoute(b, a.ID(), dsp.Decibels(0), tween.Default())
	assert.ErrorIs(t, err, rterr.ErrRouteCycle)
}

// TestClockTicksThroughManager checks that a clock reserved and
// started through the Manager advances under Process, at the rate
// spec.md §8 scenario 5 names: one tick per second at Speed 1, so four
// frames of dt=0.25 produce exactly one tick.
func TestClockTicksThroughManager(t *testing.T) {
	m, backend := newManager(t, manager.Default())

	clockHandle, err := m.AddClock(clock.Speed{Kind: clock.TicksPerSecond, Value: 1})
	require.NoError(t, err)
	require.NoError(t, clockHandle.Start())

	out := backend.Tick(4, 0.25)
	require.Len(t, out, 4)
	assert.Equal(t, uint64(1), clockHandle.Time())
}

// TestSpatialSceneRoutesListenerOutput exercises the emitter/listener
// pipeline end to end: a sound routed to an emitter reaches a listener's
// target track once the scene folds emitters into listeners each frame.
func TestSpatialSceneRoutesListenerOutput(t *testing.T) {
	m, backend := newManager(t, manager.Default())

	scene, err := m.AddSpatialScene(spatial.DefaultSettings())
	require.NoError(t, err)

	emitter, err := m.AddEmitter(scene, spatial.DefaultEmitterSettings().WithSpatialization(false))
	require.NoError(t, err)

	_, err = m.AddListener(scene, spatial.DefaultListenerSettings().WithTrack(m.MainTrack().ID()))
	require.NoError(t, err)

	data := constantData(1.0, 2).WithSettings(static.Default().WithTrack(emitter.ID()))
	_, err = m.Play(data)
	require.NoError(t, err)

	center := dsp.FromMono(1.0).Panned(0.5)
	out := backend.Tick(2, 1)
	require.Len(t, out, 2)
	assert.InDelta(t, center.Left, out[0].Left, 1e-6)
}

// TestCollectGarbageDrainsFinishedSounds reproduces spec.md §8 scenario
// 2/3's teardown half: once a sound finishes, the renderer pushes it
// onto the unused-resource ring and CollectGarbage drains it.
func TestCollectGarbageDrainsFinishedSounds(t *testing.T) {
	m, backend := newManager(t, manager.Default())

	_, err := m.Play(constantData(1.0, 1))
	require.NoError(t, err)

	backend.Tick(2, 1) // one frame of audio, then the sound is finished

	n := m.CollectGarbage()
	assert.GreaterOrEqual(t, n, 1)
}
