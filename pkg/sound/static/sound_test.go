package static_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/sound/static"
	"github.com/gosound/resonance/pkg/tween"
)

// indexedSamples builds n mono samples valued 0, 1, 2, ... n-1, matching
// the fixture kira's own static_sound test suite uses throughout.
func indexedSamples(n int) static.Samples {
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i)
	}
	return static.FromF32Mono(data)
}

// constSamples builds n mono samples all holding value, used where the
// test only cares about the fade/volume multiplier applied on top.
func constSamples(n int, value float32) static.Samples {
	data := make([]float32, n)
	for i := range data {
		data[i] = value
	}
	return static.FromF32Mono(data)
}

func newSound(t *testing.T, data static.Data) *static.Sound {
	t.Helper()
	_, cons := ring.New[static.Command](1)
	return static.New(data, cons, static.NewShared())
}

// expectFrameSoon advances sound up to 10 frames (the short resample
// window's inherent delay) looking for want, the same tolerance kira's own
// test suite allows.
func expectFrameSoon(t *testing.T, s *static.Sound, want dsp.Frame, dt float64) {
	t.Helper()
	for i := 0; i < 10; i++ {
		got := s.Process(dt)
		if got == want {
			return
		}
	}
	t.Fatalf("frame %v never observed within 10 frames", want)
}

func TestPlaysAllSamples(t *testing.T) {
	data := static.NewData(1, static.FromF32Mono([]float32{1, 2, 3}))
	data = data.WithSettings(data.Settings.WithPanning(0)) // left-only, so raw values compare directly
	s := newSound(t, data)

	assert.Equal(t, dsp.Frame{Left: 1, Right: 0}, s.Process(1))
	assert.Equal(t, dsp.Frame{Left: 2, Right: 0}, s.Process(1))
	assert.Equal(t, dsp.Frame{Left: 3, Right: 0}, s.Process(1))
	assert.False(t, s.Finished())

	for i := 0; i < 10; i++ {
		assert.Equal(t, dsp.Zero, s.Process(1))
	}
	assert.True(t, s.Finished())
	assert.Equal(t, soundpkg.Stopped, s.State())
}

func TestReportsPlaybackPosition(t *testing.T) {
	data := static.NewData(1, indexedSamples(10))
	s := newSound(t, data)

	for i := 0; i < 20; i++ {
		want := float64(i)
		if want > 10 {
			want = 10
		}
		assert.InDelta(t, want, s.PositionSeconds(), 1e-9)
		s.Process(1)
	}
}

func TestPausesAndResumesWithFades(t *testing.T) {
	data := static.NewData(1, constSamples(1000, 1))
	data = data.WithSettings(data.Settings.WithPanning(0))
	s := newSound(t, data)

	fadeTween := tween.Tween{Duration: 4 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()}
	s.Pause(fadeTween)

	expectDecibels := func(db float64) {
		out := s.Process(1)
		got := dsp.AmplitudeToDecibels(float64(out.Left))
		assert.InDelta(t, db, got, 1.0)
	}
	expectDecibels(-15)
	expectDecibels(-30)
	expectDecibels(-45)

	// settle into Paused
	for i := 0; i < 10 && s.State() != soundpkg.Paused; i++ {
		s.Process(1)
	}
	assert.Equal(t, soundpkg.Paused, s.State())

	s.Resume(fadeTween)
	expectDecibels(-45)
	expectDecibels(-30)
	expectDecibels(-15)

	for i := 0; i < 10 && s.State() != soundpkg.Playing; i++ {
		s.Process(1)
	}
	assert.Equal(t, soundpkg.Playing, s.State())
}

func TestStopsWithFadeOut(t *testing.T) {
	data := static.NewData(1, indexedSamples(1000))
	data = data.WithSettings(data.Settings.WithPanning(0))
	s := newSound(t, data)

	tw := tween.Tween{Duration: 4 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()}
	s.Stop(tw)

	posBefore := s.PositionSeconds()
	for i := 0; i < 20 && s.State() != soundpkg.Stopped; i++ {
		s.Process(1)
	}
	assert.True(t, s.Finished())
	assert.Equal(t, soundpkg.Stopped, s.State())

	// position freezes once stopped
	frozen := s.PositionSeconds()
	s.Process(1)
	assert.Equal(t, frozen, s.PositionSeconds())
	assert.Greater(t, frozen, posBefore)
}

func TestLoopsForward(t *testing.T) {
	data := static.NewData(1, indexedSamples(10))
	settings := data.Settings.WithLoopBehavior(&static.LoopBehavior{StartPosition: 3}).WithPanning(0)
	data = data.WithSettings(settings)
	s := newSound(t, data)

	for i := 0; i < 10; i++ {
		assert.Equal(t, dsp.Frame{Left: float32(i), Right: 0}, s.Process(1))
	}

	want := []float32{3, 6, 9, 5}
	for _, w := range want {
		assert.Equal(t, dsp.Frame{Left: w, Right: 0}, s.Process(3))
	}
}

func TestWaitsForStartTime(t *testing.T) {
	data := static.NewData(1, indexedSamples(5))
	settings := data.Settings.WithStartTime(tween.AtClockTime(1, 2)).WithPanning(0)
	data = data.WithSettings(settings)
	s := newSound(t, data)

	assert.Equal(t, dsp.Zero, s.Process(1))
	assert.Equal(t, dsp.Zero, s.Process(1))

	// wrong clock ID, should be ignored
	s.OnClockTick(clock.Time{ClockID: 2, Ticks: 5})
	assert.Equal(t, dsp.Zero, s.Process(1))

	// wrong (earlier) tick, should be ignored
	s.OnClockTick(clock.Time{ClockID: 1, Ticks: 1})
	assert.Equal(t, dsp.Zero, s.Process(1))

	s.OnClockTick(clock.Time{ClockID: 1, Ticks: 2})
	assert.Equal(t, dsp.Frame{Left: 0, Right: 0}, s.Process(1))
	assert.Equal(t, dsp.Frame{Left: 1, Right: 0}, s.Process(1))
}

func TestSeekToWhileLooping(t *testing.T) {
	data := static.NewData(1, indexedSamples(100))
	settings := data.Settings.WithLoopBehavior(&static.LoopBehavior{StartPosition: 5}).WithPanning(0)
	data = data.WithSettings(settings)
	s := newSound(t, data)

	s.SeekTo(120)
	assert.InDelta(t, 25.0, s.PositionSeconds(), 1e-9)
	expectFrameSoon(t, s, dsp.Frame{Left: 25, Right: 0}, 1)
}

func TestSetVolumePanningPlaybackRate(t *testing.T) {
	data := static.NewData(1, constSamples(10, 1))
	s := newSound(t, data)

	s.SetVolume(dsp.Amplitude(0.5), tween.Default())
	s.SetPanning(1.0, tween.Default())
	s.SetPlaybackRate(2.0, tween.Default())

	out := s.Process(1)
	assert.InDelta(t, 0, out.Left, 1e-6) // panned fully right
	assert.Greater(t, out.Right, float32(0))
}
