package streaming_test

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/sound/streaming"
	"github.com/gosound/resonance/pkg/tween"
)

// fakeDecoder produces a fixed slice of mono frames, one per call, then
// reports io.EOF. It's safe for the concurrent worker-goroutine access
// this test exercises: every method takes the same mutex.
type fakeDecoder struct {
	mu     sync.Mutex
	frames []dsp.Frame
	pos    int
	rate   uint32
	closed bool
}

func newFakeDecoder(n int, rate uint32) *fakeDecoder {
	frames := make([]dsp.Frame, n)
	for i := range frames {
		frames[i] = dsp.FromMono(float32(i))
	}
	return &fakeDecoder{frames: frames, rate: rate}
}

func (d *fakeDecoder) SampleRate() uint32 { return d.rate }

func (d *fakeDecoder) Decode(buf []dsp.Frame) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for n < len(buf) && d.pos < len(d.frames) {
		buf[n] = d.frames[d.pos]
		d.pos++
		n++
	}
	if d.pos >= len(d.frames) {
		return n, io.EOF
	}
	return n, nil
}

func (d *fakeDecoder) Seek(seconds float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = int(seconds * float64(d.rate))
	return nil
}

func (d *fakeDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func waitForFrames(t *testing.T, s *streaming.Sound, dt float64, attempts int) {
	t.Helper()
	for i := 0; i < attempts; i++ {
		if out := s.Process(dt); out != dsp.Zero {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestStreamingPlaysAndReachesEnd(t *testing.T) {
	dec := newFakeDecoder(50, 1)
	settings := streaming.Default().WithPanning(0).WithBufferFrames(64)
	_, cons := ring.New[streaming.Command](1)
	s := streaming.New(dec, settings, cons, streaming.NewShared())

	waitForFrames(t, s, 1, 200)

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != soundpkg.Stopped && time.Now().Before(deadline) {
		s.Process(1)
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, soundpkg.Stopped, s.State())
	assert.True(t, s.Finished())
}

func TestStreamingPauseResumeStop(t *testing.T) {
	dec := newFakeDecoder(10000, 1)
	settings := streaming.Default().WithPanning(0)
	_, cons := ring.New[streaming.Command](1)
	s := streaming.New(dec, settings, cons, streaming.NewShared())

	waitForFrames(t, s, 1, 200)

	tw := streamingTween()
	s.Pause(tw)
	assert.Equal(t, soundpkg.Pausing, s.State())

	for i := 0; i < 50 && s.State() != soundpkg.Paused; i++ {
		s.Process(1)
	}
	assert.Equal(t, soundpkg.Paused, s.State())

	s.Resume(tw)
	assert.Equal(t, soundpkg.Playing, s.State())

	s.Stop(tw)
	for i := 0; i < 50 && s.State() != soundpkg.Stopped; i++ {
		s.Process(1)
	}
	assert.Equal(t, soundpkg.Stopped, s.State())
	assert.True(t, s.Finished())
}

func streamingTween() tween.Tween {
	return tween.Tween{Duration: 4 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()}
}
