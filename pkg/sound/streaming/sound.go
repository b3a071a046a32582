package streaming

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/tween"
)

// Sound is the audio-thread side of a streaming sound: a thin consumer
// over the frame ring a background worker goroutine fills. Unlike static
// sounds it carries no reverse support and no index-based loop
// arithmetic; looping and seeking are delegated to the decoder, which
// runs off the audio thread entirely.
type Sound struct {
	sampleRate uint32
	commands   ring.Consumer[Command]
	frames     ring.Consumer[dsp.Frame]
	seeks      ring.Producer[float64]
	stop       chan struct{}
	stopOnce   sync.Once
	exhausted  *atomic.Bool

	shared *Shared

	state soundpkg.State

	started        bool
	startTime      tween.StartTime
	delayRemaining time.Duration

	window   [4]dsp.Frame
	fraction float64
	position float64

	volumeTween  *tween.Tweener[dsp.Volume]
	panningTween *tween.Tweener[float64]
	rateTween    *tween.Tweener[float64]
	fadeTween    *tween.Tweener[dsp.Volume]
}

// New builds a Sound and starts its decoder worker goroutine. commands is
// the consumer half of the control-ring the Handle returned to the caller
// pushes into.
func New(dec Decoder, settings Settings, commands ring.Consumer[Command], shared *Shared) *Sound {
	framesProd, framesCons := ring.New[dsp.Frame](settings.BufferFrames)
	seeksProd, seeksCons := ring.New[float64](4)
	stop, exhausted := startWorker(dec, framesProd, seeksCons, settings.LoopBehavior)

	s := &Sound{
		sampleRate: dec.SampleRate(),
		commands:   commands,
		frames:     framesCons,
		seeks:      seeksProd,
		stop:       stop,
		exhausted:  exhausted,
		shared:     shared,
		state:      soundpkg.Playing,
		startTime:  settings.StartTime,
	}
	s.volumeTween = tween.New(settings.Volume, tween.VolumeDecibels)
	s.panningTween = tween.New(settings.Panning, tween.Float64)
	s.rateTween = tween.New(settings.PlaybackRate, tween.Float64)
	s.fadeTween = tween.New(dsp.Decibels(0), tween.VolumeDecibels)

	if settings.StartPosition > 0 {
		s.seeks.Push(settings.StartPosition)
		s.position = settings.StartPosition
	}
	for i := range s.window {
		s.window[i] = s.nextRaw()
	}

	switch s.startTime.Kind {
	case tween.StartImmediate:
		s.started = true
	case tween.StartDelayed:
		s.delayRemaining = s.startTime.Delay
	case tween.StartClockTime:
	}
	return s
}

// OnStartProcessing drains queued commands before this frame's Process.
func (s *Sound) OnStartProcessing() {
	for {
		cmd, ok := s.commands.Pop()
		if !ok {
			return
		}
		cmd.Apply(s)
	}
}

// Process advances playback by dt seconds and returns the mixed frame.
func (s *Sound) Process(dt float64) dsp.Frame {
	if s.state == soundpkg.Stopped {
		return dsp.Zero
	}

	s.volumeTween.Update(dt)
	s.panningTween.Update(dt)
	s.rateTween.Update(dt)
	s.fadeTween.Update(dt)

	if s.state == soundpkg.Pausing && !s.fadeTween.Animating() {
		s.state = soundpkg.Paused
	}
	if s.state == soundpkg.Stopping && !s.fadeTween.Animating() {
		s.state = soundpkg.Stopped
		s.closeWorker()
	}
	if s.state == soundpkg.Stopped || s.state == soundpkg.Paused {
		s.publish()
		return dsp.Zero
	}

	if !s.started {
		if s.startTime.Kind == tween.StartDelayed {
			s.delayRemaining -= durationFromSeconds(dt)
			if s.delayRemaining <= 0 {
				s.started = true
			}
		}
		if !s.started {
			s.publish()
			return dsp.Zero
		}
	}

	raw := s.advance(dt)

	if s.exhausted.Load() && s.drained() && s.state == soundpkg.Playing {
		s.state = soundpkg.Stopping
		s.fadeTween.Set(dsp.Decibels(dsp.MinDecibels), tween.Tween{
			Duration: 0, Easing: tween.EasingLinear, StartTime: tween.Immediate(),
		})
	}

	amp := s.volumeTween.Value().AsAmplitude() * s.fadeTween.Value().AsAmplitude()
	out := raw.Scale(float32(amp)).Panned(s.panningTween.Value())
	s.publish()
	return out
}

// drained reports whether all four resample window frames are silent.
// Process only treats that as the end of playback once the worker has
// also reported exhaustion; it does not look at frames still waiting in
// the ring, and four decoded frames of digital silence read the same way.
func (s *Sound) drained() bool {
	return s.window == [4]dsp.Frame{}
}

// OnClockTick forwards the tick to every gated tween and resolves a
// clock-gated start.
func (s *Sound) OnClockTick(t clock.Time) {
	s.volumeTween.OnClockTick(t.ClockID, t.Ticks)
	s.panningTween.OnClockTick(t.ClockID, t.Ticks)
	s.rateTween.OnClockTick(t.ClockID, t.Ticks)
	s.fadeTween.OnClockTick(t.ClockID, t.Ticks)
	if !s.started && s.startTime.Kind == tween.StartClockTime {
		target := s.startTime.AtClock
		if target.ClockID == t.ClockID && t.Ticks >= target.Tick {
			s.started = true
		}
	}
}

// Finished reports whether the sound has reached Stopped.
func (s *Sound) Finished() bool { return s.state == soundpkg.Stopped }

// State returns the current playback state.
func (s *Sound) State() soundpkg.State { return s.state }

// Pause begins fading to silence over tw.
func (s *Sound) Pause(tw tween.Tween) {
	if s.state == soundpkg.Stopped || s.state == soundpkg.Stopping {
		return
	}
	s.state = soundpkg.Pausing
	s.fadeTween.Set(dsp.Decibels(dsp.MinDecibels), tw)
}

// Resume begins fading back to full over tw.
func (s *Sound) Resume(tw tween.Tween) {
	if s.state == soundpkg.Stopped || s.state == soundpkg.Stopping {
		return
	}
	s.state = soundpkg.Playing
	s.fadeTween.Set(dsp.Decibels(0), tw)
}

// Stop begins fading to silence over tw, then settles into Stopped and
// tells the decoder worker goroutine to exit.
func (s *Sound) Stop(tw tween.Tween) {
	if s.state == soundpkg.Stopped {
		return
	}
	s.state = soundpkg.Stopping
	s.fadeTween.Set(dsp.Decibels(dsp.MinDecibels), tw)
}

// SetVolume begins tweening volume toward target.
func (s *Sound) SetVolume(target dsp.Volume, tw tween.Tween) { s.volumeTween.Set(target, tw) }

// SetPanning begins tweening panning toward target.
func (s *Sound) SetPanning(target float64, tw tween.Tween) { s.panningTween.Set(target, tw) }

// SetPlaybackRate begins tweening the playback speed multiplier.
func (s *Sound) SetPlaybackRate(target float64, tw tween.Tween) { s.rateTween.Set(target, tw) }

// SeekTo asks the decoder to reposition to seconds, drops any frames
// already buffered from before the seek (stale data from the old
// position), and resets the resample window. Playback resumes once the
// worker goroutine catches up, which introduces the same latency
// described for PositionSeconds below.
func (s *Sound) SeekTo(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.seeks.Push(seconds)
	for {
		if _, ok := s.frames.Pop(); !ok {
			break
		}
	}
	s.fraction = 0
	s.position = seconds
	for i := range s.window {
		s.window[i] = s.nextRaw()
	}
}

// SeekBy moves the position by amount seconds relative to the last
// reported position, unconditionally (matching static.Sound.SeekBy).
func (s *Sound) SeekBy(amount float64) {
	s.SeekTo(s.position + amount)
}

// PositionSeconds reports the sound's last-known position. Because
// decoding happens asynchronously, this lags true audio output by however
// many frames are currently buffered ahead of what's been mixed.
func (s *Sound) PositionSeconds() float64 { return s.position }

func (s *Sound) nextRaw() dsp.Frame {
	f, ok := s.frames.Pop()
	if !ok {
		return dsp.Zero
	}
	return f
}

func (s *Sound) advance(dt float64) dsp.Frame {
	out := dsp.InterpolateFrame(s.window[0], s.window[1], s.window[2], s.window[3], float32(s.fraction))
	step := s.rateTween.Value() * float64(s.sampleRate) * dt
	if step < 0 {
		step = 0
	}
	s.fraction += step
	for s.fraction >= 1 {
		s.fraction -= 1
		s.window = [4]dsp.Frame{s.window[1], s.window[2], s.window[3], s.nextRaw()}
		s.position += 1 / float64(s.sampleRate)
	}
	return out
}

func (s *Sound) closeWorker() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Sound) publish() {
	s.shared.setState(s.state)
	s.shared.setPosition(s.position)
}

func durationFromSeconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
