// Package static implements sounds played back from a fully in-memory
// sample buffer: the common case for short one-shot and looped effects.
// A Sound is created on the control thread (via Manager.Play in
// pkg/manager), handed to the audio thread inside a "claim" command, and from
// then on only the audio thread ever touches it; the control thread holds
// a Handle that reads its Shared state and queues Commands.
package static

import (
	"math"
	"time"

	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
	soundpkg "github.com/gosound/resonance/pkg/sound"
	"github.com/gosound/resonance/pkg/tween"
)

// Sound is the audio-thread playback state machine for one Data instance.
// It owns a 4-sample sliding resample window around an integer cursor, a
// fade tween used for pause/resume/stop, and the usual volume/panning/
// playback-rate tweens. Every method here runs only on the audio thread.
type Sound struct {
	data     Data
	shared   *Shared
	commands ring.Consumer[Command]

	state soundpkg.State

	started        bool
	startTime      tween.StartTime
	delayRemaining time.Duration

	direction      int // +1 forward, -1 reverse
	looping        bool
	loopStartIndex int

	cursor   int
	fraction float64
	window   [4]dsp.Frame

	volumeTween  *tween.Tweener[dsp.Volume]
	panningTween *tween.Tweener[float64]
	rateTween    *tween.Tweener[float64]
	fadeTween    *tween.Tweener[dsp.Volume]
}

// New builds a Sound ready to be inserted into the audio thread's
// resource arena, paired with shared and the consumer half of its command
// ring (the producer half goes to the Handle returned to the caller).
func New(data Data, commands ring.Consumer[Command], shared *Shared) *Sound {
	direction := 1
	if data.Settings.Reverse {
		direction = -1
	}
	s := &Sound{
		data:      data,
		shared:    shared,
		commands:  commands,
		state:     soundpkg.Playing,
		startTime: data.Settings.StartTime,
		direction: direction,
		looping:   data.Settings.LoopBehavior != nil,
	}
	if s.looping {
		s.loopStartIndex = int(data.Settings.LoopBehavior.StartPosition * s.sampleRate())
	}
	s.volumeTween = tween.New(data.Settings.Volume, tween.VolumeDecibels)
	s.panningTween = tween.New(data.Settings.Panning, tween.Float64)
	s.rateTween = tween.New(data.Settings.PlaybackRate, tween.Float64)
	s.fadeTween = tween.New(dsp.Decibels(0), tween.VolumeDecibels)
	s.resetCursor(data.Settings.StartPosition)

	switch s.startTime.Kind {
	case tween.StartImmediate:
		s.started = true
	case tween.StartDelayed:
		s.delayRemaining = s.startTime.Delay
	case tween.StartClockTime:
		// stays false until OnClockTick observes the target tick.
	}
	return s
}

func (s *Sound) sampleRate() float64 { return float64(s.data.SampleRate) }

// OnStartProcessing drains every queued command before this frame's
// Process call, per the renderer's on_start_processing/process ordering.
func (s *Sound) OnStartProcessing() {
	for {
		cmd, ok := s.commands.Pop()
		if !ok {
			return
		}
		cmd.Apply(s)
	}
}

// Process advances playback by dt seconds and returns the frame to mix
// into the sound's track. Stopped sounds (and Paused ones) return silence
// without touching the cursor; Pausing/Stopping sounds keep advancing the
// cursor while their fade completes, matching the source data continuing
// to play underneath the fade-out.
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

	if s.exhausted() && s.state == soundpkg.Playing {
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

// OnClockTick forwards the tick to every tween that might be gated on it
// and, if this sound's own start is waiting on a clock, resolves it.
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

// Finished reports whether the sound has reached Stopped. Sticky: once
// true it never becomes false again for this Sound instance.
func (s *Sound) Finished() bool { return s.state == soundpkg.Stopped }

// State returns the current playback state.
func (s *Sound) State() soundpkg.State { return s.state }

// Pause begins fading to silence over tw, then settles into Paused once
// the fade completes. A zero-duration tw pauses within a frame or two.
func (s *Sound) Pause(tw tween.Tween) {
	if s.state == soundpkg.Stopped || s.state == soundpkg.Stopping {
		return
	}
	s.state = soundpkg.Pausing
	s.fadeTween.Set(dsp.Decibels(dsp.MinDecibels), tw)
}

// Resume begins fading back to full over tw and returns to Playing
// immediately (the fade ramps up underneath).
func (s *Sound) Resume(tw tween.Tween) {
	if s.state == soundpkg.Stopped || s.state == soundpkg.Stopping {
		return
	}
	s.state = soundpkg.Playing
	s.fadeTween.Set(dsp.Decibels(0), tw)
}

// Stop begins fading to silence over tw, then settles into Stopped
// (finished) once the fade completes.
func (s *Sound) Stop(tw tween.Tween) {
	if s.state == soundpkg.Stopped {
		return
	}
	s.state = soundpkg.Stopping
	s.fadeTween.Set(dsp.Decibels(dsp.MinDecibels), tw)
}

// SetVolume begins tweening the sound's volume toward target.
func (s *Sound) SetVolume(target dsp.Volume, tw tween.Tween) { s.volumeTween.Set(target, tw) }

// SetPanning begins tweening panning toward target (0 left, 1 right).
func (s *Sound) SetPanning(target float64, tw tween.Tween) { s.panningTween.Set(target, tw) }

// SetPlaybackRate begins tweening the playback speed multiplier.
func (s *Sound) SetPlaybackRate(target float64, tw tween.Tween) { s.rateTween.Set(target, tw) }

// SeekTo jumps the cursor to the given position in seconds. Seeking past
// the end while looping wraps using the same modular arithmetic as
// running off the end during normal playback (spec.md §4.5); seeking past
// the end with no loop clamps to the end.
func (s *Sound) SeekTo(seconds float64) {
	dur := s.data.DurationSeconds()
	loopStart := float64(s.loopStartIndex) / s.sampleRate()
	switch {
	case s.looping && seconds > dur:
		span := dur - loopStart
		if span > 0 {
			seconds = loopStart + math.Mod(seconds-dur, span)
		} else {
			seconds = loopStart
		}
	case !s.looping && seconds > dur:
		seconds = dur
	}
	if seconds < 0 {
		seconds = 0
	}
	s.resetCursor(seconds)
}

// SeekBy moves the cursor by amount seconds relative to PositionSeconds.
// Because that position is measured along the playback direction, a
// positive amount moves further along in playback and a negative amount
// moves back toward where playback began, forward or reverse alike.
func (s *Sound) SeekBy(amount float64) {
	s.SeekTo(s.PositionSeconds() + amount)
}

// PositionSeconds reports the cursor's current position in seconds,
// measured along the playback direction (from the first sample when
// playing forward, from the last sample in reverse) and clamped to
// [0, duration].
func (s *Sound) PositionSeconds() float64 {
	n := s.data.Samples.Len()
	idx := s.cursor
	if s.direction < 0 {
		idx = (n - 1) - s.cursor
	}
	pos := float64(idx) / s.sampleRate()
	dur := s.data.DurationSeconds()
	if pos < 0 {
		pos = 0
	}
	if pos > dur {
		pos = dur
	}
	return pos
}

// indexForPosition converts a position in seconds to the source-buffer
// index the resample window should center on. In reverse, start_position
// is measured from the end of the buffer: position 0 is the last sample.
func (s *Sound) indexForPosition(seconds float64) int {
	idx := int(seconds * s.sampleRate())
	if s.direction < 0 {
		n := s.data.Samples.Len()
		idx = (n - 1) - idx
	}
	return idx
}

// resetCursor reinitializes the resample window around the given position,
// used both at construction and by SeekTo/SeekBy.
func (s *Sound) resetCursor(seconds float64) {
	s.cursor = s.indexForPosition(seconds)
	s.fraction = 0
	s.window = [4]dsp.Frame{
		s.fetch(s.cursor - s.direction),
		s.fetch(s.cursor),
		s.fetch(s.cursor + s.direction),
		s.fetch(s.cursor + 2*s.direction),
	}
}

// advance produces the interpolated output frame for the cursor's current
// position, then moves the cursor forward by however many whole source
// samples dt represents at the current playback rate (usually 0 or 1, but
// a very large dt or fast rate can shift more than one).
func (s *Sound) advance(dt float64) dsp.Frame {
	out := dsp.InterpolateFrame(s.window[0], s.window[1], s.window[2], s.window[3], float32(s.fraction))
	step := s.rateTween.Value() * s.sampleRate() * dt
	if step < 0 {
		step = 0
	}
	s.fraction += step
	for s.fraction >= 1 {
		s.fraction -= 1
		s.shift()
	}
	return out
}

// shift advances the cursor one source sample in the playback direction
// and slides the resample window, fetching the one new sample it needs.
func (s *Sound) shift() {
	s.cursor += s.direction
	far := s.fetch(s.cursor + 2*s.direction)
	s.window = [4]dsp.Frame{s.window[1], s.window[2], s.window[3], far}
}

// fetch returns the sample at idx, applying loop wraparound if looping is
// enabled and idx has run off either end (or, in reverse, below the loop
// start), or silence otherwise.
func (s *Sound) fetch(idx int) dsp.Frame {
	n := s.data.Samples.Len()
	reverseWrap := s.looping && s.direction < 0 && idx < s.loopStartIndex
	if idx >= 0 && idx < n && !reverseWrap {
		return s.data.Samples.At(idx)
	}
	if !s.looping {
		return dsp.Zero
	}
	span := n - s.loopStartIndex
	if span <= 0 {
		return dsp.Zero
	}
	if idx >= n {
		return s.data.Samples.At(s.loopStartIndex + floorMod(idx-s.loopStartIndex, span))
	}
	return s.data.Samples.At((n - 1) - floorMod(s.loopStartIndex-idx-1, span))
}

// exhausted reports whether the cursor has run off the end of a
// non-looping buffer in the direction of travel.
func (s *Sound) exhausted() bool {
	if s.looping {
		return false
	}
	n := s.data.Samples.Len()
	if s.direction > 0 {
		return s.cursor >= n
	}
	return s.cursor < 0
}

// publish writes the current state/position/finished flags to Shared for
// the control-thread Handle to read.
func (s *Sound) publish() {
	s.shared.setState(s.state)
	s.shared.setPosition(s.PositionSeconds())
}

func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func durationFromSeconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
