package tween

import "time"

// LerpFunc interpolates between two values of T at weight t in [0,1].
// Passed in at construction rather than required as a method on T, since
// T is often a plain float64 or a value type (dsp.Volume) we don't want
// to wrap in an interface on the audio thread.
type LerpFunc[T any] func(from, to T, t float64) T

// animation is the in-flight state of a single tween; nil when the
// Tweener isn't currently animating.
type animation[T any] struct {
	from, to T
	elapsed  time.Duration
	tween    Tween
	pending  bool // true while waiting on Delayed/ClockTime gating
	delay    time.Duration
}

// Tweener is the audio-thread runtime object driving a Tween for a value
// of type T. It holds the current value, advances it every audio frame by
// dt, and resolves clock-gated starts when told about an observed tick.
type Tweener[T any] struct {
	value T
	lerp  LerpFunc[T]
	anim  *animation[T]
}

// New creates a Tweener starting at initial with the given interpolation
// function.
func New[T any](initial T, lerp LerpFunc[T]) *Tweener[T] {
	return &Tweener[T]{value: initial, lerp: lerp}
}

// Value returns the current interpolated value.
func (tw *Tweener[T]) Value() T { return tw.value }

// Set begins animating toward target according to tween. If a previous
// animation was in flight, its current interpolated value becomes the new
// "from" so motion doesn't jump (spec.md §4.3: "setting a new target while
// animating preserves current interpolated value as the new from").
func (tw *Tweener[T]) Set(target T, tw2 Tween) {
	a := &animation[T]{from: tw.value, to: target, tween: tw2}
	switch tw2.StartTime.Kind {
	case StartImmediate:
		// begins this frame, nothing further to gate on.
	case StartDelayed:
		a.pending = true
		a.delay = tw2.StartTime.Delay
	case StartClockTime:
		a.pending = true
	}
	tw.anim = a
}

// SetImmediately snaps the value with no animation, canceling any
// in-flight tween.
func (tw *Tweener[T]) SetImmediately(value T) {
	tw.value = value
	tw.anim = nil
}

// Update advances the animation by dt seconds of audio time. Delayed
// tweens count down their remaining delay here; clock-gated tweens stay
// pending until OnClockTick fires.
func (tw *Tweener[T]) Update(dt float64) {
	a := tw.anim
	if a == nil {
		return
	}
	if a.pending {
		if a.tween.StartTime.Kind != StartDelayed {
			return // still waiting on a clock tick
		}
		a.delay -= durationFromSeconds(dt)
		if a.delay > 0 {
			return
		}
		a.pending = false
	}
	a.elapsed += durationFromSeconds(dt)
	t := 0.0
	if a.tween.Duration > 0 {
		t = float64(a.elapsed) / float64(a.tween.Duration)
	} else {
		t = 1
	}
	if t > 1 {
		t = 1
	}
	tw.value = tw.lerp(a.from, a.to, a.tween.Easing.Apply(t))
	if t >= 1 {
		tw.anim = nil
	}
}

// OnClockTick resolves any tween pending on the named clock reaching
// tick. Per spec.md §4.3/§8, this fires exactly once, on the first
// observed tick whose count is >= the target, and the tween becomes
// active within the same frame.
func (tw *Tweener[T]) OnClockTick(clockID uint64, tick uint64) {
	a := tw.anim
	if a == nil || !a.pending || a.tween.StartTime.Kind != StartClockTime {
		return
	}
	target := a.tween.StartTime.AtClock
	if target.ClockID == clockID && tick >= target.Tick {
		a.pending = false
	}
}

// Animating reports whether a tween is currently in flight (pending or
// interpolating).
func (tw *Tweener[T]) Animating() bool { return tw.anim != nil }

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
