package tween_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/gosound/resonance/pkg/tween"
)

// TestTweenerInterpolatesLinearly checks the base case of spec.md §4.3:
// an Immediate tween updates by elapsed/duration clamped to 1, settling
// on target once the clamp reaches 1.
func TestTweenerInterpolatesLinearly(t *testing.T) {
	tw := tween.New(0.0, tween.Float64)
	tw.Set(10.0, tween.Tween{Duration: 4 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()})

	assert.True(t, tw.Animating())
	tw.Update(1)
	assert.InDelta(t, 2.5, tw.Value(), 1e-9)
	tw.Update(1)
	assert.InDelta(t, 5.0, tw.Value(), 1e-9)
	tw.Update(1)
	assert.InDelta(t, 7.5, tw.Value(), 1e-9)
	tw.Update(1)
	assert.InDelta(t, 10.0, tw.Value(), 1e-9)
	assert.False(t, tw.Animating())

	// further updates are no-ops once settled.
	tw.Update(1)
	assert.InDelta(t, 10.0, tw.Value(), 1e-9)
}

// TestTweenerZeroDurationSettlesImmediately checks the boundary behavior
// named in spec.md §8: a zero-duration tween completes within the very
// next Update.
func TestTweenerZeroDurationSettlesImmediately(t *testing.T) {
	tw := tween.New(0.0, tween.Float64)
	tw.Set(5.0, tween.Default())

	tw.Update(1)
	assert.InDelta(t, 5.0, tw.Value(), 1e-9)
	assert.False(t, tw.Animating())
}

// TestTweenerRetargetPreservesCurrentValue checks spec.md §4.3: "setting a
// new target while animating preserves current interpolated value as the
// new from", so the value doesn't jump at the moment of retarget.
func TestTweenerRetargetPreservesCurrentValue(t *testing.T) {
	tw := tween.New(0.0, tween.Float64)
	tw.Set(10.0, tween.Tween{Duration: 2 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()})
	tw.Update(1) // halfway: value == 5

	before := tw.Value()
	tw.Set(20.0, tween.Tween{Duration: 2 * time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()})

	// the very next Update should start interpolating from `before`, not
	// snap to a value computed as if the new tween had been running from 0.
	tw.Update(0)
	assert.InDelta(t, before, tw.Value(), 1e-9)
}

// TestTweenerDelayedStartCountsDownBeforeAnimating checks the Delayed(s)
// branch of spec.md §4.3: the tween stays at its starting value until the
// delay has counted down to zero.
func TestTweenerDelayedStartCountsDownBeforeAnimating(t *testing.T) {
	tw := tween.New(0.0, tween.Float64)
	tw.Set(10.0, tween.Tween{
		Duration:  time.Second,
		Easing:    tween.EasingLinear,
		StartTime: tween.Delayed(2 * time.Second),
	})

	tw.Update(1)
	assert.InDelta(t, 0, tw.Value(), 1e-9)
	assert.True(t, tw.Animating())

	// the delay (2s) finishes counting down on this Update; the same call
	// then adds its whole dt (1s) to the elapsed time, which covers the 1s
	// duration, so it settles on target within this call.
	tw.Update(1)
	assert.InDelta(t, 10.0, tw.Value(), 1e-9)
	assert.False(t, tw.Animating())
}

// TestTweenerClockGatedStartActivatesOnMatchingTick checks spec.md §8's
// universally-quantified clock-gated property: a ClockTime(id, T) tween
// stays inactive until a tick with count >= T for the named clock id
// arrives, ignoring ticks from other clocks and earlier ticks on the same
// clock.
func TestTweenerClockGatedStartActivatesOnMatchingTick(t *testing.T) {
	tw := tween.New(0.0, tween.Float64)
	tw.Set(10.0, tween.Tween{
		Duration:  time.Second,
		Easing:    tween.EasingLinear,
		StartTime: tween.AtClockTime(1, 5),
	})

	tw.Update(1)
	assert.InDelta(t, 0, tw.Value(), 1e-9)

	tw.OnClockTick(2, 5) // wrong clock
	tw.Update(1)
	assert.InDelta(t, 0, tw.Value(), 1e-9)

	tw.OnClockTick(1, 3) // right clock, too early
	tw.Update(1)
	assert.InDelta(t, 0, tw.Value(), 1e-9)

	tw.OnClockTick(1, 5) // right clock, matching tick
	tw.Update(1)
	assert.Greater(t, tw.Value(), 0.0)
}

// TestTweenerEasingIsAppliedBeforeLerp checks that a non-linear easing
// curve reshapes the interpolation weight rather than being ignored.
func TestTweenerEasingIsAppliedBeforeLerp(t *testing.T) {
	linear := tween.New(0.0, tween.Float64)
	linear.Set(10.0, tween.Tween{Duration: time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate()})
	linear.Update(0.25)

	eased := tween.New(0.0, tween.Float64)
	eased.Set(10.0, tween.Tween{Duration: time.Second, Easing: tween.EasingInOutPowi, StartTime: tween.Immediate()})
	eased.Update(0.25)

	assert.NotEqual(t, linear.Value(), eased.Value())
}

// TestTweenerClampsPastDurationProperty is a rapid property test: for any
// target and any elapsed time at or beyond Duration, the Tweener settles
// exactly on target and stops animating, never overshooting.
func TestTweenerClampsPastDurationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		target := rapid.Float64Range(-1000, 1000).Draw(t, "target")
		durationSeconds := rapid.Float64Range(0, 10).Draw(t, "duration")
		elapsed := rapid.Float64Range(0, 20).Draw(t, "elapsed")

		tw := tween.New(0.0, tween.Float64)
		tw.Set(target, tween.Tween{
			Duration:  time.Duration(durationSeconds * float64(time.Second)),
			Easing:    tween.EasingLinear,
			StartTime: tween.Immediate(),
		})
		tw.Update(elapsed)

		if elapsed >= durationSeconds {
			assert.InDelta(t, target, tw.Value(), 1e-6)
			assert.False(t, tw.Animating())
		}
	})
}
