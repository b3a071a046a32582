package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosound/resonance/pkg/arena"
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/rterr"
	"github.com/gosound/resonance/pkg/tween"
)

// TestClockTicksOncePerSecond reproduces spec.md §8 scenario 5: a clock at
// one tick per second, driven by four frames of dt=0.25, produces exactly
// one tick, on the fourth frame.
func TestClockTicksOncePerSecond(t *testing.T) {
	c := clock.New(1, clock.Speed{Kind: clock.TicksPerSecond, Value: 1})
	c.Start()

	var all []clock.Time
	for i := 0; i < 4; i++ {
		all = append(all, c.Process(0.25)...)
	}

	require.Len(t, all, 1)
	assert.Equal(t, uint64(1), all[0].Ticks)
	assert.Equal(t, uint64(1), c.Shared().Ticks())
}

// TestClockDoesNotTickWhileStopped checks that a paused clock accumulates
// no ticks, and that restarting it afterward resumes exactly where the
// fractional accumulator left off rather than skipping or repeating.
func TestClockDoesNotTickWhileStopped(t *testing.T) {
	c := clock.New(1, clock.Speed{Kind: clock.TicksPerSecond, Value: 1})

	assert.Empty(t, c.Process(0.5))
	assert.False(t, c.Shared().Ticking())

	c.Start()
	assert.Empty(t, c.Process(0.9))

	produced := c.Process(0.1)
	require.Len(t, produced, 1)
	assert.Equal(t, uint64(1), c.Shared().Ticks())
}

// TestClockSecondsPerTickMatchesReciprocalRate checks that a clock
// expressed in SecondsPerTick ticks at the reciprocal rate of the
// equivalent TicksPerSecond clock.
func TestClockSecondsPerTickMatchesReciprocalRate(t *testing.T) {
	c := clock.New(1, clock.Speed{Kind: clock.SecondsPerTick, Value: 1})
	c.Start()

	produced := c.Process(0.5)
	assert.Empty(t, produced)

	produced = c.Process(0.5)
	require.Len(t, produced, 1)
}

// TestClockHandleStartAndStop checks the control-thread Handle's command
// path: Start/Stop enqueue commands that DrainInto applies before the next
// Process call, mirroring Clocks.OnStartProcessing's draining order.
func TestClockHandleStartAndStop(t *testing.T) {
	key := arena.Key{}
	shared := &clock.Shared{}
	handle, cons := clock.NewHandlePair(key, shared)
	c := clock.New(handle.ID(), clock.Speed{Kind: clock.TicksPerSecond, Value: 1})

	require.NoError(t, handle.Start())
	clock.DrainInto(cons, c)
	assert.True(t, shared.Ticking())

	produced := c.Process(1)
	require.Len(t, produced, 1)

	require.NoError(t, handle.Stop())
	clock.DrainInto(cons, c)
	assert.False(t, shared.Ticking())

	assert.Empty(t, c.Process(1))
}

// TestClockHandleCommandQueueFull checks that a handle whose command ring
// is saturated with undrained commands reports ErrCommandQueueFull rather
// than blocking, per spec.md §9.
func TestClockHandleCommandQueueFull(t *testing.T) {
	key := arena.Key{}
	shared := &clock.Shared{}
	handle, cons := clock.NewHandlePair(key, shared)
	_ = cons // left undrained so the ring fills up

	var err error
	for i := 0; i < 64; i++ {
		if err = handle.Start(); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, rterr.ErrCommandQueueFull)
}

// TestClockSetSpeedTweensGradually checks that SetSpeed doesn't snap the
// rate instantly but interpolates it over the given tween duration.
func TestClockSetSpeedTweensGradually(t *testing.T) {
	c := clock.New(1, clock.Speed{Kind: clock.TicksPerSecond, Value: 0})
	c.Start()

	c.SetSpeed(clock.Speed{Kind: clock.TicksPerSecond, Value: 2}, tween.Tween{
		Duration: time.Second, Easing: tween.EasingLinear, StartTime: tween.Immediate(),
	})

	// After 0.4s of the 1s tween the rate has reached 0.8 ticks/sec; a
	// 0.4s step at that rate accumulates 0.32 of a tick, not a full one.
	produced := c.Process(0.4)
	assert.Empty(t, produced)

	produced = c.Process(2)
	assert.NotEmpty(t, produced)
}
