// Package effect defines the hook contract every track effect satisfies
// and holds resonance's built-in effects. An effect owns a command
// consumer; its handle (constructed alongside it) holds the matching
// producer, the same split every other resource kind in this module
// uses.
package effect

import (
	"github.com/gosound/resonance/pkg/clock"
	"github.com/gosound/resonance/pkg/dsp"
)

// Effect is anything a track's effect chain can fold a frame through.
// Built-ins live in this package's subpackages; a caller may also
// implement Effect directly against a custom DSP algorithm.
type Effect interface {
	Init(sampleRate uint32)
	OnStartProcessing()
	Process(input dsp.Frame, dt float64) dsp.Frame
	OnClockTick(t clock.Time)
	OnChangeSampleRate(sampleRate uint32)
}
