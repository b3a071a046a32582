// Package spatial implements the emitter/listener graph: distance
// attenuation and ear-difference panning for sounds placed in 3D space.
// It shares the same audio-thread-exclusive-mutation, control-thread-
// commands-via-ring-buffer concurrency idiom as every other resource kind
// in resonance (spec.md §1: "included since it shares the same
// concurrency and processing idioms").
package spatial

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
)

// EarDistance is the offset from a listener's position to each ear along
// its orientation's left/right axis, carried over verbatim from kira's
// spatial/listener.rs (spec.md's SUPPLEMENTED FEATURES).
const EarDistance = 0.1

// Distances names the range over which an emitter's attenuation curve
// applies: at or below Min, full volume; at or beyond Max, silence.
type Distances struct {
	Min, Max float64
}

// AttenuationFunction maps relative proximity (1 = at the listener, 0 =
// at or beyond Distances.Max) to a relative volume in [0, 1], which is
// then interpolated in decibel space down to dsp.MinDecibels.
type AttenuationFunction func(proximity float64) float64

// LinearAttenuation falls off proportionally to proximity.
func LinearAttenuation(proximity float64) float64 { return proximity }

// InverseSquareAttenuation falls off with the square of proximity,
// matching the physical 1/d^2 intensity falloff more closely than linear.
func InverseSquareAttenuation(proximity float64) float64 { return proximity * proximity }

// EmitterSettings configures an Emitter at creation. Position and the
// attenuation/spatialization configuration are fixed for the emitter's
// lifetime except Position, which SetPosition can move afterward.
type EmitterSettings struct {
	Position            dsp.Vec3
	Distances           *Distances // nil disables distance attenuation entirely.
	AttenuationFunction AttenuationFunction
	EnableSpatialization bool
}

// DefaultEmitterSettings returns settings at the origin with no
// attenuation and spatialization enabled — the common case for a sound
// that should simply be panned by direction.
func DefaultEmitterSettings() EmitterSettings {
	return EmitterSettings{EnableSpatialization: true}
}

// WithPosition returns a copy of s with Position replaced.
func (s EmitterSettings) WithPosition(p dsp.Vec3) EmitterSettings { s.Position = p; return s }

// WithAttenuation returns a copy of s configured to attenuate by volume
// over [min, max] using fn.
func (s EmitterSettings) WithAttenuation(min, max float64, fn AttenuationFunction) EmitterSettings {
	s.Distances = &Distances{Min: min, Max: max}
	s.AttenuationFunction = fn
	return s
}

// WithSpatialization returns a copy of s with ear-difference panning
// enabled or disabled.
func (s EmitterSettings) WithSpatialization(enable bool) EmitterSettings {
	s.EnableSpatialization = enable
	return s
}

// ListenerSettings configures a Listener at creation.
type ListenerSettings struct {
	Position    dsp.Vec3
	Orientation dsp.Quaternion
	Track       trackid.ID
}

// DefaultListenerSettings returns settings at the origin, facing the
// identity orientation, routed to the Main track.
func DefaultListenerSettings() ListenerSettings {
	return ListenerSettings{Orientation: dsp.Identity, Track: trackid.Main()}
}

// WithPosition returns a copy of s with Position replaced.
func (s ListenerSettings) WithPosition(p dsp.Vec3) ListenerSettings { s.Position = p; return s }

// WithOrientation returns a copy of s with Orientation replaced.
func (s ListenerSettings) WithOrientation(q dsp.Quaternion) ListenerSettings {
	s.Orientation = q
	return s
}

// WithTrack returns a copy of s routed to the named track.
func (s ListenerSettings) WithTrack(id trackid.ID) ListenerSettings { s.Track = id; return s }
