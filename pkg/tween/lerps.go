package tween

import "github.com/gosound/resonance/pkg/dsp"

// Float64 linearly interpolates a plain scalar (playback rate, panning).
func Float64(from, to float64, t float64) float64 {
	return from + (to-from)*t
}

// VolumeDecibels interpolates two Volumes in decibel space, per spec.md
// §4.3: "For Volume tweens, interpolation is in decibels; conversion to
// amplitude happens only at the output boundary."
func VolumeDecibels(from, to dsp.Volume, t float64) dsp.Volume {
	return dsp.LerpDecibels(from, to, t)
}
