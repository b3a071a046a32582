// Package rterr holds the small set of error values shared across every
// resource kind's control-thread surface (clocks, tracks, sounds,
// effects, spatial scenes). Keeping them in one leaf package lets every
// other package return them without creating import cycles with manager,
// which is the one package that needs to name all of them together.
package rterr

import "errors"

// ErrCommandQueueFull is returned when a control-thread push to a
// resource's command ring failed because the ring is saturated. It is
// always recoverable: the caller may retry or drop the command. Audio
// thread code never returns this error; per spec.md §7 the audio thread
// never returns errors at all.
var ErrCommandQueueFull = errors.New("resonance: command queue is full")

// ErrResourceLimitReached is returned from Controller.TryReserve-backed
// operations (play, add_clock, add_sub_track, add_spatial_scene) when the
// relevant arena has no free slot.
var ErrResourceLimitReached = errors.New("resonance: resource limit reached")

// ErrNoDefaultTrack, ErrUnknownSampleRate and ErrUnsupportedChannelConfig
// are collaborator-facing loader errors (spec.md §7) — they are not
// produced by anything in this module, but are declared here so a loader
// built on top of resonance (outside its scope) has somewhere canonical
// to report them from and callers can errors.Is against a stable value.
var (
	ErrNoDefaultTrack           = errors.New("resonance: could not determine the default audio track")
	ErrUnknownSampleRate        = errors.New("resonance: could not determine the sample rate of the audio")
	ErrUnsupportedChannelConfig = errors.New("resonance: only mono and stereo audio is supported")
)

// ErrRouteCycle is returned when adding a track route would create a
// cycle in the mixer graph (spec.md §9: rejected at route-add time via
// DFS from the proposed target).
var ErrRouteCycle = errors.New("resonance: track route would create a cycle")
