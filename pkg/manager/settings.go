package manager

import "github.com/gosound/resonance/pkg/track"

// Settings configures the arena capacities and command ring sizes a
// Manager/Renderer pair is built with (spec.md §6: AudioManagerSettings).
type Settings struct {
	SoundCapacity        int
	SubTrackCapacity     int
	ClockCapacity        int
	SpatialSceneCapacity int
	CommandCapacity      int
	MainTrackBuilder     track.Builder
}

// Default returns the settings spec.md §6 names as defaults.
func Default() Settings {
	return Settings{
		SoundCapacity:        128,
		SubTrackCapacity:     8,
		ClockCapacity:        8,
		SpatialSceneCapacity: 8,
		CommandCapacity:      128,
		MainTrackBuilder:     track.NewBuilder().WithoutDefaultRoute(),
	}
}

// WithSoundCapacity overrides the sound arena's capacity.
func (s Settings) WithSoundCapacity(n int) Settings { s.SoundCapacity = n; return s }

// WithSubTrackCapacity overrides the sub-track arena's capacity.
func (s Settings) WithSubTrackCapacity(n int) Settings { s.SubTrackCapacity = n; return s }

// WithClockCapacity overrides the clock arena's capacity.
func (s Settings) WithClockCapacity(n int) Settings { s.ClockCapacity = n; return s }

// WithSpatialSceneCapacity overrides the spatial scene arena's capacity.
func (s Settings) WithSpatialSceneCapacity(n int) Settings { s.SpatialSceneCapacity = n; return s }

// WithCommandCapacity overrides the per-claim-ring command capacity.
func (s Settings) WithCommandCapacity(n int) Settings { s.CommandCapacity = n; return s }

// WithMainTrackBuilder overrides the Main track's effect chain, built
// before the first Process call.
func (s Settings) WithMainTrackBuilder(b track.Builder) Settings { s.MainTrackBuilder = b; return s }
