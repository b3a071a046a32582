package track

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/effect"
	"github.com/gosound/resonance/pkg/trackid"
)

// Settings configures a track at creation.
type Settings struct {
	Volume dsp.Volume
}

// Default returns Settings at full volume.
func Default() Settings { return Settings{Volume: dsp.Decibels(0)} }

// WithVolume returns a copy of s with Volume replaced.
func (s Settings) WithVolume(v dsp.Volume) Settings {
	s.Volume = v
	return s
}

// RouteSpec is a route fixed at build time. Build-time routes are not
// cycle-checked themselves; they are seeded into the Router so that
// Router.AddRoute's check for routes added afterward sees them.
type RouteSpec struct {
	Target trackid.ID
	Volume dsp.Volume
}

// Builder configures a sub-track before it's added to the mixer graph.
// Effects are fixed at build time (the same shape as kira's
// TrackBuilder::add_effect, called before the track is handed to the
// backend); there is no live "insert effect mid-chain" command. Routes
// may additionally be added or removed after the track is live, through
// Router.AddRoute/RemoveRoute.
type Builder struct {
	Settings Settings
	Effects  []effect.Effect
	Routes   []RouteSpec
}

// NewBuilder returns a Builder with default settings, no effects, and a
// single default route to the Main track at full volume — the common
// case for a sub-track whose output should simply be heard.
func NewBuilder() Builder {
	return Builder{
		Settings: Default(),
		Routes:   []RouteSpec{{Target: trackid.Main(), Volume: dsp.Decibels(0)}},
	}
}

// WithSettings returns a copy of b with Settings replaced.
func (b Builder) WithSettings(s Settings) Builder {
	b.Settings = s
	return b
}

// AddEffect appends e to the track's effect chain, returning the updated
// Builder for chaining.
func (b Builder) AddEffect(e effect.Effect) Builder {
	b.Effects = append(b.Effects, e)
	return b
}

// WithRoute appends a build-time route to target, returning the updated
// Builder for chaining.
func (b Builder) WithRoute(target trackid.ID, volume dsp.Volume) Builder {
	b.Routes = append(b.Routes, RouteSpec{Target: target, Volume: volume})
	return b
}

// WithoutDefaultRoute clears the routes NewBuilder seeded, for a track
// whose only routes should be ones added explicitly.
func (b Builder) WithoutDefaultRoute() Builder {
	b.Routes = nil
	return b
}
