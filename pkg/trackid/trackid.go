// Package trackid defines the mixer output destination identifier shared
// by every resource kind that routes its output somewhere (sounds,
// sub-tracks' routes themselves, and — per spec.md §4.9 — sounds that
// feed a spatial scene's emitter instead of a track directly). It is
// split out from pkg/track so that sound.static, sound.streaming,
// pkg/track and pkg/spatial can all depend on it without a cycle.
package trackid

import "github.com/gosound/resonance/pkg/arena"

type kind int

const (
	kindSub kind = iota
	kindMain
	kindEmitter
)

// ID names a destination for a processed audio frame: the single,
// always-present Main track, a sub-track, or a spatial scene's emitter
// (identified by its own arena.Key local to the emitter arena, plus the
// arena.Key of the Scene that owns it, since a manager may hold several
// live scenes at once and their emitter arenas each number from zero).
// The zero value names a sub-track at the zero key, matching the zero
// value every other arena.Key-keyed identifier in this module defaults
// to.
type ID struct {
	kind     kind
	key      arena.Key
	sceneKey arena.Key
}

// Main returns the identifier for the mixer's main track.
func Main() ID { return ID{kind: kindMain} }

// Sub returns the identifier for a sub-track at key.
func Sub(key arena.Key) ID { return ID{kind: kindSub, key: key} }

// Emitter returns the identifier for the emitter at key within the scene
// at sceneKey. A sound's Settings.Track field can name an emitter instead
// of a track, per spec.md §4.9: "Emitters accumulate input from sounds
// that target them."
func Emitter(sceneKey, key arena.Key) ID { return ID{kind: kindEmitter, key: key, sceneKey: sceneKey} }

// IsMain reports whether id names the main track.
func (id ID) IsMain() bool { return id.kind == kindMain }

// IsEmitter reports whether id names a spatial scene emitter rather than
// a track.
func (id ID) IsEmitter() bool { return id.kind == kindEmitter }

// Key returns the arena.Key for a sub-track or emitter destination. Only
// meaningful when !IsMain(); for an emitter this is its key within its
// owning scene's emitter arena, not the scene's own key.
func (id ID) Key() arena.Key { return id.key }

// SceneKey returns the arena.Key of the scene that owns this emitter.
// Only meaningful when IsEmitter().
func (id ID) SceneKey() arena.Key { return id.sceneKey }
