package track

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// CommandKind discriminates Command variants.
type CommandKind int

const (
	CmdSetVolume CommandKind = iota
	CmdSetRouteVolume
	CmdRemoveRoute
	CmdAddRoute
)

// Command is a control-thread instruction queued for the audio thread to
// apply to one track. CmdAddRoute is only ever pushed by Router.AddRoute,
// after its cycle-rejection DFS over the whole graph has already passed:
// the DFS itself needs every track's route list at once, which only the
// control-thread-side Router (not any single track) holds.
type Command struct {
	Kind   CommandKind
	Volume dsp.Volume
	Target trackid.ID
	Tween  tween.Tween
}

// Apply performs the command against t.
func (cmd Command) Apply(t *Track) {
	switch cmd.Kind {
	case CmdSetVolume:
		t.SetVolume(cmd.Volume, cmd.Tween)
	case CmdSetRouteVolume:
		t.SetRouteVolume(cmd.Target, cmd.Volume, cmd.Tween)
	case CmdRemoveRoute:
		t.RemoveRoute(cmd.Target)
	case CmdAddRoute:
		t.addRoute(cmd.Target, cmd.Volume)
	}
}
