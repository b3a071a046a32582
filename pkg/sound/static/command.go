package static

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/tween"
)

// CommandKind discriminates Command variants.
type CommandKind int

const (
	CmdSetVolume CommandKind = iota
	CmdSetPanning
	CmdSetPlaybackRate
	CmdPause
	CmdResume
	CmdStop
	CmdSeekTo
	CmdSeekBy
)

// Command is a control-thread instruction queued for the audio thread to
// apply to one StaticSound.
type Command struct {
	Kind    CommandKind
	Volume  dsp.Volume
	Panning float64
	Rate    float64
	Tween   tween.Tween
	Seconds float64
}

// Apply performs the command against s. Called only from the audio thread
// while draining a sound's command consumer.
func (cmd Command) Apply(s *Sound) {
	switch cmd.Kind {
	case CmdSetVolume:
		s.SetVolume(cmd.Volume, cmd.Tween)
	case CmdSetPanning:
		s.SetPanning(cmd.Panning, cmd.Tween)
	case CmdSetPlaybackRate:
		s.SetPlaybackRate(cmd.Rate, cmd.Tween)
	case CmdPause:
		s.Pause(cmd.Tween)
	case CmdResume:
		s.Resume(cmd.Tween)
	case CmdStop:
		s.Stop(cmd.Tween)
	case CmdSeekTo:
		s.SeekTo(cmd.Seconds)
	case CmdSeekBy:
		s.SeekBy(cmd.Seconds)
	}
}
