package clock

import "github.com/gosound/resonance/pkg/tween"

// Command is a control-thread instruction queued for the audio thread to
// apply to one Clock.
type Command struct {
	Kind     CommandKind
	Speed    Speed
	Tween    tween.Tween
}

// CommandKind discriminates Command variants.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdStop
	CmdSetSpeed
)

// Apply performs the command against c. Called only from the audio
// thread while draining a clock's command consumer.
func (cmd Command) Apply(c *Clock) {
	switch cmd.Kind {
	case CmdStart:
		c.Start()
	case CmdStop:
		c.Stop()
	case CmdSetSpeed:
		c.SetSpeed(cmd.Speed, cmd.Tween)
	}
}
