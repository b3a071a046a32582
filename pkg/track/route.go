package track

import (
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/trackid"
	"github.com/gosound/resonance/pkg/tween"
)

// route is one outgoing connection from a track to a destination track,
// scaled by its own tweenable volume (spec.md §4.7: "that Frame is scaled
// by each route's volume tween and added into the destination track's
// input accumulator").
type route struct {
	target trackid.ID
	volume *tween.Tweener[dsp.Volume]
}

func newRoute(target trackid.ID, volume dsp.Volume) route {
	return route{target: target, volume: tween.New(volume, tween.VolumeDecibels)}
}
