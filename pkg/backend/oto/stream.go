package oto

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/manager"
)

// audioStream implements io.Reader for oto.NewPlayer, the same role
// realtime.go's audioStream played for a single Player voice list. Each
// Read call runs one OnStartProcessing (draining every command/claim
// queued since the last call) followed by enough Process calls to fill
// buf, converting each stereo dsp.Frame to interleaved 16-bit PCM.
type audioStream struct {
	renderer *manager.Renderer
	dt       float64
	frames   []dsp.Frame
	running  atomic.Bool
}

func (s *audioStream) Read(buf []byte) (int, error) {
	if !s.running.Load() {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}

	const bytesPerFrame = 4 // 2 channels * 16-bit
	n := len(buf) / bytesPerFrame
	if n > len(s.frames) {
		s.frames = make([]dsp.Frame, n)
	}

	s.renderer.OnStartProcessing()
	for i := 0; i < n; i++ {
		s.frames[i] = s.renderer.Process(s.dt)
	}

	for i := 0; i < n; i++ {
		left := clampInt16(s.frames[i].Left)
		right := clampInt16(s.frames[i].Right)
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame:], uint16(left))
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame+2:], uint16(right))
	}

	return n * bytesPerFrame, nil
}

func clampInt16(sample float32) int16 {
	if sample > 1.0 {
		sample = 1.0
	}
	if sample < -1.0 {
		sample = -1.0
	}
	return int16(sample * 32767)
}
