package streaming

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/ring"
)

// worker owns the background goroutine that pulls frames from a Decoder
// into the frame ring the audio thread consumes from. It is entirely
// separate from the audio thread: nothing it does needs to be real-time
// safe, since it never runs on the audio callback.
type worker struct {
	dec       Decoder
	frames    ring.Producer[dsp.Frame]
	seeks     ring.Consumer[float64]
	stop      chan struct{}
	exhausted *atomic.Bool
	loop      *LoopBehavior
}

func startWorker(dec Decoder, frames ring.Producer[dsp.Frame], seeks ring.Consumer[float64], loop *LoopBehavior) (stop chan struct{}, exhausted *atomic.Bool) {
	stop = make(chan struct{})
	exhausted = &atomic.Bool{}
	w := &worker{dec: dec, frames: frames, seeks: seeks, stop: stop, exhausted: exhausted, loop: loop}
	go w.run()
	return stop, exhausted
}

// run is the worker goroutine's main loop. It decodes in small chunks,
// pushing each frame into the ring with a backed-off retry so a full ring
// (audio thread running behind) doesn't spin hot; a seek request is
// checked between chunks and applied by reseeking the decoder directly,
// since only the audio thread is allowed to drain the frame ring itself
// (it owns the consumer half).
func (w *worker) run() {
	defer w.dec.Close()
	buf := make([]dsp.Frame, 256)
	for {
		select {
		case <-w.stop:
			return
		default:
		}
		if sec, ok := w.seeks.Pop(); ok {
			w.dec.Seek(sec)
			w.exhausted.Store(false)
		}
		n, err := w.dec.Decode(buf)
		for i := 0; i < n; i++ {
			if !w.pushRetry(buf[i]) {
				return
			}
		}
		if err != nil {
			if err == io.EOF && w.loop != nil {
				if seekErr := w.dec.Seek(w.loop.StartPosition); seekErr == nil {
					continue
				}
			}
			w.exhausted.Store(true)
			w.parkUntilSeekOrStop()
		}
	}
}

// pushRetry pushes f into the frame ring, backing off briefly while it's
// full, until it succeeds or stop fires. Returns false if stop fired.
func (w *worker) pushRetry(f dsp.Frame) bool {
	for !w.frames.Push(f) {
		select {
		case <-w.stop:
			return false
		case <-time.After(time.Millisecond):
		}
	}
	return true
}

// parkUntilSeekOrStop is entered once Decode returns an error that
// looping does not recover from (EOF with no loop configured, EOF whose
// loop seek failed, or any other error): the worker stops decoding but stays alive to service a
// later seek (which can un-exhaust the sound) until told to stop.
func (w *worker) parkUntilSeekOrStop() {
	for {
		select {
		case <-w.stop:
			return
		case <-time.After(5 * time.Millisecond):
		}
		if sec, ok := w.seeks.Pop(); ok {
			if err := w.dec.Seek(sec); err == nil {
				w.exhausted.Store(false)
				return
			}
		}
	}
}
