package manager

import "github.com/gosound/resonance/pkg/dsp"

// Backend installs a Renderer onto whatever actually calls
// OnStartProcessing/Process/OnChangeSampleRate at audio-device rate
// (spec.md §6: "a backend implements a trait that installs the Renderer
// and invokes it at its sample rate"). pkg/backend/oto is the real
// implementation, grounded on pkg/audio/realtime.go's
// RealtimeOutput/audioStream split; MockBackend below is the one this
// package's own tests drive directly.
type Backend interface {
	// Install starts the backend producing audio by calling r's
	// lifecycle methods on whatever thread its device callback runs on.
	// Returns once the backend is ready to produce audio, or an error if
	// the device could not be opened.
	Install(r *Renderer) error

	// Close stops the backend and releases its device.
	Close() error
}

// MockBackend is a Backend that never touches a real audio device: it
// holds the Renderer and lets a test drive OnStartProcessing/Process by
// hand, one block and frame at a time, the way spec.md §6 describes a
// MockBackend being used for tests.
type MockBackend struct {
	renderer *Renderer
}

// Install stores r for the test to drive manually; it never starts a
// device or background goroutine.
func (b *MockBackend) Install(r *Renderer) error {
	b.renderer = r
	return nil
}

// Close is a no-op: there is no device to release.
func (b *MockBackend) Close() error { return nil }

// Tick runs one block's worth of processing: OnStartProcessing once,
// then Process once per frame in frames, dt seconds apart, returning
// every frame produced in order.
func (b *MockBackend) Tick(frames int, dt float64) []dsp.Frame {
	b.renderer.OnStartProcessing()
	out := make([]dsp.Frame, frames)
	for i := range out {
		out[i] = b.renderer.Process(dt)
	}
	return out
}

// Renderer exposes the installed Renderer directly, for tests that want
// finer control than Tick gives (calling OnStartProcessing/Process/
// OnChangeSampleRate themselves).
func (b *MockBackend) Renderer() *Renderer { return b.renderer }
