// Command resonance-play is a minimal smoke test for the engine: it
// wires a Manager to the oto backend and plays a generated tone through
// the default audio device, the same role the teacher's cmd/tracker main
// played in wiring a Player to an Output.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gosound/resonance/pkg/backend/oto"
	"github.com/gosound/resonance/pkg/dsp"
	"github.com/gosound/resonance/pkg/manager"
	"github.com/gosound/resonance/pkg/sound/static"
)

func main() {
	freq := flag.Float64("freq", 440.0, "tone frequency in Hz")
	seconds := flag.Float64("seconds", 3.0, "tone duration in seconds")
	flag.Parse()

	const sampleRate = 48000

	m, renderer := manager.New(sampleRate, manager.Default())

	backend := oto.New(sampleRate, 1024)
	if err := backend.Install(renderer); err != nil {
		fmt.Fprintf(os.Stderr, "resonance-play: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	samples := make([]float32, int(*seconds*sampleRate))
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * *freq * float64(i) / sampleRate))
	}
	data := static.NewData(sampleRate, static.FromF32Mono(samples)).
		WithSettings(static.Default().WithVolume(dsp.Amplitude(0.5)))

	if _, err := m.Play(data); err != nil {
		fmt.Fprintf(os.Stderr, "resonance-play: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(*seconds*float64(time.Second)) + 500*time.Millisecond):
	}
}
