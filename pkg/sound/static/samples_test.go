package static_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/gosound/resonance/pkg/sound/static"
)

// TestSamplesRoundTripLength checks spec.md §8's universally-quantified
// property for every raw encoding a loader might hand StaticSoundData:
// ensure_stereo(ensure_32_bit(s)).len() == s.len(), for mono and stereo,
// 16-bit and 32-bit sources alike.
func TestSamplesRoundTripLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 256).Draw(t, "n")
		kind := rapid.IntRange(0, 2).Draw(t, "kind")

		var raw static.RawSamples
		switch kind {
		case 0:
			data := make([]int16, n)
			for i := range data {
				data[i] = int16(rapid.IntRange(-32768, 32767).Draw(t, "s"))
			}
			raw = static.NewRawI16Mono(data)
		case 1:
			data := make([]int16, n*2)
			for i := range data {
				data[i] = int16(rapid.IntRange(-32768, 32767).Draw(t, "s"))
			}
			raw = static.NewRawI16Stereo(data)
		case 2:
			data := make([]float32, n)
			for i := range data {
				data[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "s"))
			}
			raw = static.NewRawF32Mono(data)
		}

		before := raw.Len()
		after := raw.Ensure32Bit().EnsureStereo().Len()
		assert.Equal(t, before, after)
		assert.Equal(t, n, after)
	})
}

func TestEnsureStereoIdempotentOnFrameStereo(t *testing.T) {
	raw := static.NewRawFrameStereo(nil)
	assert.Equal(t, raw, raw.Ensure32Bit().EnsureStereo())
}
