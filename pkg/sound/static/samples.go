package static

import "github.com/gosound/resonance/pkg/dsp"

// i16FullScale is the divisor used to convert a signed 16-bit PCM sample
// to a float32 in [-1, 1].
const i16FullScale = 32768.0

// Samples is the canonical, immutable in-memory sample storage a
// StaticSoundData holds: every supported source encoding (mono/stereo,
// 16-bit PCM/32-bit float) is converted to a flat slice of dsp.Frame once
// at load time, so the resampler never branches on encoding per sample.
// A Samples value is safe to share by slice aliasing across multiple
// StaticSoundData built from the same decoded buffer: nothing here ever
// mutates the backing array after construction.
type Samples struct {
	frames []dsp.Frame
}

// RawKind discriminates the encoding a loader handed RawSamples before it
// was normalized toward Frame stereo, mirroring spec.md §3's tagged union
// of sample storage ({i16 mono, i16 stereo, f32 mono, Frame stereo}).
type RawKind int

const (
	RawI16Mono RawKind = iota
	RawI16Stereo
	RawF32Mono
	RawFrameStereo
)

// RawSamples is the pre-normalization form of decoded audio, as a loader
// would hand it over before a StaticSoundData is built. Ensure32Bit and
// EnsureStereo are the conversion operations spec.md §8 names explicitly
// ("ensure_stereo(ensure_32_bit(s))") and both promote toward Frame
// stereo without ever changing the frame count, only the representation.
type RawSamples struct {
	kind RawKind
	i16  []int16 // RawI16Mono: one sample per frame. RawI16Stereo: interleaved L,R pairs.
	f32  []float32
	stereo []dsp.Frame
}

// NewRawI16Mono wraps interleaved mono 16-bit PCM as a RawSamples.
func NewRawI16Mono(data []int16) RawSamples { return RawSamples{kind: RawI16Mono, i16: data} }

// NewRawI16Stereo wraps interleaved stereo 16-bit PCM (L,R,L,R,...) as a
// RawSamples. len(data) must be even; a trailing odd sample is dropped.
func NewRawI16Stereo(data []int16) RawSamples { return RawSamples{kind: RawI16Stereo, i16: data} }

// NewRawF32Mono wraps a mono float32 buffer already in [-1, 1].
func NewRawF32Mono(data []float32) RawSamples { return RawSamples{kind: RawF32Mono, f32: data} }

// NewRawFrameStereo wraps already-decoded stereo frames; it is already
// both 32-bit and stereo, so Ensure32Bit/EnsureStereo are no-ops on it.
func NewRawFrameStereo(data []dsp.Frame) RawSamples {
	return RawSamples{kind: RawFrameStereo, stereo: data}
}

// Len reports the frame count regardless of encoding, the quantity
// spec.md §8's round-trip property holds fixed across conversions.
func (r RawSamples) Len() int {
	switch r.kind {
	case RawI16Mono, RawF32Mono:
		if r.kind == RawI16Mono {
			return len(r.i16)
		}
		return len(r.f32)
	case RawI16Stereo:
		return len(r.i16) / 2
	default:
		return len(r.stereo)
	}
}

// Ensure32Bit promotes an i16 variant to its float32 equivalent, leaving
// f32/Frame-stereo variants (already 32-bit) untouched.
func (r RawSamples) Ensure32Bit() RawSamples {
	switch r.kind {
	case RawI16Mono:
		out := make([]float32, len(r.i16))
		for i, s := range r.i16 {
			out[i] = float32(s) / i16FullScale
		}
		return RawSamples{kind: RawF32Mono, f32: out}
	case RawI16Stereo:
		n := len(r.i16) / 2
		out := make([]dsp.Frame, n)
		for i := 0; i < n; i++ {
			out[i] = dsp.Frame{
				Left:  float32(r.i16[2*i]) / i16FullScale,
				Right: float32(r.i16[2*i+1]) / i16FullScale,
			}
		}
		return RawSamples{kind: RawFrameStereo, stereo: out}
	default:
		return r
	}
}

// EnsureStereo promotes a mono variant to Frame stereo (duplicating the
// channel), leaving already-stereo variants untouched. Per spec.md §8 the
// composition ensure_stereo(ensure_32_bit(s)) always lands on
// RawFrameStereo with the same Len() the input started with.
func (r RawSamples) EnsureStereo() RawSamples {
	switch r.kind {
	case RawF32Mono:
		out := make([]dsp.Frame, len(r.f32))
		for i, v := range r.f32 {
			out[i] = dsp.FromMono(v)
		}
		return RawSamples{kind: RawFrameStereo, stereo: out}
	case RawI16Mono:
		return r.Ensure32Bit().EnsureStereo()
	default:
		return r
	}
}

// ToSamples finalizes a RawSamples into the flat Frame storage the
// resampler reads from, normalizing through Ensure32Bit/EnsureStereo
// first regardless of the variant it started as.
func (r RawSamples) ToSamples() Samples {
	final := r.Ensure32Bit().EnsureStereo()
	frames := make([]dsp.Frame, len(final.stereo))
	copy(frames, final.stereo)
	return Samples{frames: frames}
}

// FromI16Mono builds Samples from interleaved mono 16-bit PCM.
func FromI16Mono(data []int16) Samples { return NewRawI16Mono(data).ToSamples() }

// FromI16Stereo builds Samples from interleaved stereo 16-bit PCM
// (left, right, left, right, ...). len(data) must be even; a trailing odd
// sample is dropped.
func FromI16Stereo(data []int16) Samples { return NewRawI16Stereo(data).ToSamples() }

// FromF32Mono builds Samples from a mono float32 buffer already in [-1, 1].
func FromF32Mono(data []float32) Samples { return NewRawF32Mono(data).ToSamples() }

// FromF32Stereo builds Samples directly from already-decoded stereo frames.
func FromF32Stereo(data []dsp.Frame) Samples { return NewRawFrameStereo(data).ToSamples() }

// Len returns the number of frames.
func (s Samples) Len() int { return len(s.frames) }

// IsEmpty reports whether there are no frames at all.
func (s Samples) IsEmpty() bool { return len(s.frames) == 0 }

// At returns the frame at index i, or dsp.Zero if i is out of range. The
// resampler relies on this never panicking: a window that reaches past
// either end of the buffer reads as silence.
func (s Samples) At(i int) dsp.Frame {
	if i < 0 || i >= len(s.frames) {
		return dsp.Zero
	}
	return s.frames[i]
}

// ToI16Mono renders the samples back to interleaved mono 16-bit PCM,
// averaging stereo channels. Used by loaders that need to re-encode and by
// round-trip tests.
func (s Samples) ToI16Mono() []int16 {
	out := make([]int16, len(s.frames))
	for i, f := range s.frames {
		mono := (f.Left + f.Right) / 2
		out[i] = clampI16(mono)
	}
	return out
}

// ToI16Stereo renders the samples back to interleaved stereo 16-bit PCM.
func (s Samples) ToI16Stereo() []int16 {
	out := make([]int16, len(s.frames)*2)
	for i, f := range s.frames {
		out[2*i] = clampI16(f.Left)
		out[2*i+1] = clampI16(f.Right)
	}
	return out
}

func clampI16(v float32) int16 {
	scaled := v * i16FullScale
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}
