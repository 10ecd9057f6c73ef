// ABOUTME: Tests for the sine synthesizer
// ABOUTME: Sample counts, ranges, silence and drift-free phase
package tone

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCount(t *testing.T) {
	tests := []struct {
		duration   uint32
		sampleRate int
		expected   int
	}{
		{1000, 44100, 44100},
		{100, 44100, 4410},
		{1, 44100, 44},
		{0, 44100, 0},
		{30000, 44100, 1323000},
		{33, 48000, 1584},
		{7, 22050, 154}, // 154.35 floored
		{1000, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SampleCount(tt.duration, tt.sampleRate),
			"duration=%d rate=%d", tt.duration, tt.sampleRate)
	}
}

func TestSynthesizeA4(t *testing.T) {
	samples := Synthesize(440.0, 0.5, 1000, 44100)

	require.Len(t, samples, 44100)
	assert.Equal(t, int16(0), samples[0])

	var peak int16
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	assert.LessOrEqual(t, peak, int16(16383))
	assert.Greater(t, peak, int16(16300))
}

func TestSynthesizeRange(t *testing.T) {
	frequencies := []float64{100, 440, 1000, 4321.5, 10000}
	amplitudes := []float64{0, 0.1, 0.5, 0.999, 1}
	durations := []uint32{0, 1, 10, 250}

	for _, f := range frequencies {
		for _, a := range amplitudes {
			for _, d := range durations {
				samples := Synthesize(f, a, d, audio.DefaultSampleRate)
				require.Len(t, samples, SampleCount(d, audio.DefaultSampleRate))

				limit := int(math.Floor(a * audio.MaxSample))
				for i, s := range samples {
					v := int(s)
					if v < -limit || v > limit {
						t.Fatalf("f=%v a=%v d=%v: sample %d = %d outside ±%d", f, a, d, i, v, limit)
					}
				}
			}
		}
	}
}

func TestSynthesizeFullScaleStaysSymmetric(t *testing.T) {
	samples := Synthesize(1000, 1, 100, 44100)
	for _, s := range samples {
		assert.GreaterOrEqual(t, s, int16(-32767))
	}
}

func TestSynthesizeSilence(t *testing.T) {
	samples := Synthesize(1234, 0, 500, 44100)
	require.Len(t, samples, 22050)
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d = %d, expected silence", i, s)
		}
	}
}

func TestSynthesizeZeroDuration(t *testing.T) {
	assert.Empty(t, Synthesize(440, 1, 0, 44100))
}

func TestSynthesizeUsesAbsoluteTime(t *testing.T) {
	// Sample i of a long tone must equal the closed-form value at t=i/rate.
	samples := Synthesize(997, 1, 30000, 44100)
	for _, i := range []int{0, 1, 44099, 44100, 1000000, len(samples) - 1} {
		tm := float64(i) / 44100
		expected := math.Round(math.Sin(2*math.Pi*997*tm) * 32767)
		assert.InDelta(t, expected, float64(samples[i]), 1, "sample %d", i)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	assert.Equal(t, Synthesize(440, 0.3, 50, 44100), Synthesize(440, 0.3, 50, 44100))
}

func TestSynthesizeBuffer(t *testing.T) {
	p := Params{Frequency: 440, Amplitude: 0.5, Duration: 10}
	buf, err := SynthesizeBuffer(p, audio.DefaultFormat())
	require.NoError(t, err)

	require.Len(t, buf.Samples, 441)
	require.Len(t, buf.Data, 882)
	assert.Equal(t, 882, buf.Header.BufferLength)
	assert.Equal(t, audio.DefaultFormat(), buf.Format)

	for i, s := range buf.Samples {
		assert.Equal(t, s, int16(binary.LittleEndian.Uint16(buf.Data[i*2:])))
	}
}
