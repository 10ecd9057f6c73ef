// ABOUTME: Sine wave synthesizer
// ABOUTME: Maps frequency, amplitude and duration to quantized 16-bit samples
package tone

import (
	"math"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/encode"
)

// SampleCount returns floor(sampleRate * durationMs / 1000)
func SampleCount(durationMs uint32, sampleRate int) int {
	if sampleRate <= 0 {
		return 0
	}
	return int(uint64(sampleRate) * uint64(durationMs) / 1000)
}

// Synthesize generates a mono sine wave. Inputs are assumed validated.
//
// The phase of sample i is computed from its absolute time i/sampleRate
// rather than accumulated, so long tones do not drift. Samples never exceed
// amplitude*32767 in magnitude.
func Synthesize(frequency, amplitude float64, durationMs uint32, sampleRate int) []int16 {
	n := SampleCount(durationMs, sampleRate)
	samples := make([]int16, n)

	scale := amplitude * audio.MaxSample
	peak := math.Floor(scale)

	for i := range samples {
		t := float64(i) / float64(sampleRate)
		raw := math.Sin(2 * math.Pi * frequency * t)

		v := math.Round(raw * scale)
		if v > peak {
			v = peak
		} else if v < -peak {
			v = -peak
		}
		samples[i] = int16(v)
	}

	return samples
}

// SynthesizeBuffer synthesizes p in format and encodes it ready for a device
func SynthesizeBuffer(p Params, format audio.Format) (*audio.Buffer, error) {
	buf := &audio.Buffer{
		Samples: Synthesize(p.Frequency, p.Amplitude, p.Duration, format.SampleRate),
		Format:  format,
	}
	if err := encode.Fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
