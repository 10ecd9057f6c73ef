// ABOUTME: Linear resampler for 16-bit mono PCM
// ABOUTME: Converts a finished tone buffer to a device's running sample rate
package resample

import "math"

// Resampler converts mono int16 samples between two rates using linear interpolation
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
}

// New creates a resampler from inputRate to outputRate
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// OutputLength is the number of samples Resample produces for n input
// samples. It preserves duration, rounding to the nearest sample.
func (r *Resampler) OutputLength(n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(n) * float64(r.outputRate) / float64(r.inputRate)))
}

// Resample returns input converted to the output rate. Equal rates return
// a copy. The last input sample is held past the end of the input.
func (r *Resampler) Resample(input []int16) []int16 {
	out := make([]int16, r.OutputLength(len(input)))
	if len(out) == 0 {
		return out
	}
	if r.inputRate == r.outputRate {
		copy(out, input)
		return out
	}

	last := len(input) - 1
	for i := range out {
		pos := float64(i) * r.ratio
		idx := int(pos)
		if idx >= last {
			out[i] = input[last]
			continue
		}

		frac := pos - float64(idx)
		v := float64(input[idx])*(1.0-frac) + float64(input[idx+1])*frac
		out[i] = int16(math.Round(v))
	}
	return out
}
