// ABOUTME: Parameter validation for tone playback and system beeps
// ABOUTME: Rejects out-of-range values before any device interaction
package tone

import "math"

// Tone playback bounds
const (
	MinFrequency = 100.0
	MaxFrequency = 10000.0
	MinAmplitude = 0.0
	MaxAmplitude = 1.0
	MaxDuration  = 30000 // milliseconds
)

// System beep bounds
const (
	MinBeepFrequency = 37
	MaxBeepFrequency = 32767
)

// Params describes one tone. Duration is in milliseconds.
type Params struct {
	Frequency float64
	Amplitude float64
	Duration  uint32
}

// Validate checks p against the tone playback bounds
func (p Params) Validate() error {
	return ValidateTone(p.Frequency, p.Amplitude, p.Duration)
}

// ValidateTone checks frequency, amplitude and duration for PlayTone.
// NaN is outside every band.
func ValidateTone(frequency, amplitude float64, durationMs uint32) error {
	if math.IsNaN(frequency) || frequency < MinFrequency || frequency > MaxFrequency {
		return &InvalidParameterError{
			Param: "frequency",
			Value: frequency,
			Min:   MinFrequency,
			Max:   MaxFrequency,
			Unit:  "Hz",
		}
	}

	if math.IsNaN(amplitude) || amplitude < MinAmplitude || amplitude > MaxAmplitude {
		return &InvalidParameterError{
			Param: "amplitude",
			Value: amplitude,
			Min:   MinAmplitude,
			Max:   MaxAmplitude,
		}
	}

	if durationMs > MaxDuration {
		return &InvalidParameterError{
			Param: "duration",
			Value: float64(durationMs),
			Min:   0,
			Max:   MaxDuration,
			Unit:  "ms",
		}
	}

	return nil
}

// ValidateBeep checks the frequency of a system beep
func ValidateBeep(frequency uint32) error {
	if frequency < MinBeepFrequency || frequency > MaxBeepFrequency {
		return &InvalidParameterError{
			Param: "frequency",
			Value: float64(frequency),
			Min:   MinBeepFrequency,
			Max:   MaxBeepFrequency,
			Unit:  "Hz",
		}
	}
	return nil
}

// BeepFrequency converts a configured frequency to the whole-hertz value
// Beep takes. NaN, fractions and values outside the beep band are rejected
// rather than truncated.
func BeepFrequency(frequency float64) (uint32, error) {
	if math.IsNaN(frequency) || frequency < MinBeepFrequency || frequency > MaxBeepFrequency {
		return 0, &InvalidParameterError{
			Param: "frequency",
			Value: frequency,
			Min:   MinBeepFrequency,
			Max:   MaxBeepFrequency,
			Unit:  "Hz",
		}
	}
	if frequency != math.Trunc(frequency) {
		return 0, &InvalidParameterError{
			Param:  "frequency",
			Value:  frequency,
			Min:    MinBeepFrequency,
			Max:    MaxBeepFrequency,
			Unit:   "Hz",
			Reason: "must be a whole number",
		}
	}
	return uint32(frequency), nil
}
