// ABOUTME: Simplified system beep
// ABOUTME: Validates the wide beep band and hands off to the platform tone primitive
package tone

// Beep sounds a tone through the platform's built-in tone generator. It does
// not use a Session or the synthesizer. durationMs is in milliseconds.
//
// Beep returns ErrPlatformUnsupported on platforms without a tone primitive,
// after validating the frequency.
func Beep(frequency, durationMs uint32) error {
	if err := ValidateBeep(frequency); err != nil {
		return err
	}
	return systemBeep(frequency, durationMs)
}
