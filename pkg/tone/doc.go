// ABOUTME: Synchronous tone playback library
// ABOUTME: Validates, synthesizes and plays sine tones through an output driver
// Package tone plays synthesized sine tones to completion.
//
// A Session owns one output device. PlayTone validates its parameters,
// opens the device if needed, synthesizes the waveform and runs a playback
// transaction: prepare, submit, wait, and an unconditional reset and
// unprepare on the way out. Concurrent callers are serialized.
//
// Beep is a stateless alternative that uses the platform tone generator.
//
// Example:
//
//	drv, err := output.New("oto")
//	session := tone.NewSession(drv)
//	defer session.Close()
//
//	err = session.PlayTone(440, 0.5, 1000) // A4, half amplitude, one second
//
// Errors:
//
//	errors.Is(err, tone.ErrInvalidParameter)    // out-of-range input, nothing touched
//	errors.Is(err, tone.ErrDevice)              // platform failure, see *tone.DeviceError
//	errors.Is(err, tone.ErrPlatformUnsupported) // Beep on a platform without a primitive
package tone
