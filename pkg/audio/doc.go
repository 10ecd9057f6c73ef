// ABOUTME: Audio fundamentals package providing core types
// ABOUTME: Defines Format and Buffer types shared by the synthesizer and drivers
// Package audio provides the PCM types used throughout the tone engine.
//
//   - Format: sample rate, channel count and bit depth of an output device
//   - Buffer: a synthesized waveform plus the header metadata a driver tracks
//
// Example:
//
//	format := audio.DefaultFormat() // 44100Hz mono 16-bit
//	buf := &audio.Buffer{Samples: samples, Format: format}
package audio
