// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides sample rate conversion for mono 16-bit PCM.
//
// Uses linear interpolation. Handles both upsampling and downsampling and
// keeps the buffer's duration.
//
// Example:
//
//	r := resample.New(44100, 48000)
//	out := r.Resample(samples)
package resample
