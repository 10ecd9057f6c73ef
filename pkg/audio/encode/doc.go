// ABOUTME: Audio encoder package for turning samples into device bytes
// ABOUTME: Provides Encoder interface and the 16-bit PCM implementation
// Package encode converts quantized samples into the byte layout drivers write.
//
// Only 16-bit little-endian PCM is supported, which is what every tone
// driver is opened with.
//
// Example:
//
//	buf := &audio.Buffer{Samples: samples, Format: audio.DefaultFormat()}
//	err := encode.Fill(buf)
package encode
