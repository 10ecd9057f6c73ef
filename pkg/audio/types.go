// ABOUTME: Audio type definitions
// ABOUTME: Defines the output format and the waveform buffer handed to drivers
package audio

import (
	"fmt"
	"time"
)

const (
	// MaxSample is the largest magnitude a synthesized 16-bit sample may take.
	// -32768 is never produced so the range stays symmetric.
	MaxSample = 32767

	DefaultSampleRate = 44100
	DefaultChannels   = 1
	DefaultBitDepth   = 16
)

// Format describes the PCM format a device is opened with
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat returns mono 16-bit PCM at 44100 Hz
func DefaultFormat() Format {
	return Format{
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		BitDepth:   DefaultBitDepth,
	}
}

// BlockAlign returns the number of bytes in one frame
func (f Format) BlockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// BytesPerSecond returns the average data rate of the format
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.BlockAlign()
}

// Validate checks that the format can be played by the tone engine
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels != 1 {
		return fmt.Errorf("unsupported channel count: %d (supported: 1)", f.Channels)
	}
	if f.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16)", f.BitDepth)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// HeaderFlags tracks the device-side state of a Buffer
type HeaderFlags uint32

const (
	FlagPrepared HeaderFlags = 1 << iota
	FlagInQueue
	FlagDone
)

func (fl HeaderFlags) Has(flag HeaderFlags) bool {
	return fl&flag != 0
}

// Header is the device-specific metadata attached to a Buffer.
// Drivers own Cookie between Prepare and Unprepare.
type Header struct {
	BufferLength int
	Flags        HeaderFlags
	Cookie       any
}

// Buffer is one synthesized waveform ready for output
type Buffer struct {
	Samples []int16 // quantized samples, mono
	Data    []byte  // Samples encoded as 16-bit little-endian PCM
	Format  Format
	Header  Header
}

// Duration returns how long the buffer plays at its format's sample rate
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	frames := len(b.Samples) / max(b.Format.Channels, 1)
	return time.Duration(frames) * time.Second / time.Duration(b.Format.SampleRate)
}
