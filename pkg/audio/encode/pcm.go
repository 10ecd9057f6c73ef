// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int16 samples to 16-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// PCMEncoder encodes 16-bit PCM audio
type PCMEncoder struct {
	channels int
}

// NewPCM creates a new PCM encoder for the given format
func NewPCM(format audio.Format) (Encoder, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}

	return &PCMEncoder{channels: format.Channels}, nil
}

// Encode converts int16 samples to little-endian PCM bytes
func (e *PCMEncoder) Encode(samples []int16) ([]byte, error) {
	if len(samples)%e.channels != 0 {
		return nil, fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), e.channels)
	}
	return PCM16(samples), nil
}

// PCM16 encodes samples as 16-bit little-endian PCM: 2 bytes per sample
func PCM16(samples []int16) []byte {
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(sample))
	}
	return output
}

// Fill encodes buf.Samples into buf.Data and records the byte length in the header
func Fill(buf *audio.Buffer) error {
	enc, err := NewPCM(buf.Format)
	if err != nil {
		return err
	}
	data, err := enc.Encode(buf.Samples)
	if err != nil {
		return err
	}
	buf.Data = data
	buf.Header.BufferLength = len(data)
	return nil
}
