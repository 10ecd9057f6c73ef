// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 16-bit PCM encoding and buffer filling
package encode

import (
	"encoding/binary"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid mono 16-bit",
			format: audio.DefaultFormat(),
		},
		{
			name:   "valid stereo 16-bit",
			format: audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 16},
		},
		{
			name:        "unsupported bit depth",
			format:      audio.Format{SampleRate: 48000, Channels: 1, BitDepth: 24},
			wantErr:     true,
			errContains: "unsupported bit depth",
		},
		{
			name:        "no channels",
			format:      audio.Format{SampleRate: 48000, Channels: 0, BitDepth: 16},
			wantErr:     true,
			errContains: "invalid channel count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, encoder)
		})
	}
}

func TestPCMEncoder_Encode16Bit(t *testing.T) {
	encoder, err := NewPCM(audio.DefaultFormat())
	require.NoError(t, err)

	samples := []int16{0, 32767, -32767, 0x1234, -0x5678}

	output, err := encoder.Encode(samples)
	require.NoError(t, err)
	require.Len(t, output, len(samples)*2)

	for i, sample := range samples {
		actual := int16(binary.LittleEndian.Uint16(output[i*2:]))
		assert.Equal(t, sample, actual, "sample %d", i)
	}
}

func TestPCMEncoder_StereoFrameMismatch(t *testing.T) {
	encoder, err := NewPCM(audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 16})
	require.NoError(t, err)

	_, err = encoder.Encode([]int16{1, 2, 3})
	require.Error(t, err)
}

func TestPCM16ByteOrder(t *testing.T) {
	assert.Equal(t, []byte{0x34, 0x12}, PCM16([]int16{0x1234}))
	assert.Equal(t, []byte{0xFF, 0xFF}, PCM16([]int16{-1}))
	assert.Empty(t, PCM16(nil))
}

func TestFill(t *testing.T) {
	buf := &audio.Buffer{
		Samples: []int16{1, -1, 100},
		Format:  audio.DefaultFormat(),
	}

	require.NoError(t, Fill(buf))
	assert.Len(t, buf.Data, 6)
	assert.Equal(t, 6, buf.Header.BufferLength)
}

func TestFillRejectsFormat(t *testing.T) {
	buf := &audio.Buffer{
		Samples: []int16{1},
		Format:  audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 8},
	}

	require.Error(t, Fill(buf))
	assert.Nil(t, buf.Data)
}
