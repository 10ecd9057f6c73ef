// ABOUTME: Tests for audio types
// ABOUTME: Tests format helpers and buffer duration
package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFormat(t *testing.T) {
	f := DefaultFormat()

	assert.Equal(t, 44100, f.SampleRate)
	assert.Equal(t, 1, f.Channels)
	assert.Equal(t, 16, f.BitDepth)
	assert.Equal(t, 2, f.BlockAlign())
	assert.Equal(t, 88200, f.BytesPerSecond())
	require.NoError(t, f.Validate())
}

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		errContains string
	}{
		{"zero rate", Format{SampleRate: 0, Channels: 1, BitDepth: 16}, "invalid sample rate"},
		{"stereo", Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, "unsupported channel count"},
		{"24-bit", Format{SampleRate: 44100, Channels: 1, BitDepth: 24}, "unsupported bit depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestBufferDuration(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		format   Format
		expected time.Duration
	}{
		{"one second", 44100, DefaultFormat(), time.Second},
		{"100ms", 4410, DefaultFormat(), 100 * time.Millisecond},
		{"empty", 0, DefaultFormat(), 0},
		{"no format", 100, Format{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &Buffer{Samples: make([]int16, tt.samples), Format: tt.format}
			assert.Equal(t, tt.expected, buf.Duration())
		})
	}
}

func TestHeaderFlags(t *testing.T) {
	var fl HeaderFlags
	assert.False(t, fl.Has(FlagPrepared))

	fl |= FlagPrepared | FlagDone
	assert.True(t, fl.Has(FlagPrepared))
	assert.True(t, fl.Has(FlagDone))
	assert.False(t, fl.Has(FlagInQueue))
}
