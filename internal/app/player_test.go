// ABOUTME: Tests for tone application orchestration
// ABOUTME: Tests player creation, modes and shutdown
package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output/outputtest"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Driver:       "null",
		SampleRate:   8000,
		PollInterval: time.Millisecond,
		Frequency:    440,
		Amplitude:    0.5,
		Duration:     20,
		Mode:         ModeTone,
	}
}

func TestNewPlayer(t *testing.T) {
	player, err := New(testConfig())
	require.NoError(t, err)
	defer player.Stop()

	assert.Equal(t, "null", player.Session().Driver())
	assert.Equal(t, 8000, player.Session().Format().SampleRate)
	assert.False(t, player.Session().IsOpen())
}

func TestNewPlayerUnknownDriver(t *testing.T) {
	config := testConfig()
	config.Driver = "jack"

	_, err := New(config)
	assert.ErrorContains(t, err, "unknown audio driver")
}

func TestStartTone(t *testing.T) {
	rec := outputtest.New()
	player := NewWithDriver(testConfig(), rec)

	require.NoError(t, player.Start())
	assert.Equal(t, []string{
		outputtest.OpOpen,
		outputtest.OpPrepare,
		outputtest.OpWrite,
		outputtest.OpUnprepare,
		outputtest.OpReset,
		outputtest.OpUnprepare,
	}, rec.Ops())
	assert.True(t, player.Session().IsOpen())

	player.Stop()
	assert.False(t, player.Session().IsOpen())
	assert.Equal(t, 0, rec.OpenDevices())
}

func TestStartToneInvalidParams(t *testing.T) {
	rec := outputtest.New()
	config := testConfig()
	config.Frequency = 50
	player := NewWithDriver(config, rec)
	defer player.Stop()

	err := player.Start()
	assert.ErrorIs(t, err, tone.ErrInvalidParameter)
	assert.Empty(t, rec.Calls())
}

func TestStartToneDeviceFailure(t *testing.T) {
	rec := outputtest.New()
	rec.FailOpen = output.CodeAllocated
	player := NewWithDriver(testConfig(), rec)
	defer player.Stop()

	err := player.Start()
	assert.ErrorIs(t, err, tone.ErrDevice)
	assert.False(t, player.Session().IsOpen())
}

func TestStartAfterStopIsCancelled(t *testing.T) {
	rec := outputtest.New()
	player := NewWithDriver(testConfig(), rec)
	player.Stop()

	err := player.Start()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rec.Count(outputtest.OpWrite))
}

func TestStartBeep(t *testing.T) {
	config := testConfig()
	config.Mode = ModeBeep
	player := NewWithDriver(config, outputtest.New())
	defer player.Stop()

	var gotFreq, gotDur uint32
	player.beep = func(frequency, durationMs uint32) error {
		gotFreq, gotDur = frequency, durationMs
		return nil
	}

	require.NoError(t, player.Start())
	assert.Equal(t, uint32(440), gotFreq)
	assert.Equal(t, uint32(20), gotDur)
}

func TestStartBeepUnsupported(t *testing.T) {
	config := testConfig()
	config.Mode = ModeBeep
	player := NewWithDriver(config, outputtest.New())
	defer player.Stop()

	player.beep = func(uint32, uint32) error { return tone.ErrPlatformUnsupported }

	err := player.Start()
	assert.True(t, errors.Is(err, tone.ErrPlatformUnsupported))
}

func TestStartBeepRejectsUnusableFrequency(t *testing.T) {
	for _, freq := range []float64{4294967736, 37.9, -440, 40000} {
		config := testConfig()
		config.Mode = ModeBeep
		config.Frequency = freq
		player := NewWithDriver(config, output.NewNull())

		var sent []uint32
		player.beep = func(frequency, durationMs uint32) error {
			sent = append(sent, frequency)
			return nil
		}

		err := player.Start()
		assert.ErrorIs(t, err, tone.ErrInvalidParameter, "frequency %v", freq)
		assert.Empty(t, sent, "frequency %v", freq)
		player.Stop()
	}
}

func TestStopIsIdempotent(t *testing.T) {
	player := NewWithDriver(testConfig(), outputtest.New())
	player.Stop()
	player.Stop()
	assert.False(t, player.Session().IsOpen())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "tone", ModeTone.String())
	assert.Equal(t, "beep", ModeBeep.String())
	assert.Equal(t, "tui", ModeTUI.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
