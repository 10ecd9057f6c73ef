// ABOUTME: Audio output driver tests
// ABOUTME: Verifies interface conformance, error codes and the null driver lifecycle
package output

import (
	"errors"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriversImplementDriver(t *testing.T) {
	var _ Driver = (*Oto)(nil)
	var _ Driver = (*Malgo)(nil)
	var _ Driver = (*Pulse)(nil)
	var _ Driver = (*PortAudio)(nil)
	var _ Driver = (*Null)(nil)
}

func TestDevicesImplementDevice(t *testing.T) {
	var _ Device = (*otoDevice)(nil)
	var _ Device = (*malgoDevice)(nil)
	var _ Device = (*pulseDevice)(nil)
	var _ Device = (*nullDevice)(nil)
}

func TestErrorFormatting(t *testing.T) {
	err := NewError("prepare", CodeNoMem, nil)

	assert.Equal(t, "prepare: Unable to allocate or lock memory (error code: 7)", err.Error())
	assert.True(t, errors.Is(err, ErrDevice))
	assert.False(t, errors.Is(err, ErrStillPlaying))
}

func TestErrorWrapsPlatformError(t *testing.T) {
	cause := errors.New("device busy")
	err := NewError("open", CodeAllocated, cause)

	assert.Equal(t, "device busy", err.Text)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "(error code: 4)")
}

func TestIsStillPlaying(t *testing.T) {
	assert.True(t, IsStillPlaying(NewError("unprepare", CodeStillPlaying, nil)))
	assert.False(t, IsStillPlaying(NewError("unprepare", CodeError, nil)))
	assert.False(t, IsStillPlaying(nil))
	assert.False(t, IsStillPlaying(errors.New("other")))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "The buffer is still in the queue", ErrorText(CodeStillPlaying))
	assert.Equal(t, "Unknown device error 99", ErrorText(99))
}

func TestRegistry(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"malgo", "null", "oto", "portaudio", "pulse"}, names)

	for _, name := range names {
		d, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	d, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDriver, d.Name())

	d, err = New("NULL")
	require.NoError(t, err)
	assert.Equal(t, "null", d.Name())

	_, err = New("winmm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown audio driver")
}

func newTestBuffer(samples int) *audio.Buffer {
	buf := &audio.Buffer{
		Samples: make([]int16, samples),
		Format:  audio.DefaultFormat(),
	}
	buf.Data = make([]byte, samples*2)
	buf.Header.BufferLength = len(buf.Data)
	return buf
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestNullDeviceLifecycle(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	drv := &Null{now: clock.now}

	dev, err := drv.Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := newTestBuffer(4410) // 100ms
	require.NoError(t, dev.Prepare(buf))
	assert.True(t, buf.Header.Flags.Has(audio.FlagPrepared))

	require.NoError(t, dev.Write(buf))
	assert.True(t, buf.Header.Flags.Has(audio.FlagInQueue))

	err = dev.Unprepare(buf)
	assert.True(t, IsStillPlaying(err))

	clock.t = clock.t.Add(100 * time.Millisecond)
	require.NoError(t, dev.Unprepare(buf))
	assert.False(t, buf.Header.Flags.Has(audio.FlagPrepared))
	assert.Nil(t, buf.Header.Cookie)

	require.NoError(t, dev.Close())
}

func TestNullDeviceReset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	dev, err := (&Null{now: clock.now}).Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := newTestBuffer(44100)
	require.NoError(t, dev.Prepare(buf))
	require.NoError(t, dev.Write(buf))

	dev.Reset()
	assert.True(t, buf.Header.Flags.Has(audio.FlagDone))
	require.NoError(t, dev.Unprepare(buf))
	require.NoError(t, dev.Close())
}

func TestNullDeviceRejectsMisuse(t *testing.T) {
	dev, err := NewNull().Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := newTestBuffer(10)

	var derr *Error
	require.ErrorAs(t, dev.Write(buf), &derr)
	assert.Equal(t, CodeUnprepared, derr.Code)

	require.NoError(t, dev.Prepare(buf))
	require.ErrorAs(t, dev.Prepare(buf), &derr)
	assert.Equal(t, CodeInvalidParam, derr.Code)

	other := newTestBuffer(10)
	other.Format.SampleRate = 48000
	require.ErrorAs(t, dev.Prepare(other), &derr)
	assert.Equal(t, CodeBadFormat, derr.Code)

	require.NoError(t, dev.Unprepare(buf))
	require.NoError(t, dev.Unprepare(buf), "unprepare of an unprepared buffer is a no-op")

	require.NoError(t, dev.Close())
	require.ErrorAs(t, dev.Close(), &derr)
	assert.Equal(t, CodeInvalHandle, derr.Code)
	require.ErrorAs(t, dev.Prepare(newTestBuffer(1)), &derr)
	assert.Equal(t, CodeInvalHandle, derr.Code)
}

func TestNullDeviceEmptyBuffer(t *testing.T) {
	dev, err := NewNull().Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := newTestBuffer(0)
	require.NoError(t, dev.Prepare(buf))
	require.NoError(t, dev.Write(buf))
	require.NoError(t, dev.Unprepare(buf))
	require.NoError(t, dev.Close())
}

func TestOpenRejectsBadFormat(t *testing.T) {
	_, err := NewNull().Open(audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16})

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeBadFormat, derr.Code)
}
