package outputtest

import (
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRecordsCallOrder(t *testing.T) {
	r := New()
	r.StillPlaying = 2

	dev, err := r.Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := &audio.Buffer{Format: audio.DefaultFormat()}
	require.NoError(t, dev.Prepare(buf))
	assert.Equal(t, 1, r.Prepared())
	require.NoError(t, dev.Write(buf))
	assert.True(t, output.IsStillPlaying(dev.Unprepare(buf)))
	assert.True(t, output.IsStillPlaying(dev.Unprepare(buf)))
	require.NoError(t, dev.Unprepare(buf))
	require.NoError(t, dev.Close())

	assert.Equal(t, []string{"open", "prepare", "write", "unprepare", "unprepare", "unprepare", "close"}, r.Ops())
	assert.Equal(t, 0, r.Prepared())
	assert.Equal(t, 1, r.MaxPrepared())
	assert.Equal(t, 0, r.OpenDevices())
	assert.Equal(t, audio.DefaultFormat(), r.LastFormat())
}

func TestRecorderInjectsFailures(t *testing.T) {
	r := New()
	r.FailOpen = output.CodeAllocated

	_, err := r.Open(audio.DefaultFormat())
	var derr *output.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, output.CodeAllocated, derr.Code)
	assert.Equal(t, 0, r.OpenDevices())

	r.Clear()
	r.FailWrite = output.CodeNoMem
	dev, err := r.Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := &audio.Buffer{Format: audio.DefaultFormat()}
	require.NoError(t, dev.Prepare(buf))
	require.Error(t, dev.Write(buf))
	require.NoError(t, dev.Unprepare(buf))

	calls := r.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "2:write!", calls[2].String())
}

func TestRecorderResetCompletesQueuedBuffers(t *testing.T) {
	r := New()
	r.StillPlaying = 1000

	dev, err := r.Open(audio.DefaultFormat())
	require.NoError(t, err)

	buf := &audio.Buffer{Format: audio.DefaultFormat()}
	require.NoError(t, dev.Prepare(buf))
	require.NoError(t, dev.Write(buf))

	dev.Reset()
	require.NoError(t, dev.Unprepare(buf))
	assert.Equal(t, 1, r.Count(OpUnprepare))
}

func TestRecorderCloseTwice(t *testing.T) {
	r := New()
	r.FailClose = output.CodeError

	dev, err := r.Open(audio.DefaultFormat())
	require.NoError(t, err)

	require.Error(t, dev.Close())
	assert.Equal(t, 0, r.OpenDevices())

	var derr *output.Error
	require.ErrorAs(t, dev.Close(), &derr)
	assert.Equal(t, output.CodeInvalHandle, derr.Code)
}
