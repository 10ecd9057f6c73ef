// ABOUTME: Audio output driver interfaces
// ABOUTME: Common prepare/write/unprepare contract every playback backend implements
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Driver opens output devices for one audio backend
type Driver interface {
	// Name identifies the backend ("oto", "malgo", ...)
	Name() string

	// Open requests a device handle configured for format
	Open(format audio.Format) (Device, error)
}

// Device is an open output handle. A Device is not safe for concurrent use;
// callers serialize access to it.
type Device interface {
	// Prepare registers buf with the device
	Prepare(buf *audio.Buffer) error

	// Write submits a prepared buffer for output and returns immediately
	Write(buf *audio.Buffer) error

	// Unprepare deregisters buf. It returns an error matching ErrStillPlaying
	// while the buffer is queued or playing. Unpreparing a buffer that was
	// never prepared is a no-op.
	Unprepare(buf *audio.Buffer) error

	// Reset stops pending output and marks every queued buffer done
	Reset()

	// Close releases the handle
	Close() error
}

// checkPrepare validates a buffer before a driver registers it
func checkPrepare(buf *audio.Buffer, format audio.Format) error {
	if buf == nil {
		return newError("prepare", CodeInvalidParam, fmt.Errorf("nil buffer"))
	}
	if buf.Header.Flags.Has(audio.FlagPrepared) {
		return newError("prepare", CodeInvalidParam, fmt.Errorf("buffer already prepared"))
	}
	if buf.Format != format {
		return newError("prepare", CodeBadFormat, fmt.Errorf("buffer format %s does not match device format %s", buf.Format, format))
	}
	if len(buf.Data) != buf.Header.BufferLength || len(buf.Data) != len(buf.Samples)*2 {
		return newError("prepare", CodeInvalidParam, fmt.Errorf("buffer length %d does not match %d samples", len(buf.Data), len(buf.Samples)))
	}
	return nil
}

// checkWrite validates a buffer before a driver queues it
func checkWrite(buf *audio.Buffer) error {
	if buf == nil {
		return newError("write", CodeInvalidParam, fmt.Errorf("nil buffer"))
	}
	if !buf.Header.Flags.Has(audio.FlagPrepared) {
		return newError("write", CodeUnprepared, nil)
	}
	if buf.Header.Flags.Has(audio.FlagInQueue) {
		return newError("write", CodeStillPlaying, nil)
	}
	return nil
}

// markQueued flags buf as submitted
func markQueued(buf *audio.Buffer) {
	buf.Header.Flags &^= audio.FlagDone
	buf.Header.Flags |= audio.FlagInQueue
}

// markDone flags buf as finished playing
func markDone(buf *audio.Buffer) {
	buf.Header.Flags &^= audio.FlagInQueue
	buf.Header.Flags |= audio.FlagDone
}

// clearHeader drops the driver's state from buf after a successful unprepare
func clearHeader(buf *audio.Buffer) {
	buf.Header.Flags &^= audio.FlagPrepared | audio.FlagInQueue
	buf.Header.Cookie = nil
}
