// ABOUTME: Playback transaction for one synthesized buffer
// ABOUTME: Prepare, submit, poll until done, and always reset and unprepare
package tone

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/google/uuid"
)

// State is the progress of a playback transaction
type State int

const (
	StateIdle State = iota
	StatePrepared
	StateSubmitted
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrepared:
		return "prepared"
	case StateSubmitted:
		return "submitted"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transaction drives one buffer through a device. The buffer belongs to the
// transaction and is not touched after run returns.
type transaction struct {
	id     uuid.UUID
	device output.Device
	buf    *audio.Buffer
	poll   time.Duration
	logger *slog.Logger

	state State
	polls int
}

func newTransaction(device output.Device, buf *audio.Buffer, poll time.Duration, logger *slog.Logger) *transaction {
	id := uuid.New()
	return &transaction{
		id:     id,
		device: device,
		buf:    buf,
		poll:   poll,
		logger: logger.With("txn", id.String()),
		state:  StateIdle,
	}
}

// run plays the buffer to completion. No timeout applies to the wait: a
// device that never finishes keeps the caller here.
func (t *transaction) run(ctx context.Context) error {
	if err := t.device.Prepare(t.buf); err != nil {
		t.state = StateFailed
		return fmt.Errorf("failed to prepare wave header: %w", deviceError("prepare", err))
	}
	t.state = StatePrepared
	defer t.release()

	if err := ctx.Err(); err != nil {
		t.state = StateFailed
		return err
	}

	if err := t.device.Write(t.buf); err != nil {
		t.state = StateFailed
		return fmt.Errorf("failed to write wave data: %w", deviceError("write", err))
	}
	t.state = StateSubmitted

	if err := t.wait(); err != nil {
		t.state = StateFailed
		return err
	}

	t.state = StateCompleted
	t.logger.Debug("playback completed", "polls", t.polls)
	return nil
}

// wait polls Unprepare until the device stops reporting the buffer as playing
func (t *transaction) wait() error {
	for {
		err := t.device.Unprepare(t.buf)
		if err == nil {
			return nil
		}
		if !output.IsStillPlaying(err) {
			return fmt.Errorf("failed to unprepare wave header: %w", deviceError("unprepare", err))
		}
		t.polls++
		time.Sleep(t.poll)
	}
}

// release is the exit guard for a prepared buffer: stop output and make sure
// the buffer is no longer registered, whatever state the transaction is in.
func (t *transaction) release() {
	t.device.Reset()
	if err := t.device.Unprepare(t.buf); err != nil {
		t.logger.Warn("failed to unprepare wave header on release", "state", t.state.String(), "err", err)
	}
}
