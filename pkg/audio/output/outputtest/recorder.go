// ABOUTME: Recording driver for tests
// ABOUTME: Logs every device call in order and injects failures on demand
package outputtest

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

// Op names recorded by the Recorder
const (
	OpOpen      = "open"
	OpPrepare   = "prepare"
	OpWrite     = "write"
	OpUnprepare = "unprepare"
	OpReset     = "reset"
	OpClose     = "close"
)

// Call is one recorded device call
type Call struct {
	Op     string
	Device int // 1-based device number, in open order
	Err    error
}

func (c Call) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%d:%s!", c.Device, c.Op)
	}
	return fmt.Sprintf("%d:%s", c.Device, c.Op)
}

// Recorder is an output.Driver that plays nothing and records every call.
//
// This driver is intended to be used in testing only!
type Recorder struct {
	mu sync.Mutex

	// Fail* make the matching call fail with that code (0 = succeed)
	FailOpen      output.Code
	FailPrepare   output.Code
	FailWrite     output.Code
	FailUnprepare output.Code
	FailClose     output.Code

	// StillPlaying is how many times Unprepare reports a submitted buffer
	// as still playing before it completes
	StillPlaying int

	calls    []Call
	devices  int
	open     int
	prepared int

	maxPrepared int
	lastFormat  audio.Format
}

// New creates a Recorder that succeeds on every call
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) record(op string, dev int, err error) {
	r.calls = append(r.calls, Call{Op: op, Device: dev, Err: err})
}

func (r *Recorder) Open(format audio.Format) (output.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices++
	id := r.devices
	if r.FailOpen != 0 {
		err := output.NewError("open", r.FailOpen, nil)
		r.record(OpOpen, id, err)
		return nil, err
	}
	r.record(OpOpen, id, nil)
	r.open++
	r.lastFormat = format
	return &device{r: r, id: id, format: format}, nil
}

// Calls returns a copy of every recorded call
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the recorded operation names in order
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was called
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// OpenDevices returns the number of devices opened and not yet closed
func (r *Recorder) OpenDevices() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// Prepared returns the number of buffers currently prepared
func (r *Recorder) Prepared() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prepared
}

// MaxPrepared returns the largest number of simultaneously prepared buffers seen
func (r *Recorder) MaxPrepared() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxPrepared
}

// LastFormat returns the format of the most recent successful open
func (r *Recorder) LastFormat() audio.Format {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFormat
}

// Clear empties the call log and failure settings
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.FailOpen, r.FailPrepare, r.FailWrite, r.FailUnprepare, r.FailClose = 0, 0, 0, 0, 0
	r.StillPlaying = 0
	r.maxPrepared = r.prepared
}

type voice struct {
	remaining int
}

type device struct {
	r      *Recorder
	id     int
	format audio.Format
	closed bool
	queued map[*audio.Buffer]struct{}
}

func (d *device) Prepare(buf *audio.Buffer) error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()

	if d.closed {
		err := output.NewError("prepare", output.CodeInvalHandle, nil)
		d.r.record(OpPrepare, d.id, err)
		return err
	}
	if d.r.FailPrepare != 0 {
		err := output.NewError("prepare", d.r.FailPrepare, nil)
		d.r.record(OpPrepare, d.id, err)
		return err
	}
	if buf.Header.Flags.Has(audio.FlagPrepared) {
		err := output.NewError("prepare", output.CodeInvalidParam, fmt.Errorf("buffer already prepared"))
		d.r.record(OpPrepare, d.id, err)
		return err
	}

	d.r.record(OpPrepare, d.id, nil)
	buf.Header.Flags = audio.FlagPrepared
	buf.Header.Cookie = &voice{remaining: d.r.StillPlaying}
	d.r.prepared++
	d.r.maxPrepared = max(d.r.maxPrepared, d.r.prepared)
	return nil
}

func (d *device) Write(buf *audio.Buffer) error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()

	var err error
	switch {
	case d.closed:
		err = output.NewError("write", output.CodeInvalHandle, nil)
	case d.r.FailWrite != 0:
		err = output.NewError("write", d.r.FailWrite, nil)
	case !buf.Header.Flags.Has(audio.FlagPrepared):
		err = output.NewError("write", output.CodeUnprepared, nil)
	}
	d.r.record(OpWrite, d.id, err)
	if err != nil {
		return err
	}

	buf.Header.Flags |= audio.FlagInQueue
	if d.queued == nil {
		d.queued = make(map[*audio.Buffer]struct{})
	}
	d.queued[buf] = struct{}{}
	return nil
}

func (d *device) Unprepare(buf *audio.Buffer) error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()

	if !buf.Header.Flags.Has(audio.FlagPrepared) {
		d.r.record(OpUnprepare, d.id, nil)
		return nil
	}
	if d.r.FailUnprepare != 0 {
		err := output.NewError("unprepare", d.r.FailUnprepare, nil)
		d.r.record(OpUnprepare, d.id, err)
		return err
	}
	v := buf.Header.Cookie.(*voice)
	if buf.Header.Flags.Has(audio.FlagInQueue) && v.remaining > 0 {
		v.remaining--
		err := output.NewError("unprepare", output.CodeStillPlaying, nil)
		d.r.record(OpUnprepare, d.id, err)
		return err
	}

	d.r.record(OpUnprepare, d.id, nil)
	delete(d.queued, buf)
	buf.Header.Flags = 0
	buf.Header.Cookie = nil
	d.r.prepared--
	return nil
}

func (d *device) Reset() {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()

	d.r.record(OpReset, d.id, nil)
	for buf := range d.queued {
		buf.Header.Flags = (buf.Header.Flags &^ audio.FlagInQueue) | audio.FlagDone
		delete(d.queued, buf)
	}
}

func (d *device) Close() error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()

	if d.closed {
		err := output.NewError("close", output.CodeInvalHandle, nil)
		d.r.record(OpClose, d.id, err)
		return err
	}
	// the handle is gone even when the close reports failure
	d.closed = true
	d.r.open--
	if d.r.FailClose != 0 {
		err := output.NewError("close", d.r.FailClose, nil)
		d.r.record(OpClose, d.id, err)
		return err
	}
	d.r.record(OpClose, d.id, nil)
	return nil
}
