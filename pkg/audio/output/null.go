// ABOUTME: Silent output driver
// ABOUTME: Consumes buffers in real time without touching audio hardware
package output

import (
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Null is a driver that plays nothing but takes as long as real playback.
// Useful on headless machines and in tests.
type Null struct {
	// now is replaceable in tests
	now func() time.Time
}

// NewNull creates a new Null driver
func NewNull() Driver {
	return &Null{now: time.Now}
}

func (d *Null) Name() string { return "null" }

func (d *Null) Open(format audio.Format) (Device, error) {
	if err := format.Validate(); err != nil {
		return nil, newError("open", CodeBadFormat, err)
	}
	now := d.now
	if now == nil {
		now = time.Now
	}
	return &nullDevice{format: format, now: now, open: true}, nil
}

type nullVoice struct {
	end time.Time
}

type nullDevice struct {
	format audio.Format
	now    func() time.Time
	open   bool
	queued map[*audio.Buffer]struct{}
}

func (d *nullDevice) Prepare(buf *audio.Buffer) error {
	if !d.open {
		return newError("prepare", CodeInvalHandle, nil)
	}
	if err := checkPrepare(buf, d.format); err != nil {
		return err
	}
	buf.Header.Cookie = &nullVoice{}
	buf.Header.Flags = audio.FlagPrepared
	return nil
}

func (d *nullDevice) Write(buf *audio.Buffer) error {
	if !d.open {
		return newError("write", CodeInvalHandle, nil)
	}
	if err := checkWrite(buf); err != nil {
		return err
	}
	buf.Header.Cookie.(*nullVoice).end = d.now().Add(buf.Duration())
	markQueued(buf)
	if d.queued == nil {
		d.queued = make(map[*audio.Buffer]struct{})
	}
	d.queued[buf] = struct{}{}
	return nil
}

func (d *nullDevice) Unprepare(buf *audio.Buffer) error {
	if buf == nil || !buf.Header.Flags.Has(audio.FlagPrepared) {
		return nil
	}
	if buf.Header.Flags.Has(audio.FlagInQueue) {
		if d.now().Before(buf.Header.Cookie.(*nullVoice).end) {
			return newError("unprepare", CodeStillPlaying, nil)
		}
		markDone(buf)
		delete(d.queued, buf)
	}
	clearHeader(buf)
	return nil
}

func (d *nullDevice) Reset() {
	for buf := range d.queued {
		markDone(buf)
		delete(d.queued, buf)
	}
}

func (d *nullDevice) Close() error {
	if !d.open {
		return newError("close", CodeInvalHandle, nil)
	}
	d.Reset()
	d.open = false
	return nil
}
