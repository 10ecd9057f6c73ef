// ABOUTME: PulseAudio output driver
// ABOUTME: Native protocol client; one playback stream per submitted buffer
package output

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/jfreymuth/pulse"
)

// PulseApplicationName is reported to the PulseAudio server
var PulseApplicationName = "resonate-tone"

// Pulse driver implementation using the native PulseAudio protocol
type Pulse struct {
	// Latency is the requested stream latency in seconds
	Latency float64
}

// NewPulse creates a new Pulse driver
func NewPulse() Driver {
	return &Pulse{Latency: 0.1}
}

func (d *Pulse) Name() string { return "pulse" }

type pulseVoice struct {
	samples []int16
	pos     int
	stream  *pulse.PlaybackStream
	done    atomic.Bool
}

// read feeds the stream and ends it once every sample has been handed over
func (v *pulseVoice) read(buf []int16) (int, error) {
	if v.pos >= len(v.samples) {
		return 0, pulse.EndOfData
	}
	n := copy(buf, v.samples[v.pos:])
	v.pos += n
	return n, nil
}

type pulseDevice struct {
	format  audio.Format
	latency float64
	client  *pulse.Client
	queued  map[*audio.Buffer]*pulseVoice
}

// Open connects to the PulseAudio server
func (d *Pulse) Open(format audio.Format) (Device, error) {
	if err := format.Validate(); err != nil {
		return nil, newError("open", CodeBadFormat, err)
	}

	c, err := pulse.NewClient(pulse.ClientApplicationName(PulseApplicationName))
	if err != nil {
		return nil, newError("open", CodeNoDriver, fmt.Errorf("failed to connect to pulseaudio: %w", err))
	}

	slog.Info("audio output initialized", "driver", "pulse", "format", format.String())
	return &pulseDevice{
		format:  format,
		latency: d.Latency,
		client:  c,
		queued:  make(map[*audio.Buffer]*pulseVoice),
	}, nil
}

func (p *pulseDevice) Prepare(buf *audio.Buffer) error {
	if p.client == nil {
		return newError("prepare", CodeInvalHandle, nil)
	}
	if err := checkPrepare(buf, p.format); err != nil {
		return err
	}
	buf.Header.Cookie = &pulseVoice{samples: buf.Samples}
	buf.Header.Flags = audio.FlagPrepared
	return nil
}

func (p *pulseDevice) Write(buf *audio.Buffer) error {
	if p.client == nil {
		return newError("write", CodeInvalHandle, nil)
	}
	if err := checkWrite(buf); err != nil {
		return err
	}
	v := buf.Header.Cookie.(*pulseVoice)

	if len(v.samples) == 0 {
		markQueued(buf)
		v.done.Store(true)
		return nil
	}

	stream, err := p.client.NewPlayback(pulse.Int16Reader(v.read),
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(p.format.SampleRate),
		pulse.PlaybackLatency(p.latency),
	)
	if err != nil {
		return newError("write", CodeError, fmt.Errorf("failed to create playback stream: %w", err))
	}
	v.stream = stream
	markQueued(buf)
	p.queued[buf] = v

	stream.Start()
	go func() {
		stream.Drain()
		v.done.Store(true)
	}()
	return nil
}

func (p *pulseDevice) Unprepare(buf *audio.Buffer) error {
	if buf == nil || !buf.Header.Flags.Has(audio.FlagPrepared) {
		return nil
	}
	v := buf.Header.Cookie.(*pulseVoice)

	if buf.Header.Flags.Has(audio.FlagInQueue) {
		if !v.done.Load() {
			return newError("unprepare", CodeStillPlaying, nil)
		}
		markDone(buf)
		delete(p.queued, buf)
	}
	if v.stream != nil {
		v.stream.Close()
	}
	clearHeader(buf)
	return nil
}

func (p *pulseDevice) Reset() {
	for buf, v := range p.queued {
		if v.stream != nil {
			v.stream.Stop()
		}
		v.done.Store(true)
		markDone(buf)
		delete(p.queued, buf)
	}
}

func (p *pulseDevice) Close() error {
	if p.client == nil {
		return newError("close", CodeInvalHandle, nil)
	}
	p.Reset()
	p.client.Close()
	p.client = nil
	return nil
}
