//go:build portaudio

// ABOUTME: PortAudio output driver
// ABOUTME: Cross-platform blocking-stream output using PortAudio
package output

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

const portAudioFramesPerBuffer = 1024

// PortAudio driver implementation
type PortAudio struct{}

// NewPortAudio creates a new PortAudio driver
func NewPortAudio() Driver {
	return &PortAudio{}
}

func (d *PortAudio) Name() string { return "portaudio" }

type portAudioVoice struct {
	samples []int16
	done    atomic.Bool
	abort   atomic.Bool
}

type portAudioDevice struct {
	format audio.Format
	stream *portaudio.Stream

	// writeMu guards out, which the stream reads on every Write
	writeMu sync.Mutex
	out     []int16
	queued  map[*audio.Buffer]*portAudioVoice
}

// Open initializes PortAudio and starts a blocking output stream
func (d *PortAudio) Open(format audio.Format) (Device, error) {
	if err := format.Validate(); err != nil {
		return nil, newError("open", CodeBadFormat, err)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, newError("open", CodeNoDriver, fmt.Errorf("failed to initialize portaudio: %w", err))
	}

	p := &portAudioDevice{
		format: format,
		out:    make([]int16, portAudioFramesPerBuffer*format.Channels),
		queued: make(map[*audio.Buffer]*portAudioVoice),
	}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), portAudioFramesPerBuffer, p.out)
	if err != nil {
		portaudio.Terminate()
		return nil, newError("open", CodeAllocated, fmt.Errorf("failed to open stream: %w", err))
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, newError("open", CodeNotEnabled, fmt.Errorf("failed to start stream: %w", err))
	}
	p.stream = stream

	slog.Info("audio output initialized", "driver", "portaudio", "format", format.String())
	return p, nil
}

func (p *portAudioDevice) Prepare(buf *audio.Buffer) error {
	if p.stream == nil {
		return newError("prepare", CodeInvalHandle, nil)
	}
	if err := checkPrepare(buf, p.format); err != nil {
		return err
	}
	buf.Header.Cookie = &portAudioVoice{samples: buf.Samples}
	buf.Header.Flags = audio.FlagPrepared
	return nil
}

func (p *portAudioDevice) Write(buf *audio.Buffer) error {
	if p.stream == nil {
		return newError("write", CodeInvalHandle, nil)
	}
	if err := checkWrite(buf); err != nil {
		return err
	}
	v := buf.Header.Cookie.(*portAudioVoice)
	markQueued(buf)
	p.queued[buf] = v

	go p.play(v)
	return nil
}

// play pushes the voice through the blocking stream one period at a time
func (p *portAudioDevice) play(v *portAudioVoice) {
	defer v.done.Store(true)

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	for pos := 0; pos < len(v.samples) && !v.abort.Load(); pos += len(p.out) {
		n := copy(p.out, v.samples[pos:])
		clear(p.out[n:])
		if err := p.stream.Write(); err != nil {
			slog.Warn("portaudio write error", "err", err)
			return
		}
	}
}

func (p *portAudioDevice) Unprepare(buf *audio.Buffer) error {
	if buf == nil || !buf.Header.Flags.Has(audio.FlagPrepared) {
		return nil
	}
	v := buf.Header.Cookie.(*portAudioVoice)

	if buf.Header.Flags.Has(audio.FlagInQueue) {
		if !v.done.Load() {
			return newError("unprepare", CodeStillPlaying, nil)
		}
		markDone(buf)
		delete(p.queued, buf)
	}
	clearHeader(buf)
	return nil
}

func (p *portAudioDevice) Reset() {
	for buf, v := range p.queued {
		v.abort.Store(true)
		markDone(buf)
		delete(p.queued, buf)
	}
}

// Close releases resources
func (p *portAudioDevice) Close() error {
	if p.stream == nil {
		return newError("close", CodeInvalHandle, nil)
	}
	p.Reset()

	// wait for any writer to notice the abort
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.stream.Stop(); err != nil {
		slog.Warn("portaudio stream stop error", "err", err)
	}
	if err := p.stream.Close(); err != nil {
		slog.Warn("portaudio stream close error", "err", err)
	}
	p.stream = nil

	if err := portaudio.Terminate(); err != nil {
		return newError("close", CodeError, fmt.Errorf("failed to terminate portaudio: %w", err))
	}
	return nil
}
