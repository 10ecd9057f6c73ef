// ABOUTME: Oto-based audio output driver
// ABOUTME: Plays each prepared buffer through its own oto player on a shared context
package output

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/encode"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/resample"
	"github.com/ebitengine/oto/v3"
)

// oto only allows one context per process, so every Oto device shares it.
var (
	otoMu     sync.Mutex
	otoCtx    *oto.Context
	otoFormat audio.Format
	otoOpen   int
)

// Oto driver implementation using oto library
type Oto struct{}

// NewOto creates a new Oto driver
func NewOto() Driver {
	return &Oto{}
}

func (d *Oto) Name() string { return "oto" }

// Open initializes the shared context on first use and resumes it afterwards
func (d *Oto) Open(format audio.Format) (Device, error) {
	if err := format.Validate(); err != nil {
		return nil, newError("open", CodeBadFormat, err)
	}

	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, newError("open", CodeNoDriver, fmt.Errorf("failed to create oto context: %w", err))
		}
		<-readyChan

		otoCtx = ctx
		otoFormat = format
		slog.Info("audio output initialized", "driver", "oto", "format", format.String())
	} else if otoFormat.Channels != format.Channels || otoFormat.BitDepth != format.BitDepth {
		// oto cannot be reinitialized with a different format
		return nil, newError("open", CodeBadFormat,
			fmt.Errorf("oto context already running at %s, cannot open %s", otoFormat, format))
	} else if otoOpen == 0 {
		if err := otoCtx.Resume(); err != nil {
			return nil, newError("open", CodeNotEnabled, fmt.Errorf("failed to resume oto context: %w", err))
		}
	}

	otoOpen++
	dev := &otoDevice{format: format, queued: make(map[*audio.Buffer]*oto.Player)}
	if otoFormat.SampleRate != format.SampleRate {
		// the running context keeps its rate; buffers are converted on prepare
		dev.resampler = resample.New(format.SampleRate, otoFormat.SampleRate)
		slog.Debug("oto context rate differs, resampling",
			"from", format.SampleRate, "to", otoFormat.SampleRate)
	}
	return dev, nil
}

type otoDevice struct {
	format    audio.Format
	resampler *resample.Resampler // nil when the context runs at format's rate
	queued    map[*audio.Buffer]*oto.Player
	closed    bool
}

func (d *otoDevice) Prepare(buf *audio.Buffer) error {
	if d.closed {
		return newError("prepare", CodeInvalHandle, nil)
	}
	if err := checkPrepare(buf, d.format); err != nil {
		return err
	}

	data := buf.Data
	if d.resampler != nil {
		data = encode.PCM16(d.resampler.Resample(buf.Samples))
	}

	otoMu.Lock()
	player := otoCtx.NewPlayer(bytes.NewReader(data))
	otoMu.Unlock()

	buf.Header.Cookie = player
	buf.Header.Flags = audio.FlagPrepared
	return nil
}

func (d *otoDevice) Write(buf *audio.Buffer) error {
	if d.closed {
		return newError("write", CodeInvalHandle, nil)
	}
	if err := checkWrite(buf); err != nil {
		return err
	}

	player := buf.Header.Cookie.(*oto.Player)
	markQueued(buf)
	d.queued[buf] = player
	player.Play()
	return nil
}

func (d *otoDevice) Unprepare(buf *audio.Buffer) error {
	if buf == nil || !buf.Header.Flags.Has(audio.FlagPrepared) {
		return nil
	}
	player := buf.Header.Cookie.(*oto.Player)

	if buf.Header.Flags.Has(audio.FlagInQueue) {
		if player.IsPlaying() {
			return newError("unprepare", CodeStillPlaying, nil)
		}
		markDone(buf)
		delete(d.queued, buf)
	}

	if err := player.Err(); err != nil {
		slog.Warn("oto player reported an error", "err", err)
	}
	clearHeader(buf)
	if err := player.Close(); err != nil {
		return newError("unprepare", CodeError, fmt.Errorf("failed to close oto player: %w", err))
	}
	return nil
}

func (d *otoDevice) Reset() {
	for buf, player := range d.queued {
		player.Pause()
		markDone(buf)
		delete(d.queued, buf)
	}
}

func (d *otoDevice) Close() error {
	if d.closed {
		return newError("close", CodeInvalHandle, nil)
	}
	d.Reset()
	d.closed = true

	otoMu.Lock()
	defer otoMu.Unlock()

	otoOpen--
	if otoOpen > 0 {
		return nil
	}
	if err := otoCtx.Suspend(); err != nil {
		return newError("close", CodeError, fmt.Errorf("failed to suspend oto context: %w", err))
	}
	return nil
}
