// ABOUTME: Malgo-based audio output driver
// ABOUTME: Uses miniaudio via malgo, feeding queued buffers from the device callback
package output

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo driver implementation using malgo/miniaudio library
type Malgo struct{}

// NewMalgo creates a new Malgo driver
func NewMalgo() Driver {
	return &Malgo{}
}

func (d *Malgo) Name() string { return "malgo" }

// malgoVoice is the playback cursor of one submitted buffer
type malgoVoice struct {
	data []byte
	pos  int
	done bool
}

type malgoDevice struct {
	format   audio.Format
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	// queue is drained by the callback thread
	mu    sync.Mutex
	queue []*malgoVoice
}

// Open initializes a miniaudio context and starts a playback device
func (d *Malgo) Open(format audio.Format) (Device, error) {
	if err := format.Validate(); err != nil {
		return nil, newError("open", CodeBadFormat, err)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, newError("open", CodeNoDriver, fmt.Errorf("failed to initialize malgo context: %w", err))
	}

	m := &malgoDevice{format: format, malgoCtx: ctx}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		m.dataCallback(pOutputSample, frameCount)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		m.freeContext()
		return nil, newError("open", CodeAllocated, fmt.Errorf("failed to initialize playback device: %w", err))
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		m.freeContext()
		return nil, newError("open", CodeNotEnabled, fmt.Errorf("failed to start device: %w", err))
	}
	m.device = device

	slog.Info("audio output initialized", "driver", "malgo", "format", format.String())
	return m, nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *malgoDevice) dataCallback(pOutput []byte, frameCount uint32) {
	want := int(frameCount) * m.format.BlockAlign()
	if want > len(pOutput) {
		want = len(pOutput)
	}

	m.mu.Lock()
	written := 0
	for written < want && len(m.queue) > 0 {
		v := m.queue[0]
		n := copy(pOutput[written:want], v.data[v.pos:])
		v.pos += n
		written += n
		if v.pos >= len(v.data) {
			v.done = true
			m.queue = m.queue[1:]
		}
	}
	m.mu.Unlock()

	// Zero-fill remaining on underrun
	for i := written; i < len(pOutput); i++ {
		pOutput[i] = 0
	}
}

func (m *malgoDevice) Prepare(buf *audio.Buffer) error {
	if m.device == nil {
		return newError("prepare", CodeInvalHandle, nil)
	}
	if err := checkPrepare(buf, m.format); err != nil {
		return err
	}
	buf.Header.Cookie = &malgoVoice{data: buf.Data}
	buf.Header.Flags = audio.FlagPrepared
	return nil
}

func (m *malgoDevice) Write(buf *audio.Buffer) error {
	if m.device == nil {
		return newError("write", CodeInvalHandle, nil)
	}
	if err := checkWrite(buf); err != nil {
		return err
	}
	v := buf.Header.Cookie.(*malgoVoice)
	markQueued(buf)

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(v.data) == 0 {
		v.done = true
		return nil
	}
	m.queue = append(m.queue, v)
	return nil
}

func (m *malgoDevice) Unprepare(buf *audio.Buffer) error {
	if buf == nil || !buf.Header.Flags.Has(audio.FlagPrepared) {
		return nil
	}
	v := buf.Header.Cookie.(*malgoVoice)

	if buf.Header.Flags.Has(audio.FlagInQueue) {
		m.mu.Lock()
		done := v.done
		m.mu.Unlock()
		if !done {
			return newError("unprepare", CodeStillPlaying, nil)
		}
		markDone(buf)
	}
	clearHeader(buf)
	return nil
}

func (m *malgoDevice) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.queue {
		v.done = true
	}
	m.queue = nil
}

// Close stops and uninitializes the device and its context
func (m *malgoDevice) Close() error {
	if m.device == nil {
		return newError("close", CodeInvalHandle, nil)
	}
	m.Reset()

	if err := m.device.Stop(); err != nil {
		slog.Warn("malgo device stop error", "err", err)
	}
	m.device.Uninit()
	m.device = nil

	return m.freeContext()
}

func (m *malgoDevice) freeContext() error {
	if m.malgoCtx == nil {
		return nil
	}
	defer func() {
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}()
	if err := m.malgoCtx.Uninit(); err != nil {
		return newError("close", CodeError, fmt.Errorf("malgo context uninit error: %w", err))
	}
	return nil
}
