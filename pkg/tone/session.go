// ABOUTME: Device session owning one audio output handle
// ABOUTME: Lazy open, serialized playback, guaranteed close and handle transfer
package tone

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

// DefaultPollInterval is how often a transaction checks for completion
const DefaultPollInterval = 10 * time.Millisecond

// sessionSeq orders session locks during MoveFrom
var sessionSeq atomic.Uint64

// Stats counts what a session has done since it was created
type Stats struct {
	Played uint64 // transactions that completed
	Failed uint64 // transactions that started and failed
	Opens  uint64 // successful device opens
}

// Option configures a Session
type Option func(*deviceState)

// WithFormat sets the output format (default: 44100Hz mono 16-bit)
func WithFormat(format audio.Format) Option {
	return func(st *deviceState) {
		st.format = format
	}
}

// WithPollInterval sets the completion poll interval (default: 10ms)
func WithPollInterval(d time.Duration) Option {
	return func(st *deviceState) {
		if d > 0 {
			st.pollInterval = d
		}
	}
}

// WithLogger sets the session logger (default: slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(st *deviceState) {
		if logger != nil {
			st.logger = logger
		}
	}
}

// Session owns one output device handle and plays tones through it.
//
// The device is opened on the first PlayTone and stays open until Close.
// PlayTone may be called from many goroutines; calls are serialized and
// each blocks until its tone has finished playing. A closed Session can be
// used again, it reopens the device on the next PlayTone.
//
// Create sessions with NewSession.
type Session struct {
	id    uint64
	state *deviceState
}

// deviceState is everything the handle protocol touches. It lives apart from
// Session so the runtime cleanup can close it after the Session is gone.
type deviceState struct {
	mu sync.Mutex

	driver       output.Driver
	format       audio.Format
	pollInterval time.Duration
	logger       *slog.Logger

	// device != nil iff initialized
	device      output.Device
	initialized bool

	stats Stats
}

// NewSession creates a closed session that will open devices from driver
func NewSession(driver output.Driver, opts ...Option) *Session {
	st := &deviceState{
		driver:       driver,
		format:       audio.DefaultFormat(),
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(st)
	}

	s := &Session{
		id:    sessionSeq.Add(1),
		state: st,
	}
	runtime.AddCleanup(s, func(st *deviceState) {
		st.mu.Lock()
		defer st.mu.Unlock()
		st.closeLocked()
	}, st)
	return s
}

// PlayTone synthesizes a sine tone and plays it to completion.
// durationMs is in milliseconds; 0 plays nothing but still runs a transaction.
func (s *Session) PlayTone(frequency, amplitude float64, durationMs uint32) error {
	return s.PlayToneContext(context.Background(), frequency, amplitude, durationMs)
}

// PlayToneContext is PlayTone with a context that is checked until the tone
// is submitted. Once the device has the buffer, playback runs to completion.
func (s *Session) PlayToneContext(ctx context.Context, frequency, amplitude float64, durationMs uint32) error {
	p := Params{Frequency: frequency, Amplitude: amplitude, Duration: durationMs}
	if err := p.Validate(); err != nil {
		return err
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := st.ensureOpen(); err != nil {
		return err
	}

	buf, err := SynthesizeBuffer(p, st.format)
	if err != nil {
		return fmt.Errorf("failed to synthesize tone: %w", err)
	}

	txn := newTransaction(st.device, buf, st.pollInterval, st.logger)
	txn.logger.Debug("playing tone",
		"freq", p.Frequency,
		"amp", p.Amplitude,
		"duration_ms", p.Duration,
		"samples", len(buf.Samples),
	)

	if err := txn.run(ctx); err != nil {
		if txn.state != StateIdle {
			st.stats.Failed++
		}
		txn.logger.Error("playback failed", "state", txn.state.String(), "err", err)
		return err
	}

	st.stats.Played++
	return nil
}

// ensureOpen opens the device if needed (must hold st.mu)
func (st *deviceState) ensureOpen() error {
	if st.initialized {
		return nil
	}

	if err := st.format.Validate(); err != nil {
		return fmt.Errorf("failed to initialize audio device: %w",
			output.NewError("open", output.CodeBadFormat, err))
	}

	device, err := st.driver.Open(st.format)
	if err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", deviceError("open", err))
	}

	st.device = device
	st.initialized = true
	st.stats.Opens++

	st.logger.Info("audio device opened", "driver", st.driver.Name(), "format", st.format.String())
	return nil
}

// Close releases the device. It is safe to call more than once and never
// fails: a device that refuses to close is logged and forgotten.
func (s *Session) Close() error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	st.closeLocked()
	return nil
}

// closeLocked stops output and releases the handle (must hold st.mu)
func (st *deviceState) closeLocked() {
	if st.device != nil {
		st.device.Reset()
		if err := st.device.Close(); err != nil {
			st.logger.Warn("failed to close audio device", "driver", st.driver.Name(), "err", err)
		} else {
			st.logger.Info("audio device closed", "driver", st.driver.Name())
		}
		st.device = nil
	}
	st.initialized = false
}

// MoveFrom transfers src's device handle to s, leaving src empty. Any
// device s held is closed first. Both sessions are locked for the transfer.
func (s *Session) MoveFrom(src *Session) {
	if src == nil || src == s || src.state == s.state {
		return
	}

	first, second := s, src
	if src.id < s.id {
		first, second = src, s
	}
	first.state.mu.Lock()
	defer first.state.mu.Unlock()
	second.state.mu.Lock()
	defer second.state.mu.Unlock()

	dst, from := s.state, src.state
	dst.closeLocked()

	dst.driver = from.driver
	dst.format = from.format
	dst.device = from.device
	dst.initialized = from.initialized

	from.device = nil
	from.initialized = false
}

// IsOpen reports whether the session currently holds a device
func (s *Session) IsOpen() bool {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.initialized
}

// Format returns the format devices are opened with
func (s *Session) Format() audio.Format {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.format
}

// Driver returns the name of the session's driver
func (s *Session) Driver() string {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.driver.Name()
}

// Stats returns a snapshot of the session counters
func (s *Session) Stats() Stats {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stats
}
