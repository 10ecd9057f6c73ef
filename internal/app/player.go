// ABOUTME: Main tone application orchestration
// ABOUTME: Wires driver, session, beep and UI for the CLI
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/ui"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tone"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects what Start does
type Mode int

const (
	ModeTone Mode = iota // play one tone and return
	ModeBeep             // issue one system beep and return
	ModeTUI              // run the interactive panel until quit
)

func (m Mode) String() string {
	switch m {
	case ModeTone:
		return "tone"
	case ModeBeep:
		return "beep"
	case ModeTUI:
		return "tui"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config holds player configuration
type Config struct {
	Driver       string
	SampleRate   int
	PollInterval time.Duration
	Frequency    float64
	Amplitude    float64
	Duration     uint32
	Mode         Mode
}

// Player represents the main tone application
type Player struct {
	config  Config
	session *tone.Session
	beep    ui.BeepFunc
	tuiProg *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a player using the driver named in config
func New(config Config) (*Player, error) {
	driver, err := output.New(config.Driver)
	if err != nil {
		return nil, err
	}
	return NewWithDriver(config, driver), nil
}

// NewWithDriver creates a player on an already constructed driver
func NewWithDriver(config Config, driver output.Driver) *Player {
	ctx, cancel := context.WithCancel(context.Background())

	format := audio.DefaultFormat()
	if config.SampleRate > 0 {
		format.SampleRate = config.SampleRate
	}
	opts := []tone.Option{tone.WithFormat(format)}
	if config.PollInterval > 0 {
		opts = append(opts, tone.WithPollInterval(config.PollInterval))
	}

	return &Player{
		config:  config,
		session: tone.NewSession(driver, opts...),
		beep:    tone.Beep,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Session exposes the underlying tone session
func (p *Player) Session() *tone.Session {
	return p.session
}

// Start runs the configured mode. Tone and beep modes return when the sound
// has finished; TUI mode returns when the panel quits.
func (p *Player) Start() error {
	slog.Info("starting",
		"mode", p.config.Mode,
		"driver", p.session.Driver(),
		"format", p.session.Format())

	switch p.config.Mode {
	case ModeBeep:
		return p.playBeep()
	case ModeTUI:
		return p.runTUI()
	default:
		return p.playTone()
	}
}

// playTone plays the configured tone once
func (p *Player) playTone() error {
	start := time.Now()
	err := p.session.PlayToneContext(p.ctx, p.config.Frequency, p.config.Amplitude, p.config.Duration)
	if err != nil {
		return fmt.Errorf("play tone: %w", err)
	}
	slog.Info("tone finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// playBeep issues the configured system beep
func (p *Player) playBeep() error {
	freq, err := tone.BeepFrequency(p.config.Frequency)
	if err != nil {
		return fmt.Errorf("beep: %w", err)
	}
	if err := p.beep(freq, p.config.Duration); err != nil {
		if errors.Is(err, tone.ErrPlatformUnsupported) {
			slog.Warn("system beep not available here", "frequency", freq)
		}
		return fmt.Errorf("beep: %w", err)
	}
	return nil
}

// runTUI runs the interactive panel until the user quits
func (p *Player) runTUI() error {
	tuiProg, err := ui.Run(p.session, p.beep, ui.Settings{
		Frequency: p.config.Frequency,
		Amplitude: p.config.Amplitude,
		Duration:  p.config.Duration,
		Driver:    p.session.Driver(),
		Format:    p.session.Format().String(),
	})
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	p.tuiProg = tuiProg

	if _, err := p.tuiProg.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Stop releases the device and stops the UI
func (p *Player) Stop() {
	p.cancel()

	if p.tuiProg != nil {
		p.tuiProg.Quit()
	}

	p.session.Close()

	stats := p.session.Stats()
	slog.Debug("player stopped", "played", stats.Played, "failed", stats.Failed, "opens", stats.Opens)
}
