// ABOUTME: Bubbletea model for the tone panel TUI
// ABOUTME: Defines panel state, key handling and playback commands
package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/tone"
	tea "github.com/charmbracelet/bubbletea"
)

// Step sizes for the panel controls
const (
	frequencyStep = 10.0
	amplitudeStep = 0.05
	durationStep  = 100
)

// Player is the part of a tone session the panel drives
type Player interface {
	PlayTone(frequency, amplitude float64, durationMs uint32) error
	Close() error
	IsOpen() bool
	Stats() tone.Stats
}

// BeepFunc issues a system beep
type BeepFunc func(frequency, durationMs uint32) error

// Model represents the TUI state
type Model struct {
	player Player
	beep   BeepFunc

	// Tone
	frequency float64
	amplitude float64
	duration  uint32

	// Device
	driver string
	format string
	open   bool

	// Playback
	playing  bool
	lastErr  error
	lastTook time.Duration
	stats    tone.Stats

	// Dimensions
	width  int
	height int
}

// PlayedMsg reports the outcome of a play or beep command
type PlayedMsg struct {
	Beep    bool
	Err     error
	Elapsed time.Duration
}

// StatusMsg updates TUI state from outside the panel
type StatusMsg struct {
	Driver string
	Format string
	Open   *bool
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case PlayedMsg:
		m.applyPlayed(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTone()
	s += m.renderStatus()
	s += m.renderHelp()

	return s
}

// renderHeader renders device status
func (m Model) renderHeader() string {
	device := "Closed"
	if m.open {
		device = "Open"
	}

	return fmt.Sprintf(`┌─ Resonate Tone ──────────────────────────────────────┐
│ Driver: %-45s │
│ Device: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(m.driver+" "+m.format, 45), device)
}

// renderTone renders the current tone parameters
func (m Model) renderTone() string {
	ampBar := renderBar(int(m.amplitude*100+0.5), 100, 20)
	durBar := renderBar(int(m.duration), tone.MaxDuration, 20)

	return fmt.Sprintf("│ Frequency: %-8.0f Hz%-31s │\n"+
		"│ Amplitude: [%s] %4.2f%-15s │\n"+
		"│ Duration:  [%s] %5d ms%-12s │\n",
		m.frequency, "",
		ampBar, m.amplitude, "",
		durBar, m.duration, "")
}

// renderStatus renders the outcome of the last playback
func (m Model) renderStatus() string {
	state := "Idle"
	switch {
	case m.playing:
		state = "Playing..."
	case m.lastErr != nil:
		state = "Error: " + m.lastErr.Error()
	case m.lastTook > 0:
		state = fmt.Sprintf("Done in %s", m.lastTook.Round(time.Millisecond))
	}

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
│ Stats:  Played: %d  Failed: %d  Opens: %d%-10s │
│                                                      │
`, truncate(state, 52), m.stats.Played, m.stats.Failed, m.stats.Opens, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ ↑/↓:Freq  ←/→:Amp  [/]:Dur  space:Play  b:Beep      │
│ c:Close device  q:Quit                               │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		m.frequency = clamp(m.frequency+frequencyStep, tone.MinFrequency, tone.MaxFrequency)
	case "down":
		m.frequency = clamp(m.frequency-frequencyStep, tone.MinFrequency, tone.MaxFrequency)
	case "right":
		m.amplitude = clamp(m.amplitude+amplitudeStep, tone.MinAmplitude, tone.MaxAmplitude)
	case "left":
		m.amplitude = clamp(m.amplitude-amplitudeStep, tone.MinAmplitude, tone.MaxAmplitude)
	case "]":
		if m.duration+durationStep <= tone.MaxDuration {
			m.duration += durationStep
		} else {
			m.duration = tone.MaxDuration
		}
	case "[":
		if m.duration >= durationStep {
			m.duration -= durationStep
		} else {
			m.duration = 0
		}
	case " ", "enter":
		if m.playing || m.player == nil {
			return m, nil
		}
		m.playing = true
		m.lastErr = nil
		return m, m.playCmd()
	case "b":
		if m.playing || m.beep == nil {
			return m, nil
		}
		m.playing = true
		m.lastErr = nil
		return m, m.beepCmd()
	case "c":
		if m.playing || m.player == nil {
			return m, nil
		}
		m.lastErr = m.player.Close()
		m.lastTook = 0
		m.open = m.player.IsOpen()
	}

	return m, nil
}

// playCmd plays the current tone off the UI goroutine
func (m Model) playCmd() tea.Cmd {
	p := m.player
	freq, amp, dur := m.frequency, m.amplitude, m.duration
	return func() tea.Msg {
		start := time.Now()
		err := p.PlayTone(freq, amp, dur)
		return PlayedMsg{Err: err, Elapsed: time.Since(start)}
	}
}

func (m Model) beepCmd() tea.Cmd {
	beep := m.beep
	freq, dur := m.frequency, m.duration
	return func() tea.Msg {
		start := time.Now()
		hz, err := tone.BeepFrequency(math.Round(freq))
		if err == nil {
			err = beep(hz, dur)
		}
		return PlayedMsg{Beep: true, Err: err, Elapsed: time.Since(start)}
	}
}

// applyPlayed records a finished play or beep
func (m *Model) applyPlayed(msg PlayedMsg) {
	m.playing = false
	m.lastErr = msg.Err
	m.lastTook = msg.Elapsed
	if m.player != nil {
		m.stats = m.player.Stats()
		m.open = m.player.IsOpen()
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Driver != "" {
		m.driver = msg.Driver
	}
	if msg.Format != "" {
		m.format = msg.Format
	}
	if msg.Open != nil {
		m.open = *msg.Open
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

// truncate shortens s to length runes
func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
