// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the tone panel
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Settings are the panel's starting tone and device labels
type Settings struct {
	Frequency float64
	Amplitude float64
	Duration  uint32
	Driver    string
	Format    string
}

// NewModel creates a new TUI model. player and beep may be nil, which
// disables the matching keys.
func NewModel(player Player, beep BeepFunc, s Settings) Model {
	m := Model{
		player:    player,
		beep:      beep,
		frequency: s.Frequency,
		amplitude: s.Amplitude,
		duration:  s.Duration,
		driver:    s.Driver,
		format:    s.Format,
	}
	if player != nil {
		m.open = player.IsOpen()
		m.stats = player.Stats()
	}
	return m
}

// Run creates the TUI program. The caller runs it.
func Run(player Player, beep BeepFunc, s Settings) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(player, beep, s), tea.WithAltScreen())
	return p, nil
}
