//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio driver implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio driver
func NewPortAudio() Driver {
	return &PortAudio{}
}

func (d *PortAudio) Name() string { return "portaudio" }

// Open always fails without the portaudio build tag
func (d *PortAudio) Open(format audio.Format) (Device, error) {
	return nil, newError("open", CodeNoDriver, errPortAudioDisabled)
}
