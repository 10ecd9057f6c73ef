//go:build !windows

// ABOUTME: System beep fallback
// ABOUTME: No tone primitive outside Windows
package tone

import (
	"fmt"
	"runtime"
)

func systemBeep(frequency, durationMs uint32) error {
	return fmt.Errorf("%w: system beep is only supported on windows (running on %s)",
		ErrPlatformUnsupported, runtime.GOOS)
}
