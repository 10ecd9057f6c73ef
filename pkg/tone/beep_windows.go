//go:build windows

// ABOUTME: Windows system beep
// ABOUTME: Calls kernel32 Beep, which blocks for the duration of the tone
package tone

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"golang.org/x/sys/windows"
)

var procBeep = windows.NewLazySystemDLL("kernel32.dll").NewProc("Beep")

func systemBeep(frequency, durationMs uint32) error {
	if err := procBeep.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlatformUnsupported, err)
	}

	r1, _, err := procBeep.Call(uintptr(frequency), uintptr(durationMs))
	if r1 != 0 {
		return nil
	}

	code := output.CodeError
	var errno windows.Errno
	if errors.As(err, &errno) && errno != 0 {
		code = output.Code(errno)
	}
	return fmt.Errorf("system beep failed: %w", output.NewError("beep", code, err))
}
