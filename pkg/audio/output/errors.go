// ABOUTME: Device error codes and the coded Error type
// ABOUTME: Numbering follows the classic wave-out result codes
package output

import (
	"errors"
	"fmt"
)

// Code is a numeric device result code
type Code int

const (
	CodeNoError      Code = 0
	CodeError        Code = 1
	CodeBadDeviceID  Code = 2
	CodeNotEnabled   Code = 3
	CodeAllocated    Code = 4
	CodeInvalHandle  Code = 5
	CodeNoDriver     Code = 6
	CodeNoMem        Code = 7
	CodeNotSupported Code = 8
	CodeInvalidParam Code = 11
	CodeBadFormat    Code = 32
	CodeStillPlaying Code = 33
	CodeUnprepared   Code = 34
)

var codeText = map[Code]string{
	CodeNoError:      "The command completed successfully",
	CodeError:        "Unspecified device error",
	CodeBadDeviceID:  "The device identifier is out of range",
	CodeNotEnabled:   "The driver failed to enable",
	CodeAllocated:    "The device is already allocated",
	CodeInvalHandle:  "The device handle is invalid",
	CodeNoDriver:     "No device driver is present",
	CodeNoMem:        "Unable to allocate or lock memory",
	CodeNotSupported: "Function is not supported",
	CodeInvalidParam: "An invalid parameter was passed",
	CodeBadFormat:    "Attempted to open with an unsupported waveform-audio format",
	CodeStillPlaying: "The buffer is still in the queue",
	CodeUnprepared:   "The buffer is not prepared",
}

// ErrorText returns the diagnostic text for a code
func ErrorText(code Code) string {
	if text, ok := codeText[code]; ok {
		return text
	}
	return fmt.Sprintf("Unknown device error %d", int(code))
}

var (
	// ErrDevice matches every *Error
	ErrDevice = errors.New("audio device error")

	// ErrStillPlaying matches an *Error carrying CodeStillPlaying
	ErrStillPlaying = errors.New("buffer still playing")
)

// Error is a failed device call. Text carries the platform diagnostic.
type Error struct {
	Op   string
	Code Code
	Text string
	Err  error
}

func newError(op string, code Code, err error) *Error {
	text := ErrorText(code)
	if err != nil {
		text = err.Error()
	}
	return &Error{Op: op, Code: code, Text: text, Err: err}
}

// NewError builds a coded error for op. err may be nil, in which case the
// standard text for code is used.
func NewError(op string, code Code, err error) *Error {
	return newError(op, code, err)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (error code: %d)", e.Op, e.Text, int(e.Code))
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrDevice:
		return true
	case ErrStillPlaying:
		return e.Code == CodeStillPlaying
	}
	return false
}

// IsStillPlaying reports whether err means the buffer is still queued
func IsStillPlaying(err error) bool {
	return errors.Is(err, ErrStillPlaying)
}
