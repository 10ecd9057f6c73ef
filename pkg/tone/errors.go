// ABOUTME: Error taxonomy for tone playback
// ABOUTME: Invalid parameters, device failures and unsupported platforms
package tone

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

var (
	// ErrInvalidParameter matches every *InvalidParameterError
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDevice matches every *DeviceError
	ErrDevice = output.ErrDevice

	// ErrPlatformUnsupported is returned by Beep where no tone primitive exists
	ErrPlatformUnsupported = errors.New("platform unsupported")
)

// DeviceError is a failed platform call. It carries the platform's
// diagnostic text and numeric code.
type DeviceError = output.Error

// InvalidParameterError reports a physical parameter outside its configured bounds
type InvalidParameterError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
	Unit  string

	// Reason replaces the range wording when the value is in range but unusable
	Reason string
}

func (e *InvalidParameterError) Error() string {
	unit := ""
	if e.Unit != "" {
		unit = " " + e.Unit
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s %s (current: %s%s)", e.Param, e.Reason, formatValue(e.Value), unit)
	}
	if e.Param == "duration" {
		return fmt.Sprintf("%s cannot exceed %s%s (current: %s%s)",
			e.Param, formatValue(e.Max), unit, formatValue(e.Value), unit)
	}
	return fmt.Sprintf("%s must be between %s and %s%s (current: %s%s)",
		e.Param, formatValue(e.Min), formatValue(e.Max), unit, formatValue(e.Value), unit)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// deviceError coerces a driver error into a *DeviceError
func deviceError(op string, err error) *DeviceError {
	var derr *DeviceError
	if errors.As(err, &derr) {
		return derr
	}
	return output.NewError(op, output.CodeError, err)
}
