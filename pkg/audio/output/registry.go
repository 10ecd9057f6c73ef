// ABOUTME: Driver registry
// ABOUTME: Maps backend names used in configuration to driver constructors
package output

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultDriver is used when no driver is configured
const DefaultDriver = "oto"

var drivers = map[string]func() Driver{
	"oto":       NewOto,
	"malgo":     NewMalgo,
	"pulse":     NewPulse,
	"portaudio": NewPortAudio,
	"null":      NewNull,
}

// New returns the driver registered under name
func New(name string) (Driver, error) {
	if name == "" {
		name = DefaultDriver
	}
	ctor, ok := drivers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown audio driver %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered drivers in sorted order
func Names() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
