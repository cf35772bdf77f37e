// Where: internal/domain/buildconfig/mode.go
// What: Build mode selection.
// Why: Make the production/development switch an explicit, validated input.
package buildconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects optimization and debug settings for a build.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// ErrUnknownMode is returned when a mode string is not one of the known modes.
var ErrUnknownMode = errors.New("unknown build mode")

// lifecycleBuild is the lifecycle event that maps to production.
const lifecycleBuild = "build"

// Modes lists every accepted mode in display order.
func Modes() []Mode {
	return []Mode{ModeDevelopment, ModeProduction}
}

// ParseMode converts a user-supplied value into a Mode.
// Only "production" and "development" are accepted.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeProduction:
		return ModeProduction, nil
	case ModeDevelopment:
		return ModeDevelopment, nil
	}
	return "", fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownMode, value, ModeProduction, ModeDevelopment)
}

// ModeFromLifecycle maps a package-manager lifecycle event to a Mode.
// "build" selects production. Any other value, including an empty one,
// selects development and reports fallback=true so callers can warn.
func ModeFromLifecycle(event string) (mode Mode, fallback bool) {
	if event == lifecycleBuild {
		return ModeProduction, false
	}
	return ModeDevelopment, true
}

// IsProduction reports whether m is the production mode.
func (m Mode) IsProduction() bool {
	return m == ModeProduction
}

func (m Mode) String() string {
	return string(m)
}
