// Package theme keeps the light/dark/system preference and resolves the mode
// that should actually be displayed.
package theme

import (
	"fmt"
	"strings"
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "theme"

type Preference string

const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Mode is the resolved, displayed appearance.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParsePreference accepts light, dark or system in any case.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case Light, Dark, System:
		return p, nil
	default:
		return "", fmt.Errorf("invalid theme %q: must be one of light, dark, system", s)
	}
}

// Normalize maps unknown or empty values to System.
func Normalize(s string) Preference {
	p, err := ParsePreference(s)
	if err != nil {
		return System
	}
	return p
}

// Resolve is the only place a preference turns into a mode.
func Resolve(p Preference, systemDark bool) Mode {
	switch p {
	case Dark:
		return ModeDark
	case Light:
		return ModeLight
	default:
		if systemDark {
			return ModeDark
		}
		return ModeLight
	}
}

// Next cycles light -> dark -> system -> light.
func (p Preference) Next() Preference {
	switch p {
	case Light:
		return Dark
	case Dark:
		return System
	default:
		return Light
	}
}

// ClassName is the body class the page stylesheet keys on.
func (m Mode) ClassName() string {
	return string(m) + "-mode"
}
