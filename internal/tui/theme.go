package tui

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
	ThemeNone
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	case ThemeNone:
		return "none"
	default:
		return "auto"
	}
}

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	case ThemeNone.String():
		return ThemeNone
	default:
		return ThemeAuto
	}
}

// palette holds ANSI SGR sequences. The zero palette renders plain text.
type palette struct {
	Graph  string
	ID     string
	Branch string
	Tag    string
	Head   string
	Author string
	Dim    string
	Title  string
}

const ansiReset = "\x1b[0m"

var (
	lightPalette = palette{
		Graph:  "\x1b[1;33m",
		ID:     "\x1b[34m",
		Branch: "\x1b[1;32m",
		Tag:    "\x1b[1;35m",
		Head:   "\x1b[1;34m",
		Author: "\x1b[33m",
		Dim:    "\x1b[90m",
		Title:  "\x1b[1m",
	}
	darkPalette = palette{
		Graph:  "\x1b[1;93m",
		ID:     "\x1b[36m",
		Branch: "\x1b[1;92m",
		Tag:    "\x1b[1;95m",
		Head:   "\x1b[1;96m",
		Author: "\x1b[93m",
		Dim:    "\x1b[2m",
		Title:  "\x1b[1m",
	}
	detectDarkMode = darkmode.IsDarkMode
)

// paletteForPreference returns the plain palette when color is false.
func paletteForPreference(pref ThemePreference, color bool) palette {
	if !color {
		return palette{}
	}
	switch pref {
	case ThemeNone:
		return palette{}
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			if dark, err := detectDarkMode(); err == nil {
				if dark {
					return darkPalette
				}
			} else {
				slog.Debug("detect dark-mode", slog.Any("error", err))
			}
		}
		return lightPalette
	}
}

func (p palette) paint(style, s string) string {
	if style == "" || s == "" {
		return s
	}
	return style + s + ansiReset
}
