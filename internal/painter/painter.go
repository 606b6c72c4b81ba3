// Package painter renders colored and styled text for the shell prompt.
// It supports a handful of pre-defined themes on top of per-field color
// configuration.
package painter

import (
	"strings"

	"poshell/internal/config"
)

const (
	reset    = "\033[0m"
	makeBold = "\033[1m"
)

// Painter holds styling information for the shell prompt.
type Painter struct {
	PathColour string // ANSI escape code for the path
	PathBold   bool   // Whether the path should be bold
}

// New creates a Painter from cfg. A non-empty, non-"none" Theme overrides
// the individual color fields.
func New(cfg *config.Config) Painter {
	theme := strings.TrimSpace(cfg.Theme)
	pathColour, pathBold := cfg.PathColour, cfg.PathColourBold

	if theme != "" && !strings.EqualFold(theme, "none") {
		pathColour, pathBold = resolveTheme(theme)
	}

	return Painter{
		PathColour: resolveColor(pathColour),
		PathBold:   pathBold,
	}
}

// resolveTheme returns the path color and boldness for a named theme.
func resolveTheme(theme string) (colour string, bold bool) {
	switch strings.ToLower(theme) {
	case "poshell":
		return "yellow", false
	case "monokai":
		return "\033[38;2;249;38;114m", true
	case "ohmybash":
		return "green", false
	default:
		return "", false
	}
}

// resolveColor converts a color name into an ANSI escape code. A string
// that is already an escape sequence (or otherwise unrecognized) is
// returned unchanged.
func resolveColor(colour string) string {
	colour = strings.TrimSpace(colour)
	if colour == "" {
		return ""
	}

	switch strings.ToLower(colour) {
	case "default":
		return "\033[39m"
	case "black":
		return "\033[30m"
	case "red":
		return "\033[31m"
	case "green":
		return "\033[32m"
	case "yellow":
		return "\033[33m"
	case "blue":
		return "\033[94m"
	case "magenta":
		return "\033[35m"
	case "cyan":
		return "\033[36m"
	case "white":
		return "\033[37m"
	default:
		return colour
	}
}

// Paint applies the painter's bold/color settings to text.
func (p Painter) Paint(text string) string {
	style := ""
	if p.PathBold {
		style = makeBold
	}
	return style + p.PathColour + text + reset
}
