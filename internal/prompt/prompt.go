// Package prompt builds the interactive shell's prompt string: the fixed
// text from config.Config.Prompt (spec §4.5 step 2), optionally styled by
// a painter.Painter.
package prompt

import "poshell/internal/painter"

// Build returns the prompt text to display, with the painter's color/bold
// styling applied.
func Build(text string, p painter.Painter) string {
	if p.PathColour == "" && !p.PathBold {
		return text
	}
	return p.Paint(text)
}
