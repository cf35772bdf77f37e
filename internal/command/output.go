// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface construction and emoji selection.
package command

import (
	"io"

	"github.com/poruru-code/elmpack/internal/infra/ui"
)

func consoleUI(out io.Writer) ui.UserInterface {
	return ui.NewConsoleUI(out)
}

// commandUI honours explicit --emoji/--no-emoji flags, otherwise auto-detects.
func commandUI(out io.Writer, emoji, noEmoji bool) ui.UserInterface {
	switch {
	case noEmoji:
		return ui.NewConsoleUIWithEmoji(out, false)
	case emoji:
		return ui.NewConsoleUIWithEmoji(out, true)
	default:
		return ui.NewConsoleUI(out)
	}
}
