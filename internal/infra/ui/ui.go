// Where: internal/infra/ui/ui.go
// What: UserInterface port used by workflows.
// Why: Give use cases an output surface that does not depend on the terminal.
package ui

import "io"

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by workflows.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewConsoleUI returns a UserInterface printing to out.
func NewConsoleUI(out io.Writer) UserInterface {
	return consoleUI{console: New(out)}
}

// NewConsoleUIWithEmoji returns a UserInterface with explicit emoji settings.
func NewConsoleUIWithEmoji(out io.Writer, emojiEnabled bool) UserInterface {
	return consoleUI{console: NewWithEmoji(out, emojiEnabled)}
}

type consoleUI struct {
	console *Console
}

func (c consoleUI) Info(msg string)    { c.console.Info(msg) }
func (c consoleUI) Warn(msg string)    { c.console.Warn(msg) }
func (c consoleUI) Success(msg string) { c.console.Success(msg) }

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.BlockStart(emoji, title)
	for _, kv := range rows {
		c.console.Item(kv.Key, kv.Value)
	}
	c.console.BlockEnd()
}
