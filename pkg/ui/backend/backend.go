// Package backend defines the terminal a runtime.App draws to and reads
// input from. The tcell package drives a real terminal; sim wraps tcell's
// simulation screen for tests.
package backend

import "github.com/odvcencio/overui/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal.
	Fini()

	Size() (width, height int)

	// SetContent sets the cell at (x, y). comb holds combining characters
	// and may be nil.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes pending cells to the terminal.
	Show()

	Clear()
	HideCursor()

	// PollEvent blocks until an event is available. It returns nil once the
	// backend has been finalized.
	PollEvent() terminal.Event

	// PostEvent queues an event for PollEvent. It does not block.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on the next Show.
	Sync()
}
