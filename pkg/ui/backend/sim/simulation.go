// Package sim provides a simulation backend for tests.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/overui/pkg/ui/backend"
	"github.com/odvcencio/overui/pkg/ui/backend/tcell"
	"github.com/odvcencio/overui/pkg/ui/terminal"
)

// Backend is a tcell backend on a simulation screen. Events can only be
// injected after Init.
type Backend struct {
	*tcell.Backend
	screen        tcellv2.SimulationScreen
	width, height int
	mu            sync.Mutex
}

// New creates a simulation backend of the given size.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Init initializes the screen at the size given to New.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(s.width, s.height)
	return nil
}

// Resize changes the screen size without queuing an event.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
}

// InjectKey queues a key press.
func (s *Backend) InjectKey(key terminal.Key, r rune) error {
	return s.PostEvent(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectKeyName queues the key with the given DOM key name, e.g. "Tab"
// or "a". Unknown names are ignored.
func (s *Backend) InjectKeyName(name string, shift bool) error {
	key, r := terminal.KeyFromName(name)
	if key == terminal.KeyNone {
		return nil
	}
	return s.PostEvent(terminal.KeyEvent{Key: key, Rune: r, Shift: shift})
}

// InjectPaste queues text as a bracketed paste. Each rune takes a slot in
// the screen's small event queue, so keep text short.
func (s *Backend) InjectPaste(text string) error {
	if err := s.screen.PostEvent(tcellv2.NewEventPaste(true)); err != nil {
		return err
	}
	for _, r := range text {
		ev := tcellv2.NewEventKey(tcellv2.KeyRune, r, tcellv2.ModNone)
		switch r {
		case '\n':
			ev = tcellv2.NewEventKey(tcellv2.KeyEnter, 0, tcellv2.ModNone)
		case '\t':
			ev = tcellv2.NewEventKey(tcellv2.KeyTab, 0, tcellv2.ModNone)
		}
		if err := s.screen.PostEvent(ev); err != nil {
			return err
		}
	}
	return s.screen.PostEvent(tcellv2.NewEventPaste(false))
}

// InjectClick queues a press of button at (x, y).
func (s *Backend) InjectClick(x, y int, button terminal.MouseButton) error {
	return s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: button, Action: terminal.MousePress})
}

// InjectResize resizes the screen and queues the resize event.
func (s *Backend) InjectResize(width, height int) error {
	s.mu.Lock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	return s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the shown screen content, one line per row.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			mainc, comb, _, _ := s.screen.GetContent(x, y)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// FindText returns the position of text on screen, or (-1, -1).
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText reports whether text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

var _ backend.Backend = (*Backend)(nil)
