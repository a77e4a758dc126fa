// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/overui/pkg/ui/backend"
	"github.com/odvcencio/overui/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	mouse  bool

	inPaste     bool
	pasteBuffer strings.Builder
}

// Option configures a Backend.
type Option func(*Backend)

// WithMouse enables mouse reporting. It is on by default.
func WithMouse(on bool) Option {
	return func(b *Backend) { b.mouse = on }
}

// New creates a backend on the controlling terminal.
func New(opts ...Option) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen creates a backend on an existing screen.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Backend {
	b := &Backend{screen: screen, mouse: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	if b.mouse {
		b.screen.EnableMouse()
	}
	b.screen.EnablePaste()
	return nil
}

func (b *Backend) Fini()                     { b.screen.Fini() }
func (b *Backend) Size() (width, height int) { return b.screen.Size() }
func (b *Backend) Show()                     { b.screen.Show() }
func (b *Backend) Clear()                    { b.screen.Clear() }
func (b *Backend) HideCursor()               { b.screen.HideCursor() }
func (b *Backend) Sync()                     { b.screen.Sync() }

func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// PollEvent blocks until an event is available. Bracketed paste is
// collected into a single PasteEvent.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			b.inPaste = false
			text := b.pasteBuffer.String()
			b.pasteBuffer.Reset()
			if text != "" {
				return terminal.PasteEvent{Text: text}
			}
			continue
		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent queues key, mouse, resize and interrupt events.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if tev := reverseConvertEvent(ev); tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Bold(attrs&backend.AttrBold != 0).
		Reverse(attrs&backend.AttrReverse != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0)
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mods := e.Modifiers()
		out := terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   mods&tcell.ModAlt != 0,
			Ctrl:  mods&tcell.ModCtrl != 0,
			Shift: mods&tcell.ModShift != 0,
			Meta:  mods&tcell.ModMeta != 0,
		}
		if e.Key() == tcell.KeyBacktab {
			out.Shift = true
		}
		if out.Key != terminal.KeyRune {
			out.Rune = 0
		}
		return out
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: convertMouseButton(e.Buttons()),
			Action: convertMouseAction(e.Buttons()),
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}
	case *tcell.EventInterrupt:
		return terminal.InterruptEvent{}
	default:
		return nil
	}
}

var keys = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
}

func convertKey(k tcell.Key) terminal.Key {
	if out, ok := keys[k]; ok {
		return out
	}
	return terminal.KeyNone
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button3 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button2 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

func convertMouseAction(buttons tcell.ButtonMask) terminal.MouseAction {
	if buttons == tcell.ButtonNone {
		return terminal.MouseRelease
	}
	return terminal.MousePress
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return tcell.NewEventKey(reverseKey(e), e.Rune, reverseMods(e.Alt, e.Ctrl, e.Shift, e.Meta))
	case terminal.MouseEvent:
		return tcell.NewEventMouse(e.X, e.Y, reverseButton(e), reverseMods(e.Alt, e.Ctrl, e.Shift, false))
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.InterruptEvent:
		return tcell.NewEventInterrupt(nil)
	default:
		return nil
	}
}

func reverseKey(e terminal.KeyEvent) tcell.Key {
	if e.Key == terminal.KeyTab && e.Shift {
		return tcell.KeyBacktab
	}
	for tk, k := range keys {
		if k == e.Key && tk != tcell.KeyBackspace2 && tk != tcell.KeyBacktab {
			return tk
		}
	}
	return tcell.KeyRune
}

func reverseMods(alt, ctrl, shift, meta bool) tcell.ModMask {
	var m tcell.ModMask
	if alt {
		m |= tcell.ModAlt
	}
	if ctrl {
		m |= tcell.ModCtrl
	}
	if shift {
		m |= tcell.ModShift
	}
	if meta {
		m |= tcell.ModMeta
	}
	return m
}

func reverseButton(e terminal.MouseEvent) tcell.ButtonMask {
	if e.Action == terminal.MouseRelease {
		return tcell.ButtonNone
	}
	switch e.Button {
	case terminal.MouseLeft:
		return tcell.Button1
	case terminal.MouseRight:
		return tcell.Button2
	case terminal.MouseMiddle:
		return tcell.Button3
	case terminal.MouseWheelUp:
		return tcell.WheelUp
	case terminal.MouseWheelDown:
		return tcell.WheelDown
	default:
		return tcell.ButtonNone
	}
}

var _ backend.Backend = (*Backend)(nil)
