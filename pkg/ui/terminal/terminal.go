// Package terminal provides terminal event types used throughout the UI.
package terminal

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
	Meta  bool
}

func (KeyEvent) eventMarker() {}

// Name returns the DOM-style key name ("Tab", "ArrowUp", "a", " ").
func (e KeyEvent) Name() string {
	if e.Key == KeyRune {
		if e.Rune == 0 {
			return ""
		}
		return string(e.Rune)
	}
	return e.Key.Name()
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// MouseEvent represents a mouse input event.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseEvent) eventMarker() {}

// PasteEvent represents bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// InterruptEvent wakes a blocked PollEvent without carrying input.
type InterruptEvent struct{}

func (InterruptEvent) eventMarker() {}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Index returns the DOM PointerEvent.button index (0 primary, 1 middle, 2 secondary).
// Buttons without a DOM equivalent return -1.
func (b MouseButton) Index() int {
	switch b {
	case MouseLeft:
		return 0
	case MouseMiddle:
		return 1
	case MouseRight:
		return 2
	default:
		return -1
	}
}

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyCtrlC
)

var keyNames = map[Key]string{
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyCtrlC:     "c",
}

// Name returns the DOM KeyboardEvent.key value for special keys.
// KeyRune and KeyNone have no fixed name and return "".
func (k Key) Name() string {
	return keyNames[k]
}

// KeyFromName is the inverse of Name. Single characters map to KeyRune.
func KeyFromName(name string) (Key, rune) {
	for k, n := range keyNames {
		if n == name && k != KeyCtrlC {
			return k, 0
		}
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return KeyRune, runes[0]
	}
	return KeyNone, 0
}
