package dom

import "slices"

// EventType names a dispatched event.
type EventType string

const (
	EventPointerDown EventType = "pointerdown"
	EventFocusIn     EventType = "focusin"
	EventFocusOut    EventType = "focusout"
	EventKeyDown     EventType = "keydown"
	EventClick       EventType = "click"
)

// Mouse button indices, as in PointerEvent.button.
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// Event is a dispatched input or focus event.
type Event struct {
	Type   EventType
	Target *Element
	// CurrentTarget is the element whose handler is running, nil for
	// document-level listeners.
	CurrentTarget *Element
	// RelatedTarget is the element losing focus for focusin and the element
	// gaining focus for focusout.
	RelatedTarget *Element

	Key    string
	Shift  bool
	Alt    bool
	Ctrl   bool
	Meta   bool
	Button int
	X, Y   int

	defaultPrevented bool
	stopped          bool
}

// Modifiers reports whether any modifier key is held.
func (e *Event) Modifiers() bool {
	return e.Shift || e.Alt || e.Ctrl || e.Meta
}

// PreventDefault suppresses the default action and any dismissal that
// depends on it.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops bubbling to further element handlers.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Handler receives a dispatched event.
type Handler func(*Event)

// Mods carries modifier state for synthetic input.
type Mods struct {
	Shift, Alt, Ctrl, Meta bool
}

type listener struct {
	handler Handler
	capture bool
	removed bool
}

func removeListener(list []*listener, l *listener) []*listener {
	l.removed = true
	idx := slices.Index(list, l)
	if idx < 0 {
		return list
	}
	return slices.Delete(list, idx, idx+1)
}

// ListenerOption configures a document-level listener.
type ListenerOption func(*listener)

// Capture runs the listener before element handlers.
func Capture() ListenerOption {
	return func(l *listener) { l.capture = true }
}
