package primitives

import (
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// ToggleConfig configures a Toggle. Pressed makes it controlled.
type ToggleConfig struct {
	ID              string
	Text            string
	Pressed         *bool
	DefaultPressed  bool
	OnPressedChange func(bool)
	Disabled        bool
	// TabIndex overrides the default of 0 for an enabled toggle.
	TabIndex *int
}

// Toggle is a two-state button.
type Toggle struct {
	el       *dom.Element
	pressed  *Controlled[bool]
	disabled bool
	off      listeners
}

// NewToggle creates a toggle button.
func NewToggle(cfg ToggleConfig) *Toggle {
	t := &Toggle{
		el:       dom.NewElement("button", dom.WithID(cfg.ID), dom.WithType("button"), dom.WithText(cfg.Text)),
		disabled: cfg.Disabled,
	}
	t.pressed = NewControlled(cfg.Pressed, cfg.DefaultPressed, cfg.OnPressedChange)
	t.el.SetAttr("role", "button")
	switch {
	case cfg.TabIndex != nil:
		t.el.SetTabIndex(*cfg.TabIndex)
	case !cfg.Disabled:
		t.el.SetTabIndex(0)
	}

	t.off.add(t.el.AddEventListener(dom.EventClick, func(*dom.Event) { t.toggle() }))
	t.off.add(t.el.AddEventListener(dom.EventKeyDown, t.handleKeyDown))
	t.Sync()
	return t
}

// Element returns the button.
func (t *Toggle) Element() *dom.Element { return t.el }

// Pressed returns the current state.
func (t *Toggle) Pressed() bool { return t.pressed.Get() }

// SetPressed changes the state as a user press would, ignoring disabled.
func (t *Toggle) SetPressed(pressed bool) {
	t.pressed.Set(pressed)
	t.Sync()
}

// SetDisabled enables or disables the toggle.
func (t *Toggle) SetDisabled(disabled bool) {
	t.disabled = disabled
	t.Sync()
}

// Sync writes the state attributes onto the element. Call it after
// changing a controlled value.
func (t *Toggle) Sync() {
	pressed := t.pressed.Get()
	t.el.Disabled = t.disabled
	t.el.SetAttr("aria-pressed", boolAttr(pressed))
	t.el.SetAttr("aria-disabled", boolAttr(t.disabled))
	if pressed {
		t.el.SetAttr("data-pressed", "on")
	} else {
		t.el.SetAttr("data-pressed", "off")
	}
	if t.disabled {
		t.el.SetAttr("data-disabled", "true")
	} else {
		t.el.RemoveAttr("data-disabled")
	}
}

// Close detaches the toggle's listeners.
func (t *Toggle) Close() { t.off.removeAll() }

func (t *Toggle) toggle() {
	if t.disabled {
		return
	}
	t.SetPressed(!t.pressed.Get())
}

func (t *Toggle) handleKeyDown(ev *dom.Event) {
	if ev.Target != t.el || (ev.Key != "Enter" && ev.Key != " ") {
		return
	}
	ev.PreventDefault()
	t.toggle()
}
