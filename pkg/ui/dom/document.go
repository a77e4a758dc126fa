package dom

import (
	"cmp"
	"slices"
)

// Document owns the element tree, the active element and document-level
// listeners. It is not safe for concurrent use; all input must be fed from
// a single goroutine.
type Document struct {
	Body *Element

	active    *Element
	listeners map[EventType][]*listener
	grid      *HitGrid
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	return &Document{
		Body:      NewElement("body"),
		listeners: make(map[EventType][]*listener),
		grid:      NewHitGrid(0, 0),
	}
}

// ActiveElement returns the focused element, or the body when nothing is.
func (d *Document) ActiveElement() *Element {
	if d.active == nil || !d.Contains(d.active) {
		return d.Body
	}
	return d.active
}

// Contains reports whether el is attached to the document.
func (d *Document) Contains(el *Element) bool {
	return el != nil && d.Body.Contains(el)
}

// GetElementByID finds an attached element by id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Body.Find(id)
}

// Focus moves focus to el. It is a no-op when el is nil, detached, not
// rendered, not focusable or already active. On change, focusout fires on
// the previous element and focusin on el.
func (d *Document) Focus(el *Element) {
	if el == nil || el == d.Body || !d.Contains(el) || !el.Focusable() || !el.Rendered() {
		return
	}
	prev := d.active
	if prev == el {
		return
	}
	d.active = el
	if prev != nil && d.Contains(prev) {
		d.Dispatch(&Event{Type: EventFocusOut, Target: prev, RelatedTarget: el})
	}
	d.Dispatch(&Event{Type: EventFocusIn, Target: el, RelatedTarget: prev})
}

// Blur clears focus back to the body.
func (d *Document) Blur() {
	prev := d.active
	if prev == nil {
		return
	}
	d.active = nil
	if d.Contains(prev) {
		d.Dispatch(&Event{Type: EventFocusOut, Target: prev})
	}
}

// Select records a text selection on el if it supports one.
func (d *Document) Select(el *Element) {
	if el.Selectable() {
		el.selections++
	}
}

// SetTabIndex implements the roving focus adapter.
func (d *Document) SetTabIndex(el *Element, i int) {
	if el != nil {
		el.SetTabIndex(i)
	}
}

// AddEventListener registers a document-level listener. Capture listeners
// run before element handlers, the rest after bubbling. The returned func
// removes the listener and is safe to call more than once.
func (d *Document) AddEventListener(typ EventType, h Handler, opts ...ListenerOption) func() {
	l := &listener{handler: h}
	for _, opt := range opts {
		opt(l)
	}
	d.listeners[typ] = append(d.listeners[typ], l)
	return func() {
		d.listeners[typ] = removeListener(d.listeners[typ], l)
	}
}

// ListenerCount returns the number of document-level listeners for typ.
func (d *Document) ListenerCount(typ EventType) int {
	return len(d.listeners[typ])
}

// Dispatch runs ev through document capture listeners, element handlers
// from the target up to the root, then document bubble listeners. Default
// actions run afterwards unless prevented.
func (d *Document) Dispatch(ev *Event) {
	d.runDocument(ev, true)

	for n := ev.Target; n != nil && !ev.stopped; n = n.parent {
		handlers := slices.Clone(n.handlers[ev.Type])
		for _, l := range handlers {
			if l.removed {
				continue
			}
			ev.CurrentTarget = n
			l.handler(ev)
		}
	}
	ev.CurrentTarget = nil

	if !ev.stopped {
		d.runDocument(ev, false)
	}

	if !ev.defaultPrevented {
		d.defaultAction(ev)
	}
}

func (d *Document) runDocument(ev *Event, capture bool) {
	for _, l := range slices.Clone(d.listeners[ev.Type]) {
		if l.removed || l.capture != capture {
			continue
		}
		l.handler(ev)
	}
}

func (d *Document) defaultAction(ev *Event) {
	switch ev.Type {
	case EventKeyDown:
		switch ev.Key {
		case "Tab":
			if !ev.Ctrl && !ev.Alt && !ev.Meta {
				d.moveSequential(ev.Shift)
			}
		case "Enter", " ":
			if ev.Target != nil && ev.Target.Tag == "button" {
				d.Click(ev.Target)
			}
		}
	case EventPointerDown:
		for n := ev.Target; n != nil; n = n.parent {
			if n.Focusable() && n.Rendered() {
				d.Focus(n)
				return
			}
		}
		d.Blur()
	}
}

// TabOrder returns the sequential navigation order: positive tab indexes
// ascending, then tab index 0 in document order.
func (d *Document) TabOrder() []*Element {
	var positive, zero []*Element
	d.Body.Walk(func(el *Element) bool {
		if !tabbable(el) {
			return true
		}
		if el.TabIndex() > 0 {
			positive = append(positive, el)
		} else {
			zero = append(zero, el)
		}
		return true
	})
	slices.SortStableFunc(positive, func(a, b *Element) int {
		return cmp.Compare(a.TabIndex(), b.TabIndex())
	})
	return append(positive, zero...)
}

func tabbable(el *Element) bool {
	if !el.Focusable() || el.TabIndex() < 0 || !el.Rendered() {
		return false
	}
	return !(el.Tag == "input" && el.Type == "hidden")
}

func (d *Document) moveSequential(backward bool) {
	order := d.TabOrder()
	if len(order) == 0 {
		d.Blur()
		return
	}
	current := d.ActiveElement()
	idx := slices.Index(order, current)

	var next *Element
	switch {
	case current == d.Body:
		if backward {
			next = order[len(order)-1]
		} else {
			next = order[0]
		}
	case idx >= 0:
		step := 1
		if backward {
			step = -1
		}
		if i := idx + step; i >= 0 && i < len(order) {
			next = order[i]
		}
	default:
		next = d.nearestInDocumentOrder(order, current, backward)
	}

	if next == nil {
		d.Blur()
		return
	}
	d.Focus(next)
}

// nearestInDocumentOrder finds the tabbable element that follows (or
// precedes) an element that is itself outside the tab order.
func (d *Document) nearestInDocumentOrder(order []*Element, from *Element, backward bool) *Element {
	position := make(map[*Element]int)
	i := 0
	d.Body.Walk(func(el *Element) bool {
		position[el] = i
		i++
		return true
	})
	at, ok := position[from]
	if !ok {
		return nil
	}

	var best *Element
	for _, el := range order {
		p := position[el]
		if backward {
			if p < at && !el.Contains(from) && (best == nil || p > position[best]) {
				best = el
			}
			continue
		}
		if p > at && (best == nil || p < position[best]) {
			best = el
		}
	}
	return best
}

// KeyDown dispatches a keydown to the active element and returns the event.
func (d *Document) KeyDown(key string, mods Mods) *Event {
	ev := &Event{
		Type:   EventKeyDown,
		Target: d.ActiveElement(),
		Key:    key,
		Shift:  mods.Shift,
		Alt:    mods.Alt,
		Ctrl:   mods.Ctrl,
		Meta:   mods.Meta,
	}
	d.Dispatch(ev)
	return ev
}

// PointerDown dispatches a pointerdown on target.
func (d *Document) PointerDown(target *Element, button int, mods Mods) *Event {
	if target == nil {
		target = d.Body
	}
	return d.pointerDown(target, button, mods, target.Bounds.X, target.Bounds.Y)
}

func (d *Document) pointerDown(target *Element, button int, mods Mods, x, y int) *Event {
	ev := &Event{
		Type:   EventPointerDown,
		Target: target,
		Button: button,
		Shift:  mods.Shift,
		Alt:    mods.Alt,
		Ctrl:   mods.Ctrl,
		Meta:   mods.Meta,
		X:      x,
		Y:      y,
	}
	d.Dispatch(ev)
	return ev
}

// Click dispatches a click on target. Disabled or detached targets are
// ignored and nil is returned.
func (d *Document) Click(target *Element) *Event {
	if target == nil || target.Disabled || !d.Contains(target) {
		return nil
	}
	ev := &Event{Type: EventClick, Target: target, Button: ButtonPrimary}
	d.Dispatch(ev)
	return ev
}

// Press simulates a primary-button pointerdown followed by a click.
func (d *Document) Press(target *Element) {
	d.PointerDown(target, ButtonPrimary, Mods{})
	d.Click(target)
}

// SetViewport sizes the hit grid used by PointerAt.
func (d *Document) SetViewport(width, height int) {
	d.grid.Resize(width, height)
}

// Viewport returns the hit grid size.
func (d *Document) Viewport() (int, int) {
	return d.grid.Size()
}

// HitTest returns the topmost rendered element at (x, y), or the body.
func (d *Document) HitTest(x, y int) *Element {
	d.grid.Clear()
	d.Body.Walk(func(el *Element) bool {
		if el.Rendered() {
			d.grid.Add(el)
		}
		return true
	})
	if el := d.grid.ElementAt(x, y); el != nil {
		return el
	}
	return d.Body
}

// PointerAt hit-tests (x, y) and delivers a pointerdown there, followed by
// a click for the primary button. It returns the element that was hit.
func (d *Document) PointerAt(x, y, button int, mods Mods) *Element {
	target := d.HitTest(x, y)
	d.pointerDown(target, button, mods, x, y)
	if button == ButtonPrimary {
		d.Click(target)
	}
	return target
}
