// Package dom is a small in-process element tree with document-level focus
// and event dispatch. It models the parts of the browser DOM the interaction
// engines rely on: containment, tab order, computed visibility, native focus
// and select, and pointerdown/focusin/keydown/click listeners.
package dom

import "slices"

// Element is a node in the tree.
type Element struct {
	ID       string
	Tag      string
	Type     string // input type, e.g. "text" or "hidden"
	Role     string
	Text     string
	Disabled bool
	Hidden   bool
	Style    Style
	Bounds   Rect

	tabIndex    int
	tabIndexSet bool
	attrs       map[string]string
	parent      *Element
	children    []*Element
	handlers    map[EventType][]*listener
	detach      []*func()
	selections  int
}

// Option configures an Element at construction.
type Option func(*Element)

// NewElement creates a detached element.
func NewElement(tag string, opts ...Option) *Element {
	el := &Element{Tag: tag}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

// WithID sets the element id.
func WithID(id string) Option {
	return func(el *Element) { el.ID = id }
}

// WithType sets the input type.
func WithType(typ string) Option {
	return func(el *Element) { el.Type = typ }
}

// WithText sets the element text.
func WithText(text string) Option {
	return func(el *Element) { el.Text = text }
}

// WithTabIndex sets an explicit tab index.
func WithTabIndex(i int) Option {
	return func(el *Element) { el.SetTabIndex(i) }
}

// WithDisabled marks the element disabled.
func WithDisabled(disabled bool) Option {
	return func(el *Element) { el.Disabled = disabled }
}

// WithHidden sets the hidden attribute.
func WithHidden(hidden bool) Option {
	return func(el *Element) { el.Hidden = hidden }
}

// WithStyle sets the declared style.
func WithStyle(s Style) Option {
	return func(el *Element) { el.Style = s }
}

// WithBounds sets the element's screen rectangle.
func WithBounds(r Rect) Option {
	return func(el *Element) { el.Bounds = r }
}

// WithAttr sets an attribute.
func WithAttr(name, value string) Option {
	return func(el *Element) { el.SetAttr(name, value) }
}

// WithChildren appends children in order.
func WithChildren(children ...*Element) Option {
	return func(el *Element) {
		for _, c := range children {
			el.AppendChild(c)
		}
	}
}

// nativelyFocusable lists tags that take focus without an explicit tabindex.
var nativelyFocusable = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"a":        true,
}

// TabIndex returns the effective tab index: the explicit value if one was
// set, 0 for natively focusable tags, -1 otherwise.
func (el *Element) TabIndex() int {
	if el.tabIndexSet {
		return el.tabIndex
	}
	if nativelyFocusable[el.Tag] {
		return 0
	}
	return -1
}

// SetTabIndex sets an explicit tab index.
func (el *Element) SetTabIndex(i int) {
	el.tabIndex = i
	el.tabIndexSet = true
}

// RemoveTabIndex drops the explicit tab index.
func (el *Element) RemoveTabIndex() {
	el.tabIndex = 0
	el.tabIndexSet = false
}

// HasTabIndex reports whether an explicit tab index is set.
func (el *Element) HasTabIndex() bool {
	return el.tabIndexSet
}

// Focusable reports whether focus() would move focus to el.
func (el *Element) Focusable() bool {
	if el == nil || el.Disabled {
		return false
	}
	return el.tabIndexSet || nativelyFocusable[el.Tag]
}

// Selectable reports whether el supports text selection.
func (el *Element) Selectable() bool {
	if el == nil {
		return false
	}
	if el.Tag == "textarea" {
		return true
	}
	if el.Tag != "input" {
		return false
	}
	switch el.Type {
	case "", "text", "search", "url", "tel", "password", "email":
		return true
	}
	return false
}

// SelectCount returns how many times the element's text was selected.
func (el *Element) SelectCount() int {
	return el.selections
}

// Attr returns an attribute value.
func (el *Element) Attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

// SetAttr sets an attribute value.
func (el *Element) SetAttr(name, value string) {
	if el.attrs == nil {
		el.attrs = make(map[string]string)
	}
	el.attrs[name] = value
}

// RemoveAttr removes an attribute.
func (el *Element) RemoveAttr(name string) {
	delete(el.attrs, name)
}

// Parent returns the parent element, or nil.
func (el *Element) Parent() *Element {
	return el.parent
}

// Children returns a copy of the child list.
func (el *Element) Children() []*Element {
	return slices.Clone(el.children)
}

// AppendChild moves child to the end of el's children.
func (el *Element) AppendChild(child *Element) {
	if child == nil {
		return
	}
	child.Remove()
	child.parent = el
	el.children = append(el.children, child)
}

// InsertBefore inserts child before ref. A nil or foreign ref appends.
func (el *Element) InsertBefore(child, ref *Element) {
	if child == nil {
		return
	}
	child.Remove()
	idx := slices.Index(el.children, ref)
	if ref == nil || idx < 0 {
		el.AppendChild(child)
		return
	}
	child.parent = el
	el.children = slices.Insert(el.children, idx, child)
}

// RemoveChild detaches child from el.
func (el *Element) RemoveChild(child *Element) {
	idx := slices.Index(el.children, child)
	if idx < 0 {
		return
	}
	el.children = slices.Delete(el.children, idx, idx+1)
	child.parent = nil
	child.notifyDetach()
}

// OnDetach registers fn to run whenever el, or an ancestor of el, is
// removed from its parent. Moving an element counts as a removal. The
// returned func unregisters fn.
func (el *Element) OnDetach(fn func()) func() {
	hook := &fn
	el.detach = append(el.detach, hook)
	return func() {
		el.detach = slices.DeleteFunc(el.detach, func(h *func()) bool { return h == hook })
	}
}

func (el *Element) notifyDetach() {
	hooks := slices.Clone(el.detach)
	for _, c := range slices.Clone(el.children) {
		c.notifyDetach()
	}
	for _, h := range hooks {
		(*h)()
	}
}

// Remove detaches el from its parent.
func (el *Element) Remove() {
	if el.parent != nil {
		el.parent.RemoveChild(el)
	}
}

// Contains reports whether other is el or one of its descendants.
func (el *Element) Contains(other *Element) bool {
	if el == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == el {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (el *Element) Root() *Element {
	n := el
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// NextSibling returns the following sibling, or nil.
func (el *Element) NextSibling() *Element {
	if el.parent == nil {
		return nil
	}
	siblings := el.parent.children
	idx := slices.Index(siblings, el)
	if idx < 0 || idx+1 >= len(siblings) {
		return nil
	}
	return siblings[idx+1]
}

// PrevSibling returns the preceding sibling, or nil.
func (el *Element) PrevSibling() *Element {
	if el.parent == nil {
		return nil
	}
	siblings := el.parent.children
	idx := slices.Index(siblings, el)
	if idx <= 0 {
		return nil
	}
	return siblings[idx-1]
}

// Walk visits el's descendants in document order, excluding el itself.
// Returning false from fn stops the walk.
func (el *Element) Walk(fn func(*Element) bool) {
	el.walk(fn)
}

func (el *Element) walk(fn func(*Element) bool) bool {
	for _, c := range el.children {
		if !fn(c) {
			return false
		}
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first descendant with the given id.
func (el *Element) Find(id string) *Element {
	var found *Element
	el.Walk(func(n *Element) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// AddEventListener registers an element-level handler, invoked while the
// event bubbles through el. The returned func removes it.
func (el *Element) AddEventListener(typ EventType, h Handler) func() {
	l := &listener{handler: h}
	if el.handlers == nil {
		el.handlers = make(map[EventType][]*listener)
	}
	el.handlers[typ] = append(el.handlers[typ], l)
	return func() {
		el.handlers[typ] = removeListener(el.handlers[typ], l)
	}
}

// ListenerCount returns the number of element-level handlers for typ.
func (el *Element) ListenerCount(typ EventType) int {
	return len(el.handlers[typ])
}
