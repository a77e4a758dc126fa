// Package focusable answers which elements inside a subtree can take
// keyboard focus, and moves focus with optional text selection.
package focusable

import (
	"slices"

	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Elements returns the descendants of container that are reachable with
// Tab, in document order. The container itself is never included. The
// result reflects the tree at call time and must not be cached.
func Elements(container *dom.Element) []*dom.Element {
	if container == nil {
		return nil
	}
	var nodes []*dom.Element
	container.Walk(func(el *dom.Element) bool {
		if el.Disabled || el.Hidden || isHiddenInput(el) {
			return true
		}
		if el.TabIndex() >= 0 {
			nodes = append(nodes, el)
		}
		return true
	})
	return nodes
}

func isHiddenInput(el *dom.Element) bool {
	return el.Tag == "input" && el.Type == "hidden"
}

// IsHidden reports whether node is invisible: its computed visibility is
// hidden, or node or an ancestor below boundary is display:none.
func IsHidden(node, boundary *dom.Element) bool {
	if dom.ComputedStyle(node).Visibility == dom.VisibilityHidden {
		return true
	}
	for n := node; n != nil; n = n.Parent() {
		if boundary != nil && n == boundary {
			return false
		}
		if dom.ComputedStyle(n).Display == dom.DisplayNone {
			return true
		}
	}
	return false
}

// FirstVisible returns the first element not hidden below container.
func FirstVisible(elements []*dom.Element, container *dom.Element) *dom.Element {
	for _, el := range elements {
		if !IsHidden(el, container) {
			return el
		}
	}
	return nil
}

// Edges returns the first and last visible focusable descendants of
// container, or (nil, nil) when there are none.
func Edges(container *dom.Element) (first, last *dom.Element) {
	elements := Elements(container)
	first = FirstVisible(elements, container)
	slices.Reverse(elements)
	last = FirstVisible(elements, container)
	return first, last
}

// Focuser is the part of a document Focus needs.
type Focuser interface {
	ActiveElement() *dom.Element
	Focus(*dom.Element)
	Select(*dom.Element)
}

type focusOptions struct {
	selectText bool
}

// FocusOption configures Focus.
type FocusOption func(*focusOptions)

// WithSelect also selects the target's text when focus actually moved to it.
func WithSelect() FocusOption {
	return func(o *focusOptions) { o.selectText = true }
}

// Focus moves focus to target. A nil target is a no-op.
func Focus(doc Focuser, target *dom.Element, opts ...FocusOption) {
	if doc == nil || target == nil {
		return
	}
	var o focusOptions
	for _, opt := range opts {
		opt(&o)
	}
	prev := doc.ActiveElement()
	doc.Focus(target)
	if o.selectText && target != prev && doc.ActiveElement() == target && target.Selectable() {
		doc.Select(target)
	}
}

// FocusFirst focuses the first visible element of elements.
func FocusFirst(doc Focuser, elements []*dom.Element, container *dom.Element, opts ...FocusOption) {
	Focus(doc, FirstVisible(elements, container), opts...)
}
