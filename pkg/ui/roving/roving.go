// Package roving implements the roving tabindex pattern: within a group
// exactly one item is reachable with Tab and arrow keys move that status
// between items.
package roving

import (
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Action is a navigation intent decoded from a key.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrev
	ActionHome
	ActionEnd
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionHome:
		return "home"
	case ActionEnd:
		return "end"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// ActionForKey maps a key name to an action using the generic table,
// where both arrow axes are live.
func ActionForKey(key string) Action {
	switch key {
	case "ArrowRight", "ArrowUp":
		return ActionNext
	case "ArrowLeft", "ArrowDown":
		return ActionPrev
	case "Home":
		return ActionHome
	case "End":
		return ActionEnd
	case "Tab":
		return ActionClose
	default:
		return ActionNone
	}
}

// Wrap returns the indexes after and before current in a ring of length
// items. A current of -1 (nothing focused) yields 0 and length-1.
func Wrap(current, length int) (next, prev int) {
	if length <= 0 {
		return -1, -1
	}
	next = current + 1
	if next >= length {
		next = 0
	}
	prev = current - 1
	if prev < 0 {
		prev = length - 1
	}
	return next, prev
}

// Step moves from index from in direction dir (+1 or -1) over entries,
// where disabled[i] marks an entry that cannot take focus. Disabled
// entries are skipped. When no eligible entry lies in that direction the
// walk restarts from the opposite end if loop is set; otherwise Step
// returns -1.
func Step(disabled []bool, from, dir int, loop bool) int {
	if dir == 0 {
		return -1
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	n := len(disabled)
	for i := from + dir; i >= 0 && i < n; i += dir {
		if !disabled[i] {
			return i
		}
	}
	if !loop {
		return -1
	}
	start := 0
	if dir < 0 {
		start = n - 1
	}
	for i := start; i >= 0 && i < n; i += dir {
		if !disabled[i] {
			return i
		}
	}
	return -1
}

// FocusAdapter is the write boundary the controllers go through.
// *dom.Document implements it.
type FocusAdapter interface {
	ActiveElement() *dom.Element
	Focus(*dom.Element)
	SetTabIndex(*dom.Element, int)
}

// Item is one registered group member.
type Item struct {
	Element  *dom.Element
	Value    string
	Disabled bool
}

func makeFocusable(f FocusAdapter, el *dom.Element) {
	if el == nil {
		return
	}
	f.SetTabIndex(el, 0)
	f.Focus(el)
}

func makeUnfocusable(f FocusAdapter, el *dom.Element) {
	if el == nil {
		return
	}
	f.SetTabIndex(el, -1)
}
