// Package listbox holds the select state machine: a pure reducer over
// State and a Store that applies focus side effects after each transition.
package listbox

import (
	"errors"
	"fmt"
	"slices"

	"github.com/odvcencio/overui/pkg/ui/dom"
)

// ErrUnknownAction is returned by Reduce for actions it does not handle.
var ErrUnknownAction = errors.New("listbox: unknown action")

// Orientation picks the arrow keys that move through the options.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Option is one registered choice.
type Option struct {
	Key      string
	ID       string
	Value    string
	Disabled bool
	Element  *dom.Element
}

// State is the whole select state. Treat it as a value; Reduce never
// mutates the slices of the state it is given.
type State struct {
	Open bool
	// Options in registration order.
	Options []Option
	// Possible is Options without the disabled entries.
	Possible    []Option
	ActiveID    string
	Selected    []string
	LabelID     string
	Multiple    bool
	Orientation Orientation
}

// IsSelected reports whether value is part of the current selection.
func (s State) IsSelected(value string) bool {
	return slices.Contains(s.Selected, value)
}

// Active returns the option whose ID is ActiveID.
func (s State) Active() (Option, bool) {
	i := slices.IndexFunc(s.Possible, func(o Option) bool { return o.ID == s.ActiveID })
	if i < 0 || s.ActiveID == "" {
		return Option{}, false
	}
	return s.Possible[i], true
}

// FocusMode selects the target of a Focus action.
type FocusMode int

const (
	FocusInit FocusMode = iota
	FocusNext
	FocusPrev
	FocusFirst
	FocusLast
)

func (m FocusMode) String() string {
	switch m {
	case FocusInit:
		return "init"
	case FocusNext:
		return "next"
	case FocusPrev:
		return "prev"
	case FocusFirst:
		return "first"
	case FocusLast:
		return "last"
	default:
		return fmt.Sprintf("FocusMode(%d)", int(m))
	}
}

// Action is a message for Reduce.
type Action interface {
	Type() string
}

type (
	Toggle       struct{}
	OpenOptions  struct{}
	CloseOptions struct{}

	RegisterOption struct {
		Key    string
		Option Option
	}

	UnregisterOption struct {
		Key string
	}

	Focus struct {
		Mode FocusMode
	}

	RegisterLabel struct {
		ID string
	}

	SelectValue struct {
		Value string
	}
)

func (Toggle) Type() string           { return "toggle_options" }
func (OpenOptions) Type() string      { return "open_options" }
func (CloseOptions) Type() string     { return "close_options" }
func (RegisterOption) Type() string   { return "register_option" }
func (UnregisterOption) Type() string { return "unregister_option" }
func (Focus) Type() string            { return "focus" }
func (RegisterLabel) Type() string    { return "register_label" }
func (SelectValue) Type() string      { return "select_value" }

// Reduce computes the state that follows action. It has no side effects.
func Reduce(state State, action Action) (State, error) {
	switch a := action.(type) {
	case Toggle:
		state.Open = !state.Open
	case OpenOptions:
		state.Open = true
	case CloseOptions:
		state.Open = false
	case SelectValue:
		state.Selected = toggleValue(state.Selected, a.Value, state.Multiple)
	case RegisterOption:
		opt := a.Option
		opt.Key = a.Key
		options := slices.Clone(state.Options)
		if i := slices.IndexFunc(options, func(o Option) bool { return o.Key == a.Key }); i >= 0 {
			options[i] = opt
		} else {
			options = append(options, opt)
		}
		state.Options = options
		state.Possible = possible(options)
	case UnregisterOption:
		state.Options = slices.DeleteFunc(slices.Clone(state.Options), func(o Option) bool { return o.Key == a.Key })
		state.Possible = possible(state.Options)
	case Focus:
		state = focus(state, a.Mode)
	case RegisterLabel:
		state.LabelID = a.ID
	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	return state, nil
}

func toggleValue(selected []string, value string, multiple bool) []string {
	was := slices.Contains(selected, value)
	switch {
	case multiple && was:
		return slices.DeleteFunc(slices.Clone(selected), func(v string) bool { return v == value })
	case multiple:
		return append(slices.Clone(selected), value)
	case was:
		return []string{}
	default:
		return []string{value}
	}
}

func possible(options []Option) []Option {
	out := make([]Option, 0, len(options))
	for _, o := range options {
		if !o.Disabled {
			out = append(out, o)
		}
	}
	return out
}

func focus(state State, mode FocusMode) State {
	opts := state.Possible
	if len(opts) == 0 {
		return state
	}
	current := slices.IndexFunc(opts, func(o Option) bool { return o.ID == state.ActiveID })

	target := -1
	switch mode {
	case FocusInit:
		if !state.Open {
			return state
		}
		target = slices.IndexFunc(opts, func(o Option) bool { return state.IsSelected(o.Value) })
		if target < 0 {
			target = 0
		}
	case FocusNext:
		target = min(current+1, len(opts)-1)
	case FocusPrev:
		switch {
		case current < 0:
			target = len(opts) - 1
		default:
			target = max(current-1, 0)
		}
	case FocusFirst:
		target = 0
	case FocusLast:
		target = len(opts) - 1
	default:
		return state
	}
	state.ActiveID = opts[target].ID
	return state
}
