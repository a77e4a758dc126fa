package focustrap

import (
	"errors"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/focusable"
)

// Errors returned by New for missing collaborators.
var (
	ErrNoContainer = errors.New("focustrap: container is required")
	ErrNoDocument  = errors.New("focustrap: document is required")
	ErrNoStack     = errors.New("focustrap: stack is required")
)

// Option configures a Layer.
type Option func(*Layer)

// WithLoop wraps Tab from the last element to the first and back.
func WithLoop(loop bool) Option {
	return func(l *Layer) { l.loop = loop }
}

// WithTrapped controls whether focus is held inside the container.
func WithTrapped(trapped bool) Option {
	return func(l *Layer) { l.trapped = trapped }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Layer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r telemetry.Recorder) Option {
	return func(l *Layer) { l.metrics = telemetry.OrNop(r) }
}

// Layer traps focus inside a container for the duration of a mount.
type Layer struct {
	doc       *dom.Document
	stack     *Stack
	container *dom.Element
	scope     *Scope

	loop    bool
	trapped bool

	logger  *zap.Logger
	metrics telemetry.Recorder

	mounted     bool
	previous    *dom.Element
	lastFocused *dom.Element
	unlisten    []func()
}

// New creates an unmounted trap around container. Traps default to
// trapped without looping.
func New(doc *dom.Document, stack *Stack, container *dom.Element, opts ...Option) (*Layer, error) {
	switch {
	case doc == nil:
		return nil, ErrNoDocument
	case stack == nil:
		return nil, ErrNoStack
	case container == nil:
		return nil, ErrNoContainer
	}
	l := &Layer{
		doc:       doc,
		stack:     stack,
		container: container,
		scope:     NewScope(),
		trapped:   true,
		logger:    zap.NewNop(),
		metrics:   telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}
	container.SetTabIndex(-1)
	return l, nil
}

// Container returns the element focus is kept inside.
func (l *Layer) Container() *dom.Element { return l.container }

// Scope returns the scope pushed onto the stack while mounted.
func (l *Layer) Scope() *Scope { return l.scope }

// Mounted reports whether the trap is active.
func (l *Layer) Mounted() bool { return l.mounted }

// Loop reports whether Tab wraps at the edges.
func (l *Layer) Loop() bool { return l.loop }

// Trapped reports whether focus is pulled back when it leaves.
func (l *Layer) Trapped() bool { return l.trapped }

// SetLoop changes looping while mounted.
func (l *Layer) SetLoop(loop bool) { l.loop = loop }

// SetTrapped changes trapping while mounted.
func (l *Layer) SetTrapped(trapped bool) { l.trapped = trapped }

// Mount starts trapping. The container should already be attached. Focus
// moves to the first visible focusable descendant unless it is already
// inside, falling back to the container itself. Mounting twice is a no-op.
func (l *Layer) Mount() {
	if l.mounted {
		return
	}
	l.mounted = true
	l.lastFocused = nil

	l.unlisten = append(l.unlisten,
		l.doc.AddEventListener(dom.EventFocusIn, l.handleFocusIn),
		l.doc.AddEventListener(dom.EventKeyDown, l.handleKeyDown),
	)

	l.stack.Add(l.scope)
	l.metrics.TrapPushed()
	l.metrics.TrapDepth(l.stack.Len())

	l.previous = l.doc.ActiveElement()
	if !l.container.Contains(l.previous) {
		focusable.FocusFirst(l.doc, focusable.Elements(l.container), l.container, focusable.WithSelect())
		if !l.container.Contains(l.doc.ActiveElement()) {
			focusable.Focus(l.doc, l.container)
		}
	}

	l.logger.Debug("focus trap mounted",
		zap.String("scope", l.scope.ID()),
		zap.Int("depth", l.stack.Len()),
		zap.String("focused", l.doc.ActiveElement().ID),
	)
}

// Unmount stops trapping, restores focus to the element that was active at
// mount (the body if it is gone) and resumes the next trap down.
func (l *Layer) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	for _, off := range l.unlisten {
		off()
	}
	l.unlisten = nil

	restore := l.previous
	l.previous = nil
	if restore == nil || restore == l.doc.Body || !l.doc.Contains(restore) {
		l.doc.Blur()
	} else {
		focusable.Focus(l.doc, restore, focusable.WithSelect())
	}
	l.metrics.FocusRestored()

	l.stack.Remove(l.scope)
	l.metrics.TrapDepth(l.stack.Len())

	l.logger.Debug("focus trap unmounted",
		zap.String("scope", l.scope.ID()),
		zap.Int("depth", l.stack.Len()),
		zap.String("restored", l.doc.ActiveElement().ID),
	)
}

func (l *Layer) handleFocusIn(ev *dom.Event) {
	if !l.trapped || l.scope.Paused() {
		return
	}
	if l.container.Contains(ev.Target) {
		l.lastFocused = ev.Target
		return
	}

	back := l.lastFocused
	if back == nil || !l.doc.Contains(back) || !l.container.Contains(back) {
		back = l.container
	}
	l.logger.Debug("focus escaped trap, pulling back",
		zap.String("scope", l.scope.ID()),
		zap.String("target", ev.Target.ID),
	)
	focusable.Focus(l.doc, back, focusable.WithSelect())
}

func (l *Layer) handleKeyDown(ev *dom.Event) {
	if !l.loop && !l.trapped {
		return
	}
	if l.scope.Paused() {
		return
	}
	if ev.Key != "Tab" || ev.Alt || ev.Ctrl || ev.Meta {
		return
	}

	focused := l.doc.ActiveElement()
	first, last := focusable.Edges(l.container)
	if first == nil || last == nil {
		if focused == l.container {
			ev.PreventDefault()
		}
		return
	}

	switch {
	case !ev.Shift && focused == last:
		ev.PreventDefault()
		if l.loop {
			focusable.Focus(l.doc, first, focusable.WithSelect())
		}
	case ev.Shift && focused == first:
		ev.PreventDefault()
		if l.loop {
			focusable.Focus(l.doc, last, focusable.WithSelect())
		}
	}
}
