package dismiss

import (
	"errors"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Errors returned by New for missing collaborators.
var (
	ErrNoNode     = errors.New("dismiss: layer node is required")
	ErrNoDocument = errors.New("dismiss: document is required")
	ErrNoRegistry = errors.New("dismiss: registry is required")
)

// Option configures a Layer.
type Option func(*Layer)

// DisableOutsidePointerEvents controls whether outside pointerdowns are
// considered at all. Defaults to true.
func DisableOutsidePointerEvents(disable bool) Option {
	return func(l *Layer) { l.disableOutsidePointerEvents = disable }
}

// OnEscapeKeyDown runs on Escape before dismissal. Calling PreventDefault
// on the event keeps the layer open.
func OnEscapeKeyDown(h dom.Handler) Option {
	return func(l *Layer) { l.onEscapeKeyDown = h }
}

// OnPointerDownOutside runs for a pointerdown outside the layer.
func OnPointerDownOutside(h dom.Handler) Option {
	return func(l *Layer) { l.onPointerDownOutside = h }
}

// OnFocusOutside runs when focus moves outside the layer.
func OnFocusOutside(h dom.Handler) Option {
	return func(l *Layer) { l.onFocusOutside = h }
}

// OnInteractOutside runs after either outside handler.
func OnInteractOutside(h dom.Handler) Option {
	return func(l *Layer) { l.onInteractOutside = h }
}

// OnDismiss runs when the layer should close.
func OnDismiss(fn func()) Option {
	return func(l *Layer) { l.onDismiss = fn }
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

// Layer watches document events on behalf of one overlay node.
type Layer struct {
	doc      *dom.Document
	registry *Registry
	node     *dom.Element

	disableOutsidePointerEvents bool
	onEscapeKeyDown             dom.Handler
	onPointerDownOutside        dom.Handler
	onFocusOutside              dom.Handler
	onInteractOutside           dom.Handler
	onDismiss                   func()

	logger  *zap.Logger
	metrics telemetry.Recorder

	mounted  bool
	unlisten []func()
}

// New creates an unmounted layer for node.
func New(doc *dom.Document, registry *Registry, node *dom.Element, opts ...Option) (*Layer, error) {
	switch {
	case doc == nil:
		return nil, ErrNoDocument
	case registry == nil:
		return nil, ErrNoRegistry
	case node == nil:
		return nil, ErrNoNode
	}
	l := &Layer{
		doc:                         doc,
		registry:                    registry,
		node:                        node,
		disableOutsidePointerEvents: true,
		logger:                      zap.NewNop(),
		metrics:                     telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Node returns the element treated as inside the layer.
func (l *Layer) Node() *dom.Element { return l.node }

// Mounted reports whether the layer is registered and listening.
func (l *Layer) Mounted() bool { return l.mounted }

// Topmost reports whether this layer currently handles outside events.
func (l *Layer) Topmost() bool {
	return l.mounted && l.registry.IsTopmost(l.node)
}

// Mount registers the node and starts listening. Mounting twice is a no-op.
func (l *Layer) Mount() {
	if l.mounted {
		return
	}
	l.mounted = true
	l.unlisten = append(l.unlisten,
		l.doc.AddEventListener(dom.EventPointerDown, l.handlePointerDown, dom.Capture()),
		l.doc.AddEventListener(dom.EventFocusIn, l.handleFocusIn),
		l.doc.AddEventListener(dom.EventKeyDown, l.handleKeyDown),
	)
	l.registry.Add(l.node)
	l.logger.Debug("dismissable layer mounted",
		zap.String("node", l.node.ID),
		zap.Int("layers", l.registry.Len()),
	)
}

// Unmount stops listening and deregisters the node.
func (l *Layer) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	for _, off := range l.unlisten {
		off()
	}
	l.unlisten = nil
	l.registry.Remove(l.node)
	l.logger.Debug("dismissable layer unmounted",
		zap.String("node", l.node.ID),
		zap.Int("layers", l.registry.Len()),
	)
}

func (l *Layer) handlePointerDown(ev *dom.Event) {
	if !l.active(ev) || l.node.Contains(ev.Target) || !l.disableOutsidePointerEvents {
		return
	}
	call(l.onPointerDownOutside, ev)
	call(l.onInteractOutside, ev)
	if !ev.DefaultPrevented() {
		l.dismiss(ev, telemetry.ReasonPointer)
	}
}

// handleFocusIn treats focus landing anywhere under the node's direct parent
// as inside.
func (l *Layer) handleFocusIn(ev *dom.Event) {
	if !l.active(ev) {
		return
	}
	if l.node.Contains(ev.Target) {
		return
	}
	if parent := l.node.Parent(); parent != nil && parent.Contains(ev.Target) {
		return
	}
	call(l.onFocusOutside, ev)
	call(l.onInteractOutside, ev)
	if !ev.DefaultPrevented() {
		l.dismiss(ev, telemetry.ReasonFocus)
	}
}

func (l *Layer) handleKeyDown(ev *dom.Event) {
	if ev.Key != "Escape" || !l.active(ev) {
		return
	}
	call(l.onEscapeKeyDown, ev)
	if ev.DefaultPrevented() {
		return
	}
	ev.PreventDefault()
	l.dismiss(ev, telemetry.ReasonEscape)
}

func (l *Layer) active(ev *dom.Event) bool {
	return l.Topmost() && !l.registry.alreadyDismissed(ev)
}

func (l *Layer) dismiss(ev *dom.Event, reason string) {
	l.registry.markDismissed(ev)
	l.metrics.Dismissed(reason)
	l.logger.Debug("dismissing layer", zap.String("node", l.node.ID), zap.String("reason", reason))
	if l.onDismiss != nil {
		l.onDismiss()
	}
}

func call(h dom.Handler, ev *dom.Event) {
	if h != nil {
		h(ev)
	}
}
