package roving

import (
	"slices"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Option configures a Controller or a Group.
type Option func(*settings)

type settings struct {
	logger      *zap.Logger
	metrics     telemetry.Recorder
	loop        bool
	orientation Orientation
}

func defaults() settings {
	return settings{
		logger:      zap.NewNop(),
		metrics:     telemetry.Nop{},
		loop:        true,
		orientation: OrientationBoth,
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r telemetry.Recorder) Option {
	return func(s *settings) { s.metrics = telemetry.OrNop(r) }
}

type registration struct {
	item Item
	gen  uint64
}

// Controller is the generic roving context. Items keep their registration
// order and navigation always wraps.
type Controller struct {
	focus FocusAdapter
	s     settings

	order []string
	items map[string]registration
	gen   uint64
}

// NewController creates an empty group writing through focus.
func NewController(focus FocusAdapter, opts ...Option) *Controller {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	return &Controller{
		focus: focus,
		s:     s,
		items: make(map[string]registration),
	}
}

// Register adds or replaces the item under id and returns the func that
// removes it. A replaced registration keeps its position, and a stale
// unregister func leaves the replacement alone.
func (c *Controller) Register(id string, item Item) func() {
	c.gen++
	gen := c.gen
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = registration{item: item, gen: gen}
	return func() {
		reg, ok := c.items[id]
		if !ok || reg.gen != gen {
			return
		}
		delete(c.items, id)
		c.order = slices.DeleteFunc(c.order, func(o string) bool { return o == id })
	}
}

// Len returns the number of registered items, disabled ones included.
func (c *Controller) Len() int { return len(c.order) }

// Items returns the non-disabled items in registration order.
func (c *Controller) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		if reg := c.items[id]; !reg.item.Disabled {
			items = append(items, reg.item)
		}
	}
	return items
}

func (c *Controller) indexOf(items []Item, el *dom.Element) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.Element == el })
}

// HandleKeyDown moves the roving item in response to a navigation key.
// Tab marks every item unfocusable so focus can leave the group.
func (c *Controller) HandleKeyDown(ev *dom.Event) {
	action := ActionForKey(ev.Key)
	if action == ActionNone {
		return
	}
	items := c.Items()
	if len(items) == 0 {
		return
	}
	current := c.indexOf(items, c.focus.ActiveElement())
	next, prev := Wrap(current, len(items))

	var target int
	switch action {
	case ActionNext:
		target = next
	case ActionPrev:
		target = prev
	case ActionHome:
		target = 0
	case ActionEnd:
		target = len(items) - 1
	case ActionClose:
		for _, it := range items {
			makeUnfocusable(c.focus, it.Element)
		}
		c.s.metrics.RovingMoved(action.String())
		return
	}

	if current >= 0 {
		makeUnfocusable(c.focus, items[current].Element)
	}
	makeFocusable(c.focus, items[target].Element)
	c.s.metrics.RovingMoved(action.String())
	c.s.logger.Debug("roving focus moved",
		zap.Stringer("action", action),
		zap.String("value", items[target].Value),
	)
}

// HandleFocus returns a focus handler for container. When the container
// itself receives focus, the item whose value is among selected() (or the
// first item) becomes the only focusable item and takes focus.
func (c *Controller) HandleFocus(container *dom.Element, selected func() []string) dom.Handler {
	return func(ev *dom.Event) {
		if ev.Target != container {
			return
		}
		items := c.Items()
		if len(items) == 0 {
			return
		}
		var values []string
		if selected != nil {
			values = selected()
		}
		idx := slices.IndexFunc(items, func(it Item) bool {
			return slices.Contains(values, it.Value)
		})
		if idx < 0 {
			idx = 0
		}
		for _, it := range items {
			makeUnfocusable(c.focus, it.Element)
		}
		makeFocusable(c.focus, items[idx].Element)
	}
}
