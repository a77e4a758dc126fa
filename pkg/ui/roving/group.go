package roving

import (
	"slices"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Orientation selects which arrow keys a Group answers to.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
	OrientationBoth       Orientation = "both"
)

// WithLoop controls whether a Group wraps past its first and last items.
func WithLoop(loop bool) Option {
	return func(s *settings) { s.loop = loop }
}

// WithOrientation limits a Group to one arrow-key axis.
func WithOrientation(o Orientation) Option {
	return func(s *settings) {
		switch o {
		case OrientationHorizontal, OrientationVertical, OrientationBoth:
			s.orientation = o
		}
	}
}

// Group is the roving variant used by radio and toggle groups. Adjacency
// comes from the items' DOM siblings rather than registration order, so
// items rendered conditionally land in the right place, and disabled items
// are skipped.
type Group struct {
	focus  FocusAdapter
	s      settings
	items  map[*dom.Element]Item
	onMove func(Item)
}

// NewGroup creates an empty group writing through focus. Loop defaults to
// true and both arrow axes are live.
func NewGroup(focus FocusAdapter, opts ...Option) *Group {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	return &Group{
		focus: focus,
		s:     s,
		items: make(map[*dom.Element]Item),
	}
}

// SetLoop changes wrapping.
func (g *Group) SetLoop(loop bool) { g.s.loop = loop }

// Loop reports whether navigation wraps.
func (g *Group) Loop() bool { return g.s.loop }

// OnMove sets the callback run after keyboard navigation lands on an item.
func (g *Group) OnMove(fn func(Item)) { g.onMove = fn }

// Register adds item, keyed by its element, and returns the func that
// removes it.
func (g *Group) Register(item Item) func() {
	el := item.Element
	if el == nil {
		return func() {}
	}
	g.items[el] = item
	el.SetTabIndex(-1)
	return func() { delete(g.items, el) }
}

// Update replaces the registered state of el, typically its Disabled flag.
func (g *Group) Update(item Item) {
	if _, ok := g.items[item.Element]; ok {
		g.items[item.Element] = item
	}
}

func (g *Group) eligible(el *dom.Element) bool {
	it, ok := g.items[el]
	return ok && !it.Disabled && !el.Disabled
}

// Items returns the registered items in document order.
func (g *Group) Items() []Item {
	if len(g.items) == 0 {
		return nil
	}
	var roots []*dom.Element
	for el := range g.items {
		if r := el.Root(); !slices.Contains(roots, r) {
			roots = append(roots, r)
		}
	}
	items := make([]Item, 0, len(g.items))
	for _, root := range roots {
		if it, ok := g.items[root]; ok {
			items = append(items, it)
		}
		root.Walk(func(el *dom.Element) bool {
			if it, ok := g.items[el]; ok {
				items = append(items, it)
			}
			return true
		})
	}
	return items
}

func (g *Group) action(key string) Action {
	horizontal := g.s.orientation != OrientationVertical
	vertical := g.s.orientation != OrientationHorizontal
	switch {
	case key == "ArrowRight" && horizontal, key == "ArrowDown" && vertical:
		return ActionNext
	case key == "ArrowLeft" && horizontal, key == "ArrowUp" && vertical:
		return ActionPrev
	case key == "Home":
		return ActionHome
	case key == "End":
		return ActionEnd
	}
	return ActionNone
}

// HandleKeyDown moves focus from the item that received ev to its
// neighbour. Non-item targets and unknown keys are ignored.
func (g *Group) HandleKeyDown(ev *dom.Event) {
	from := ev.Target
	if _, ok := g.items[from]; !ok || from.Parent() == nil {
		return
	}
	action := g.action(ev.Key)
	if action == ActionNone {
		return
	}

	siblings := from.Parent().Children()
	blocked := make([]bool, len(siblings))
	for i, el := range siblings {
		blocked[i] = !g.eligible(el)
	}
	at := slices.Index(siblings, from)

	target := -1
	switch action {
	case ActionNext:
		target = Step(blocked, at, 1, g.s.loop)
	case ActionPrev:
		target = Step(blocked, at, -1, g.s.loop)
	case ActionHome:
		target = Step(blocked, -1, 1, false)
	case ActionEnd:
		target = Step(blocked, len(blocked), -1, false)
	}
	ev.PreventDefault()
	if target < 0 || siblings[target] == from {
		return
	}

	next := siblings[target]
	makeUnfocusable(g.focus, from)
	makeFocusable(g.focus, next)
	g.s.metrics.RovingMoved(action.String())
	g.s.logger.Debug("roving focus moved",
		zap.Stringer("action", action),
		zap.String("value", g.items[next].Value),
	)
	if g.onMove != nil {
		g.onMove(g.items[next])
	}
}

// Sync restores the single-focusable state: the eligible item whose value
// is selected holds tab index 0, or the first eligible item when none is.
// It returns the item that holds it, or nil for an empty group.
func (g *Group) Sync(selected string) *dom.Element {
	items := g.Items()
	var holder *dom.Element
	for _, it := range items {
		if it.Value == selected && selected != "" && g.eligible(it.Element) {
			holder = it.Element
			break
		}
	}
	if holder == nil {
		for _, it := range items {
			if g.eligible(it.Element) {
				holder = it.Element
				break
			}
		}
	}
	for _, it := range items {
		if it.Element == holder {
			g.focus.SetTabIndex(it.Element, 0)
		} else {
			g.focus.SetTabIndex(it.Element, -1)
		}
	}
	return holder
}

// Focus makes the item with value the only focusable one and focuses it.
func (g *Group) Focus(value string) bool {
	for _, it := range g.Items() {
		if it.Value != value || !g.eligible(it.Element) {
			continue
		}
		g.Sync(value)
		g.focus.Focus(it.Element)
		return true
	}
	return false
}
