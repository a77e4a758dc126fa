package primitives

import (
	"slices"
	"strings"

	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/roving"
)

// ToggleGroupConfig configures a ToggleGroup. Value makes it controlled.
type ToggleGroupConfig struct {
	Multiple      bool
	Value         *[]string
	DefaultValue  []string
	OnValueChange func([]string)
	Disabled      bool
	Name          string
}

// ToggleGroup is a set of toggles with single or multiple pressed values.
// The container is tabbable; focusing it hands focus to the pressed item.
type ToggleGroup struct {
	env      *Env
	el       *dom.Element
	input    *dom.Element
	value    *Controlled[[]string]
	roving   *roving.Controller
	multiple bool
	disabled bool
	items    []*ToggleGroupItem
}

// ToggleGroupItem is one toggle within a ToggleGroup.
type ToggleGroupItem struct {
	group   *ToggleGroup
	toggle  *Toggle
	value   string
	pressed bool
	off     func()
}

// NewToggleGroup creates an empty group.
func NewToggleGroup(env *Env, cfg ToggleGroupConfig) (*ToggleGroup, error) {
	if !env.valid() {
		return nil, missing("ToggleGroup", "Env")
	}
	def := slices.Clone(cfg.DefaultValue)
	if def == nil {
		def = []string{}
	}
	g := &ToggleGroup{
		env:      env,
		el:       dom.NewElement("div", dom.WithAttr("role", "group"), dom.WithTabIndex(0)),
		multiple: cfg.Multiple,
		disabled: cfg.Disabled,
	}
	g.value = NewControlled(cfg.Value, def, cfg.OnValueChange)
	g.roving = roving.NewController(env.Doc,
		roving.WithLogger(env.named("roving")),
		roving.WithMetrics(env.metrics()),
	)
	g.el.AddEventListener(dom.EventFocusIn, g.roving.HandleFocus(g.el, g.Value))
	g.el.AddEventListener(dom.EventKeyDown, g.roving.HandleKeyDown)
	if cfg.Name != "" {
		g.input = dom.NewElement("input", dom.WithType("hidden"), dom.WithAttr("name", cfg.Name))
		g.el.AppendChild(g.input)
	}
	g.Sync()
	return g, nil
}

// Element returns the group container.
func (g *ToggleGroup) Element() *dom.Element { return g.el }

// Value returns the pressed values.
func (g *ToggleGroup) Value() []string { return slices.Clone(g.value.Get()) }

// IsPressed reports whether value is pressed.
func (g *ToggleGroup) IsPressed(value string) bool {
	return slices.Contains(g.value.Get(), value)
}

// Items returns the items in creation order.
func (g *ToggleGroup) Items() []*ToggleGroupItem { return g.items }

func (g *ToggleGroup) press(value string) {
	if g.multiple {
		g.value.Set(append(g.Value(), value))
	} else {
		g.value.Set([]string{value})
	}
	g.Sync()
}

func (g *ToggleGroup) release(value string) {
	if g.multiple {
		g.value.Set(slices.DeleteFunc(g.Value(), func(v string) bool { return v == value }))
	} else {
		g.value.Set([]string{})
	}
	g.Sync()
}

// Sync refreshes every item. Call it after changing a controlled value.
func (g *ToggleGroup) Sync() {
	for _, it := range g.items {
		it.pressed = g.IsPressed(it.value)
		it.toggle.Sync()
		if !g.multiple {
			it.toggle.el.SetAttr("role", "radio")
			it.toggle.el.SetAttr("aria-checked", boolAttr(it.pressed))
		}
	}
	if g.input != nil {
		g.input.SetAttr("value", strings.Join(g.value.Get(), ","))
	}
}

// NewToggleGroupItem appends a toggle for value to g.
func NewToggleGroupItem(g *ToggleGroup, value, label string, disabled bool) (*ToggleGroupItem, error) {
	if g == nil {
		return nil, missing("ToggleGroup.Item", "ToggleGroup")
	}
	it := &ToggleGroupItem{group: g, value: value}
	it.pressed = g.IsPressed(value)
	unfocusable := -1
	it.toggle = NewToggle(ToggleConfig{
		Text:     label,
		Pressed:  &it.pressed,
		Disabled: disabled || g.disabled,
		TabIndex: &unfocusable,
		OnPressedChange: func(pressed bool) {
			if pressed {
				g.press(value)
			} else {
				g.release(value)
			}
		},
	})
	if g.input != nil {
		g.el.InsertBefore(it.toggle.el, g.input)
	} else {
		g.el.AppendChild(it.toggle.el)
	}
	g.items = append(g.items, it)
	it.off = g.roving.Register(dom.NewID("toggle"), roving.Item{
		Element:  it.toggle.el,
		Value:    value,
		Disabled: disabled || g.disabled,
	})
	g.Sync()
	return it, nil
}

// Element returns the item's button.
func (it *ToggleGroupItem) Element() *dom.Element { return it.toggle.el }

// Pressed reports whether the item is pressed.
func (it *ToggleGroupItem) Pressed() bool { return it.pressed }

// Remove detaches the item from its group.
func (it *ToggleGroupItem) Remove() {
	it.off()
	it.toggle.Close()
	it.toggle.el.Remove()
	g := it.group
	g.items = slices.DeleteFunc(g.items, func(cur *ToggleGroupItem) bool { return cur == it })
}
