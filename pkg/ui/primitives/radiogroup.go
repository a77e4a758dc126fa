package primitives

import (
	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/roving"
)

// RadioGroupConfig configures a RadioGroup. Value makes it controlled.
type RadioGroupConfig struct {
	Value         *string
	DefaultValue  string
	OnValueChange func(string)
	// Loop overrides the configured roving loop setting.
	Loop        *bool
	Disabled    bool
	Required    bool
	Name        string
	Orientation roving.Orientation
}

// RadioGroup is a set of radios of which at most one is checked. Exactly
// one radio is reachable with Tab; arrow keys move focus and check.
type RadioGroup struct {
	env      *Env
	el       *dom.Element
	value    *Controlled[string]
	group    *roving.Group
	disabled bool
	name     string
	radios   []*Radio
	logger   *zap.Logger
}

// Radio is one choice within a RadioGroup.
type Radio struct {
	group    *RadioGroup
	el       *dom.Element
	input     *dom.Element
	indicator *dom.Element
	value     string
	disabled  bool
	off       func()
}

// NewRadioGroup creates an empty group.
func NewRadioGroup(env *Env, cfg RadioGroupConfig) (*RadioGroup, error) {
	if !env.valid() {
		return nil, missing("RadioGroup", "Env")
	}
	loop := env.config().Roving.Loop
	if cfg.Loop != nil {
		loop = *cfg.Loop
	}
	orientation := cfg.Orientation
	if orientation == "" {
		orientation = roving.Orientation(env.config().Roving.Orientation)
	}

	g := &RadioGroup{
		env:      env,
		el:       dom.NewElement("div", dom.WithAttr("role", "radiogroup")),
		disabled: cfg.Disabled,
		name:     cfg.Name,
		logger:   env.named("radiogroup"),
	}
	g.value = NewControlled(cfg.Value, cfg.DefaultValue, cfg.OnValueChange)
	g.group = roving.NewGroup(env.Doc,
		roving.WithLoop(loop),
		roving.WithOrientation(orientation),
		roving.WithLogger(env.named("roving")),
		roving.WithMetrics(env.metrics()),
	)
	g.group.OnMove(func(it roving.Item) { g.check(it.Value) })
	g.el.SetAttr("aria-required", boolAttr(cfg.Required))
	if orientation != roving.OrientationBoth {
		g.el.SetAttr("aria-orientation", string(orientation))
	}
	g.el.AddEventListener(dom.EventKeyDown, g.group.HandleKeyDown)
	return g, nil
}

// Element returns the group container.
func (g *RadioGroup) Element() *dom.Element { return g.el }

// Value returns the checked value, or "" when none is.
func (g *RadioGroup) Value() string { return g.value.Get() }

// SetValue checks the radio with value.
func (g *RadioGroup) SetValue(value string) { g.check(value) }

// Radios returns the radios in creation order.
func (g *RadioGroup) Radios() []*Radio { return g.radios }

func (g *RadioGroup) check(value string) {
	if value == g.value.Get() {
		return
	}
	g.value.Set(value)
	g.Sync()
	g.logger.Debug("radio checked", zap.String("value", value))
}

// Sync refreshes every radio's state and restores the single tabbable
// radio. Call it after changing a controlled value.
func (g *RadioGroup) Sync() {
	value := g.value.Get()
	for _, r := range g.radios {
		r.sync(value == r.value)
	}
	g.group.Sync(value)
}

// NewRadio appends a radio for value to g.
func NewRadio(g *RadioGroup, value, label string, disabled bool) (*Radio, error) {
	if g == nil {
		return nil, missing("RadioGroup.Radio", "RadioGroup")
	}
	if value == "" {
		value = "on"
	}
	r := &Radio{
		group:    g,
		value:    value,
		disabled: disabled || g.disabled,
		el:       dom.NewElement("button", dom.WithType("button"), dom.WithText(label), dom.WithAttr("role", "radio"), dom.WithAttr("value", value)),
		input: dom.NewElement("input", dom.WithType("radio"), dom.WithTabIndex(-1),
			dom.WithAttr("aria-hidden", "true"),
			dom.WithAttr("value", value),
			dom.WithStyle(dom.Style{Visibility: dom.VisibilityHidden}),
		),
	}
	if g.name != "" {
		r.input.SetAttr("name", g.name)
	}
	r.el.AddEventListener(dom.EventClick, func(*dom.Event) {
		if !r.disabled {
			g.check(r.value)
		}
	})
	r.el.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		// Enter does not check a radio
		if ev.Key == "Enter" {
			ev.PreventDefault()
		}
	})

	g.el.AppendChild(r.el)
	g.el.AppendChild(r.input)
	g.radios = append(g.radios, r)
	r.off = g.group.Register(roving.Item{Element: r.el, Value: value, Disabled: r.disabled})
	g.Sync()
	return r, nil
}

// Element returns the radio button.
func (r *Radio) Element() *dom.Element { return r.el }

// Value returns the radio's value.
func (r *Radio) Value() string { return r.value }

// Checked reports whether this radio is the group's value.
func (r *Radio) Checked() bool { return r.group.value.Get() == r.value }

// SetDisabled enables or disables the radio.
func (r *Radio) SetDisabled(disabled bool) {
	r.disabled = disabled || r.group.disabled
	r.group.group.Update(roving.Item{Element: r.el, Value: r.value, Disabled: r.disabled})
	r.group.Sync()
}

// Remove detaches the radio from its group.
func (r *Radio) Remove() {
	r.off()
	r.el.Remove()
	r.input.Remove()
	g := r.group
	for i, cur := range g.radios {
		if cur == r {
			g.radios = append(g.radios[:i:i], g.radios[i+1:]...)
			break
		}
	}
	g.Sync()
}

func (r *Radio) sync(checked bool) {
	r.el.Disabled = r.disabled
	r.el.SetAttr("aria-checked", boolAttr(checked))
	if checked {
		r.el.SetAttr("data-state", "checked")
		r.input.SetAttr("checked", "")
	} else {
		r.el.SetAttr("data-state", "unchecked")
		r.input.RemoveAttr("checked")
	}
	if r.disabled {
		r.el.SetAttr("data-disabled", "")
	} else {
		r.el.RemoveAttr("data-disabled")
	}
	if r.indicator == nil {
		return
	}
	if r.disabled {
		r.indicator.SetAttr("data-disabled", "")
	} else {
		r.indicator.RemoveAttr("data-disabled")
	}
	switch {
	case checked && r.indicator.Parent() != r.el:
		r.el.AppendChild(r.indicator)
	case !checked:
		r.indicator.Remove()
	}
}

// RadioIndicator builds the mark shown inside r. It is a child of the radio
// only while r is checked.
func RadioIndicator(r *Radio) (*dom.Element, error) {
	if r == nil {
		return nil, missing("Radio.Indicator", "Radio")
	}
	if r.indicator != nil {
		r.indicator.Remove()
	}
	r.indicator = dom.NewElement("span", dom.WithAttr("data-state", "checked"))
	r.sync(r.Checked())
	return r.indicator, nil
}
