package primitives

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/listbox"
)

// SelectConfig configures a Select. Selected makes it controlled.
type SelectConfig struct {
	Multiple        bool
	Selected        *[]string
	DefaultSelected []string
	OnSelectChange  func([]string)
	DefaultOpen     bool
	Orientation     listbox.Orientation
	Name            string
}

// Select is a listbox of options opened from a trigger button. The options
// list is in the document only while open.
type Select struct {
	env    *Env
	el     *dom.Element
	input  *dom.Element
	store  *listbox.Store
	value  *Controlled[[]string]
	logger *zap.Logger

	trigger     *dom.Element
	placeholder string
	label       *dom.Element
	list        *dom.Element
	options     []*SelectOption
	mounted     bool
	outside     func()
	// initPending keeps re-running FOCUS Init as options register into an
	// open list, until another focus move happens.
	initPending bool
}

// SelectOption is one choice in a Select.
type SelectOption struct {
	sel        *Select
	el         *dom.Element
	value      string
	disabled   bool
	registered bool
}

// NewSelect creates a select with no parts.
func NewSelect(env *Env, cfg SelectConfig) (*Select, error) {
	if !env.valid() {
		return nil, missing("Select", "Env")
	}
	orientation := cfg.Orientation
	if orientation == "" {
		orientation = listbox.Orientation(env.config().Select.Orientation)
	}
	if orientation != listbox.Horizontal {
		orientation = listbox.Vertical
	}
	multiple := cfg.Multiple || env.config().Select.Multiple

	def := slices.Clone(cfg.DefaultSelected)
	if def == nil {
		def = []string{}
	}
	s := &Select{
		env:    env,
		el:     dom.NewElement("div"),
		logger: env.named("select"),
	}
	s.value = NewControlled(cfg.Selected, def, cfg.OnSelectChange)
	s.store = listbox.NewStore(listbox.State{
		Open:        cfg.DefaultOpen,
		Selected:    slices.Clone(s.value.Get()),
		Multiple:    multiple,
		Orientation: orientation,
	}, env.Doc,
		listbox.WithLogger(env.named("listbox")),
		listbox.WithMetrics(env.metrics()),
	)
	if cfg.Name != "" {
		s.input = dom.NewElement("input", dom.WithType("hidden"), dom.WithAttr("name", cfg.Name))
		s.el.AppendChild(s.input)
	}
	s.store.Subscribe(func(listbox.State) { s.sync() })
	s.el.OnDetach(func() {
		if s.store.State().Open {
			s.dispatch(listbox.CloseOptions{})
		}
	})
	return s, nil
}

// Element returns the root container.
func (s *Select) Element() *dom.Element { return s.el }

// State returns the current select state.
func (s *Select) State() listbox.State { return s.store.State() }

// Open reports whether the options list is shown.
func (s *Select) Open() bool { return s.store.State().Open }

// Selected returns the selected values.
func (s *Select) Selected() []string { return slices.Clone(s.store.State().Selected) }

// Trigger returns the trigger button, or nil before SelectTrigger.
func (s *Select) Trigger() *dom.Element { return s.trigger }

// Options returns the listbox element, or nil before SelectOptions.
func (s *Select) Options() *dom.Element { return s.list }

func (s *Select) dispatch(a listbox.Action) {
	if f, ok := a.(listbox.Focus); ok && f.Mode != listbox.FocusInit {
		s.initPending = false
	}
	if err := s.store.Dispatch(a); err != nil {
		s.logger.Error("select dispatch", zap.Error(err))
	}
}

// SetValue toggles value in the selection.
func (s *Select) SetValue(value string) {
	s.dispatch(listbox.SelectValue{Value: value})
	s.value.Set(slices.Clone(s.store.State().Selected))
}

// SetOpen opens or closes the options list.
func (s *Select) SetOpen(open bool) {
	if open {
		s.dispatch(listbox.OpenOptions{})
	} else {
		s.dispatch(listbox.CloseOptions{})
	}
}

func (s *Select) sync() {
	st := s.store.State()
	if s.trigger != nil {
		s.trigger.SetAttr("aria-expanded", boolAttr(st.Open))
		s.trigger.SetAttr("data-state", openState(st.Open))
		s.trigger.Text = s.triggerText(st)
		if s.label != nil {
			s.trigger.SetAttr("aria-labelledby", s.label.ID)
		}
	}
	if s.input != nil {
		s.input.SetAttr("value", strings.Join(st.Selected, ","))
	}
	if s.list != nil && st.LabelID != "" {
		s.list.SetAttr("aria-labelledby", st.LabelID)
	}
	for _, o := range s.options {
		o.sync(st)
	}

	switch {
	case st.Open && !s.mounted:
		s.mountList()
	case !st.Open && s.mounted:
		s.unmountList()
	}
}

func (s *Select) triggerText(st listbox.State) string {
	if len(st.Selected) == 0 {
		return s.placeholder
	}
	return strings.Join(st.Selected, ", ")
}

func (s *Select) mountList() {
	if s.list == nil {
		return
	}
	s.mounted = true
	if s.input != nil {
		s.el.InsertBefore(s.list, s.input)
	} else {
		s.el.AppendChild(s.list)
	}
	s.outside = s.env.Doc.AddEventListener(dom.EventClick, s.handleOutsideClick)
	for _, o := range s.options {
		o.register()
	}
	s.initPending = true
	s.dispatch(listbox.Focus{Mode: listbox.FocusInit})
}

func (s *Select) unmountList() {
	s.mounted = false
	s.initPending = false
	if s.outside != nil {
		s.outside()
		s.outside = nil
	}
	for _, o := range s.options {
		o.unregister()
	}
	s.list.Remove()
}

func (s *Select) handleOutsideClick(ev *dom.Event) {
	if s.list.Contains(ev.Target) || (s.trigger != nil && s.trigger.Contains(ev.Target)) {
		return
	}
	s.dispatch(listbox.CloseOptions{})
}

// SelectLabel builds the label naming s. A hidden label stays in the
// accessibility tree but is not rendered.
func SelectLabel(s *Select, text string, hidden bool) (*dom.Element, error) {
	if s == nil {
		return nil, missing("Select.Label", "Select.Root")
	}
	el := dom.NewElement("label", dom.WithID(dom.NewID("select-label")), dom.WithText(text))
	if hidden {
		el.Style.Visibility = dom.VisibilityHidden
	}
	s.label = el
	if children := s.el.Children(); len(children) > 0 {
		s.el.InsertBefore(el, children[0])
	} else {
		s.el.AppendChild(el)
	}
	s.dispatch(listbox.RegisterLabel{ID: el.ID})
	return el, nil
}

// SelectTrigger builds the combobox button that opens s. The placeholder
// shows while nothing is selected.
func SelectTrigger(s *Select, placeholder string) (*dom.Element, error) {
	if s == nil {
		return nil, missing("Select.Trigger", "Select.Root")
	}
	el := dom.NewElement("button", dom.WithID(dom.NewID("select-trigger")), dom.WithType("button"),
		dom.WithAttr("role", "combobox"),
		dom.WithAttr("aria-haspopup", "listbox"),
	)
	el.AddEventListener(dom.EventClick, func(*dom.Event) { s.dispatch(listbox.Toggle{}) })
	el.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Target != el {
			return
		}
		switch ev.Key {
		case "Enter", " ":
			ev.PreventDefault()
			s.dispatch(listbox.Toggle{})
		case "ArrowDown", "ArrowUp":
			s.dispatch(listbox.OpenOptions{})
		case "Escape":
			s.dispatch(listbox.CloseOptions{})
		}
	})
	s.trigger = el
	s.placeholder = placeholder
	switch {
	case s.mounted:
		s.el.InsertBefore(el, s.list)
	case s.input != nil:
		s.el.InsertBefore(el, s.input)
	default:
		s.el.AppendChild(el)
	}
	if s.list != nil {
		el.SetAttr("aria-controls", s.list.ID)
	}
	s.sync()
	return el, nil
}

// SelectOptions builds the listbox that holds the options of s.
func SelectOptions(s *Select) (*dom.Element, error) {
	if s == nil {
		return nil, missing("Select.Options", "Select.Root")
	}
	st := s.store.State()
	el := dom.NewElement("ul", dom.WithID(dom.NewID("select-options")), dom.WithTabIndex(0),
		dom.WithAttr("role", "listbox"),
		dom.WithAttr("aria-multiselectable", boolAttr(st.Multiple)),
		dom.WithAttr("aria-orientation", string(st.Orientation)),
	)
	el.AddEventListener(dom.EventKeyDown, s.handleListKeyDown)
	s.list = el
	if s.trigger != nil {
		s.trigger.SetAttr("aria-controls", el.ID)
	}
	s.sync()
	return el, nil
}

func (s *Select) handleListKeyDown(ev *dom.Event) {
	next, prev := "ArrowDown", "ArrowUp"
	if s.store.State().Orientation == listbox.Horizontal {
		next, prev = "ArrowRight", "ArrowLeft"
	}
	switch ev.Key {
	case "Home":
		s.dispatch(listbox.Focus{Mode: listbox.FocusFirst})
	case "End":
		s.dispatch(listbox.Focus{Mode: listbox.FocusLast})
	case next:
		s.dispatch(listbox.Focus{Mode: listbox.FocusNext})
	case prev:
		s.dispatch(listbox.Focus{Mode: listbox.FocusPrev})
	}
}

// NewSelectOption appends an option for value to the listbox of s. Options
// must be built after SelectOptions.
func NewSelectOption(s *Select, value, text string, disabled bool) (*SelectOption, error) {
	if s == nil {
		return nil, missing("Select.Option", "Select.Root")
	}
	if s.list == nil {
		return nil, missing("Select.Option", "Select.Options")
	}
	o := &SelectOption{
		sel:      s,
		value:    value,
		disabled: disabled,
		el: dom.NewElement("li", dom.WithID(dom.NewID("select-option")), dom.WithText(text),
			dom.WithAttr("role", "option"),
		),
	}
	o.el.AddEventListener(dom.EventClick, func(*dom.Event) { o.choose() })
	o.el.AddEventListener(dom.EventKeyDown, o.handleKeyDown)
	s.list.AppendChild(o.el)
	s.options = append(s.options, o)
	if s.mounted {
		o.register()
		if s.initPending {
			s.dispatch(listbox.Focus{Mode: listbox.FocusInit})
		}
	}
	o.sync(s.store.State())
	return o, nil
}

// Element returns the option element.
func (o *SelectOption) Element() *dom.Element { return o.el }

// Value returns the option's value.
func (o *SelectOption) Value() string { return o.value }

func (o *SelectOption) register() {
	if o.registered {
		return
	}
	o.registered = true
	o.sel.dispatch(listbox.RegisterOption{Key: o.value, Option: listbox.Option{
		ID:       o.el.ID,
		Value:    o.value,
		Disabled: o.disabled,
		Element:  o.el,
	}})
}

func (o *SelectOption) unregister() {
	if !o.registered {
		return
	}
	o.registered = false
	o.sel.dispatch(listbox.UnregisterOption{Key: o.value})
}

func (o *SelectOption) choose() {
	if o.disabled {
		return
	}
	s := o.sel
	s.SetValue(o.value)
	if !s.store.State().Multiple {
		s.dispatch(listbox.CloseOptions{})
	}
}

func (o *SelectOption) handleKeyDown(ev *dom.Event) {
	s := o.sel
	switch ev.Key {
	case "Enter", " ":
		ev.PreventDefault()
		ev.StopPropagation()
		o.choose()
		if !s.store.State().Multiple {
			s.env.Doc.Focus(s.trigger)
		}
	case "Tab":
		ev.PreventDefault()
	case "Escape":
		ev.StopPropagation()
		s.dispatch(listbox.CloseOptions{})
		s.env.Doc.Focus(s.trigger)
	}
}

func (o *SelectOption) sync(st listbox.State) {
	selected := st.IsSelected(o.value)
	o.el.SetAttr("aria-selected", boolAttr(selected))
	o.el.SetAttr("data-selected", boolAttr(selected))
	o.el.SetAttr("data-active", boolAttr(st.ActiveID == o.el.ID))
	o.el.SetAttr("data-disabled", boolAttr(o.disabled))
	if o.disabled {
		o.el.SetAttr("aria-disabled", "true")
	}
	if st.Open && !o.disabled {
		o.el.SetTabIndex(0)
	} else {
		o.el.RemoveTabIndex()
	}
}
