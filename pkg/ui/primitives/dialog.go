package primitives

import (
	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/ui/dismiss"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/focustrap"
)

// DialogConfig configures a Dialog. Open makes it controlled.
type DialogConfig struct {
	Open         *bool
	DefaultOpen  bool
	OnOpenChange func(bool)
	// NonModal dialogs neither trap focus nor block outside pointer events.
	NonModal bool
	// Container receives the content while open. Defaults to the body.
	Container *dom.Element
}

// ContentConfig carries the outside-interaction hooks of a dialog's
// content. A hook may call PreventDefault to keep the dialog open.
type ContentConfig struct {
	OnEscapeKeyDown      dom.Handler
	OnPointerDownOutside dom.Handler
	OnFocusOutside       dom.Handler
	OnInteractOutside    dom.Handler
}

// Dialog is a window overlaid on the page. Its content exists in the
// document only while open.
type Dialog struct {
	env    *Env
	open   *Controlled[bool]
	modal  bool
	alert  bool
	host   *dom.Element
	logger *zap.Logger

	ContentID     string
	TitleID       string
	DescriptionID string

	triggers []*dom.Element
	overlay  *dom.Element
	content  *dialogContent
}

type dialogContent struct {
	wrapper *dom.Element
	panel   *dom.Element
	cfg     ContentConfig
	trap    *focustrap.Layer
	layer   *dismiss.Layer
	hidden  []hiddenAttr
}

// hiddenAttr remembers the aria-hidden value an element had before a modal
// dialog hid it.
type hiddenAttr struct {
	el    *dom.Element
	value string
	had   bool
}

// NewDialog creates a closed or open dialog bound to env.
func NewDialog(env *Env, cfg DialogConfig) (*Dialog, error) {
	if !env.valid() {
		return nil, missing("Dialog", "Env")
	}
	d := &Dialog{
		env:           env,
		modal:         !cfg.NonModal,
		host:          cfg.Container,
		logger:        env.named("dialog"),
		ContentID:     dom.NewID("dialog-content"),
		TitleID:       dom.NewID("dialog-title"),
		DescriptionID: dom.NewID("dialog-description"),
	}
	if d.host == nil {
		d.host = env.Doc.Body
	}
	d.open = NewControlled(cfg.Open, cfg.DefaultOpen, func(open bool) {
		if cfg.OnOpenChange != nil {
			cfg.OnOpenChange(open)
		}
	})
	return d, nil
}

// Open reports whether the dialog is open.
func (d *Dialog) Open() bool { return d.open.Get() }

// Modal reports whether the dialog traps focus.
func (d *Dialog) Modal() bool { return d.modal }

// SetOpen requests an open state change and applies it.
func (d *Dialog) SetOpen(open bool) {
	if open == d.open.Get() && !d.open.IsControlled() {
		return
	}
	d.open.Set(open)
	d.Sync()
}

// Toggle flips the open state.
func (d *Dialog) Toggle() { d.SetOpen(!d.open.Get()) }

// Content returns the dialog panel, or nil before DialogContent is built.
func (d *Dialog) Content() *dom.Element {
	if d.content == nil {
		return nil
	}
	return d.content.panel
}

// Sync mounts or unmounts the content to match the open state and
// refreshes trigger attributes. Call it after changing a controlled value.
func (d *Dialog) Sync() {
	open := d.open.Get()
	for _, t := range d.triggers {
		t.SetAttr("aria-expanded", boolAttr(open))
		t.SetAttr("data-state", openState(open))
	}
	if d.overlay != nil {
		d.overlay.SetAttr("data-state", openState(open))
	}
	if d.content == nil {
		return
	}
	d.content.panel.SetAttr("data-state", openState(open))
	if open {
		d.mountContent()
	} else {
		d.unmountContent()
	}
}

func (d *Dialog) mountContent() {
	c := d.content
	if c.wrapper.Parent() != nil {
		return
	}
	d.host.AppendChild(c.wrapper)
	if d.modal && d.overlay != nil {
		c.wrapper.InsertBefore(d.overlay, c.panel)
	}
	if d.modal {
		c.hidden = hideOthers(c.wrapper)
	}

	layerOpts := []dismiss.Option{
		dismiss.WithLogger(d.env.named("dismiss")),
		dismiss.WithMetrics(d.env.metrics()),
		dismiss.OnEscapeKeyDown(c.cfg.OnEscapeKeyDown),
		dismiss.OnDismiss(func() { d.SetOpen(false) }),
	}
	switch {
	case d.alert:
		layerOpts = append(layerOpts,
			dismiss.DisableOutsidePointerEvents(true),
			dismiss.OnPointerDownOutside(func(ev *dom.Event) { ev.PreventDefault() }),
			dismiss.OnFocusOutside(func(ev *dom.Event) {
				ev.PreventDefault()
				if c.cfg.OnFocusOutside != nil {
					c.cfg.OnFocusOutside(ev)
				}
			}),
			dismiss.OnInteractOutside(func(ev *dom.Event) { ev.PreventDefault() }),
		)
	case d.modal:
		layerOpts = append(layerOpts,
			dismiss.DisableOutsidePointerEvents(true),
			dismiss.OnPointerDownOutside(func(ev *dom.Event) {
				if ev.Button == dom.ButtonSecondary || (ev.Button == dom.ButtonPrimary && ev.Ctrl) {
					ev.PreventDefault()
				}
				if c.cfg.OnPointerDownOutside != nil {
					c.cfg.OnPointerDownOutside(ev)
				}
			}),
			dismiss.OnFocusOutside(func(ev *dom.Event) {
				ev.PreventDefault()
				if c.cfg.OnFocusOutside != nil {
					c.cfg.OnFocusOutside(ev)
				}
			}),
			dismiss.OnInteractOutside(c.cfg.OnInteractOutside),
		)
	default:
		layerOpts = append(layerOpts,
			dismiss.DisableOutsidePointerEvents(false),
			dismiss.OnPointerDownOutside(c.cfg.OnPointerDownOutside),
			dismiss.OnFocusOutside(c.cfg.OnFocusOutside),
			dismiss.OnInteractOutside(func(ev *dom.Event) {
				if c.cfg.OnInteractOutside != nil {
					c.cfg.OnInteractOutside(ev)
				}
				for _, t := range d.triggers {
					if t.Contains(ev.Target) {
						ev.PreventDefault()
					}
				}
			}),
		)
	}

	var err error
	c.layer, err = dismiss.New(d.env.Doc, d.env.Layers, c.panel, layerOpts...)
	if err != nil {
		d.logger.Warn("dialog dismiss layer", zap.Error(err))
		return
	}
	c.trap, err = focustrap.New(d.env.Doc, d.env.Traps, c.wrapper,
		focustrap.WithLoop(true),
		focustrap.WithTrapped(d.modal),
		focustrap.WithLogger(d.env.named("focustrap")),
		focustrap.WithMetrics(d.env.metrics()),
	)
	if err != nil {
		d.logger.Warn("dialog focus trap", zap.Error(err))
		return
	}
	c.layer.Mount()
	c.trap.Mount()
	d.logger.Debug("dialog opened", zap.String("content", d.ContentID), zap.Bool("modal", d.modal))
}

func (d *Dialog) unmountContent() {
	c := d.content
	if c.wrapper.Parent() == nil {
		return
	}
	if c.layer != nil {
		c.layer.Unmount()
		c.layer = nil
	}
	if c.trap != nil {
		c.trap.Unmount()
		c.trap = nil
	}
	restoreHidden(c.hidden)
	c.hidden = nil
	if d.overlay != nil {
		d.overlay.Remove()
	}
	c.wrapper.Remove()
	d.logger.Debug("dialog closed", zap.String("content", d.ContentID))
}

// hideOthers sets aria-hidden on every sibling of keep and of each of its
// ancestors, so only keep's branch stays exposed.
func hideOthers(keep *dom.Element) []hiddenAttr {
	var hidden []hiddenAttr
	for cur := keep; cur.Parent() != nil; cur = cur.Parent() {
		for _, sib := range cur.Parent().Children() {
			if sib == cur {
				continue
			}
			value, had := sib.Attr("aria-hidden")
			hidden = append(hidden, hiddenAttr{el: sib, value: value, had: had})
			sib.SetAttr("aria-hidden", "true")
		}
	}
	return hidden
}

func restoreHidden(hidden []hiddenAttr) {
	for _, h := range hidden {
		if h.had {
			h.el.SetAttr("aria-hidden", h.value)
		} else {
			h.el.RemoveAttr("aria-hidden")
		}
	}
}

// DialogTrigger builds the button that toggles d.
func DialogTrigger(d *Dialog, text string) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Trigger", "Dialog")
	}
	el := dom.NewElement("button", dom.WithType("button"), dom.WithText(text),
		dom.WithAttr("aria-haspopup", "dialog"),
		dom.WithAttr("aria-controls", d.ContentID),
	)
	el.AddEventListener(dom.EventClick, func(*dom.Event) { d.Toggle() })
	d.triggers = append(d.triggers, el)
	d.Sync()
	return el, nil
}

// DialogOverlay builds the backdrop placed behind a modal dialog's panel.
// It is in the document only while the dialog is open, and never for a
// non-modal dialog.
func DialogOverlay(d *Dialog) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Overlay", "Dialog")
	}
	if d.overlay != nil {
		d.overlay.Remove()
	}
	d.overlay = dom.NewElement("div", dom.WithAttr("data-state", openState(d.open.Get())))
	if d.content != nil && d.modal && d.content.wrapper.Parent() != nil {
		d.content.wrapper.InsertBefore(d.overlay, d.content.panel)
	}
	return d.overlay, nil
}

// DialogContent builds the panel holding children. It is placed in the
// container whenever the dialog opens.
func DialogContent(d *Dialog, cfg ContentConfig, children ...*dom.Element) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Content", "Dialog")
	}
	role := "dialog"
	if d.alert {
		role = "alertdialog"
	}
	panel := dom.NewElement("div", dom.WithID(d.ContentID), dom.WithChildren(children...),
		dom.WithAttr("role", role),
		dom.WithAttr("aria-labelledby", d.TitleID),
		dom.WithAttr("aria-describedby", d.DescriptionID),
	)
	if d.modal {
		panel.SetAttr("aria-modal", "true")
	}
	wrapper := dom.NewElement("div", dom.WithChildren(panel))
	if d.content != nil {
		d.unmountContent()
	}
	d.content = &dialogContent{wrapper: wrapper, panel: panel, cfg: cfg}
	d.Sync()
	return panel, nil
}

// DialogTitle builds the heading that labels d.
func DialogTitle(d *Dialog, text string) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Title", "Dialog")
	}
	return dom.NewElement("h2", dom.WithID(d.TitleID), dom.WithText(text)), nil
}

// DialogDescription builds the paragraph that describes d.
func DialogDescription(d *Dialog, text string) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Description", "Dialog")
	}
	return dom.NewElement("p", dom.WithID(d.DescriptionID), dom.WithText(text)), nil
}

// DialogClose builds a button that closes d.
func DialogClose(d *Dialog, text string) (*dom.Element, error) {
	if d == nil {
		return nil, missing("Dialog.Close", "Dialog")
	}
	el := dom.NewElement("button", dom.WithType("button"), dom.WithText(text))
	el.AddEventListener(dom.EventClick, func(*dom.Event) { d.SetOpen(false) })
	return el, nil
}
