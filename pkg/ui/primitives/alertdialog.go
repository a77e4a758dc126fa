package primitives

import (
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// AlertDialogConfig configures an AlertDialog.
type AlertDialogConfig struct {
	Open         *bool
	DefaultOpen  bool
	OnOpenChange func(bool)
	Container    *dom.Element
}

// NewAlertDialog creates a modal dialog that outside pointer interaction
// never dismisses. It closes through Escape, Cancel or Action only.
func NewAlertDialog(env *Env, cfg AlertDialogConfig) (*Dialog, error) {
	if !env.valid() {
		return nil, missing("AlertDialog", "Env")
	}
	d, err := NewDialog(env, DialogConfig{
		Open:         cfg.Open,
		DefaultOpen:  cfg.DefaultOpen,
		OnOpenChange: cfg.OnOpenChange,
		Container:    cfg.Container,
	})
	if err != nil {
		return nil, err
	}
	d.alert = true
	d.logger = env.named("alertdialog")
	return d, nil
}

// AlertDialogCancel builds the button that closes d without acting.
func AlertDialogCancel(d *Dialog, text string) (*dom.Element, error) {
	if d == nil || !d.alert {
		return nil, missing("AlertDialog.Cancel", "AlertDialog")
	}
	return DialogClose(d, text)
}

// AlertDialogAction builds the button that runs action and closes d.
func AlertDialogAction(d *Dialog, text string, action func()) (*dom.Element, error) {
	if d == nil || !d.alert {
		return nil, missing("AlertDialog.Action", "AlertDialog")
	}
	el := dom.NewElement("button", dom.WithType("button"), dom.WithText(text))
	el.AddEventListener(dom.EventClick, func(*dom.Event) {
		if action != nil {
			action()
		}
		d.SetOpen(false)
	})
	return el, nil
}
