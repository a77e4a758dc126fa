package main

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/primitives"
	"github.com/odvcencio/overui/pkg/ui/terminal"
)

// demo is the widget gallery shared by the run and inspect commands.
type demo struct {
	env    *primitives.Env
	page   *dom.Element
	dialog *primitives.Dialog
	alert  *primitives.Dialog
	radios *primitives.RadioGroup
	align  *primitives.ToggleGroup
	fruit  *primitives.Select
}

func buildDemo(env *primitives.Env) (*demo, error) {
	d := &demo{
		env:  env,
		page: dom.NewElement("main", dom.WithID("page")),
	}
	env.Doc.Body.AppendChild(d.page)

	steps := []func() error{d.buildDialog, d.buildRadios, d.buildToggles, d.buildSelect, d.buildAlert}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *demo) buildDialog() error {
	dlg, err := primitives.NewDialog(d.env, primitives.DialogConfig{
		OnOpenChange: func(open bool) {
			d.env.Logger.Info("profile dialog", zap.Bool("open", open))
		},
	})
	if err != nil {
		return err
	}
	trigger, err := primitives.DialogTrigger(dlg, "Edit profile")
	if err != nil {
		return err
	}
	title, err := primitives.DialogTitle(dlg, "Edit profile")
	if err != nil {
		return err
	}
	desc, err := primitives.DialogDescription(dlg, "Make changes to your profile.")
	if err != nil {
		return err
	}
	save, err := primitives.DialogClose(dlg, "Save")
	if err != nil {
		return err
	}
	cancel, err := primitives.DialogClose(dlg, "Cancel")
	if err != nil {
		return err
	}
	name := dom.NewElement("input", dom.WithID("profile-name"), dom.WithType("text"), dom.WithAttr("value", "Pedro Duarte"))
	if _, err := primitives.DialogContent(dlg, primitives.ContentConfig{}, title, desc, name, save, cancel); err != nil {
		return err
	}
	if _, err := primitives.DialogOverlay(dlg); err != nil {
		return err
	}
	d.dialog = dlg
	d.page.AppendChild(trigger)
	return nil
}

func (d *demo) buildRadios() error {
	g, err := primitives.NewRadioGroup(d.env, primitives.RadioGroupConfig{
		DefaultValue: "comfortable",
		Name:         "density",
	})
	if err != nil {
		return err
	}
	for _, v := range []string{"default", "comfortable", "compact"} {
		r, err := primitives.NewRadio(g, v, strings.ToUpper(v[:1])+v[1:], false)
		if err != nil {
			return err
		}
		if _, err := primitives.RadioIndicator(r); err != nil {
			return err
		}
	}
	d.radios = g
	d.page.AppendChild(g.Element())
	return nil
}

func (d *demo) buildToggles() error {
	g, err := primitives.NewToggleGroup(d.env, primitives.ToggleGroupConfig{DefaultValue: []string{"left"}})
	if err != nil {
		return err
	}
	for _, v := range []string{"left", "center", "right"} {
		if _, err := primitives.NewToggleGroupItem(g, v, "Align "+v, false); err != nil {
			return err
		}
	}
	d.align = g
	d.page.AppendChild(g.Element())
	return nil
}

func (d *demo) buildSelect() error {
	s, err := primitives.NewSelect(d.env, primitives.SelectConfig{Name: "fruit"})
	if err != nil {
		return err
	}
	if _, err := primitives.SelectLabel(s, "Fruit", false); err != nil {
		return err
	}
	if _, err := primitives.SelectTrigger(s, "Select a fruit..."); err != nil {
		return err
	}
	if _, err := primitives.SelectOptions(s); err != nil {
		return err
	}
	fruits := []struct {
		value    string
		disabled bool
	}{{"apple", false}, {"banana", false}, {"grape", true}, {"orange", false}}
	for _, f := range fruits {
		if _, err := primitives.NewSelectOption(s, f.value, f.value, f.disabled); err != nil {
			return err
		}
	}
	d.fruit = s
	d.page.AppendChild(s.Element())
	return nil
}

func (d *demo) buildAlert() error {
	dlg, err := primitives.NewAlertDialog(d.env, primitives.AlertDialogConfig{})
	if err != nil {
		return err
	}
	trigger, err := primitives.DialogTrigger(dlg, "Delete account")
	if err != nil {
		return err
	}
	title, err := primitives.DialogTitle(dlg, "Are you absolutely sure?")
	if err != nil {
		return err
	}
	cancel, err := primitives.AlertDialogCancel(dlg, "Cancel")
	if err != nil {
		return err
	}
	action, err := primitives.AlertDialogAction(dlg, "Yes, delete", func() {
		d.env.Logger.Warn("account deleted")
	})
	if err != nil {
		return err
	}
	if _, err := primitives.DialogContent(dlg, primitives.ContentConfig{}, title, cancel, action); err != nil {
		return err
	}
	d.alert = dlg
	d.page.AppendChild(trigger)
	return nil
}

// keyPress is one entry of a scripted key sequence.
type keyPress struct {
	name string
	mods dom.Mods
}

var errEmptyKey = errors.New("empty key name")

// parseKeys reads a comma separated list such as "Tab,Shift+Tab,Space,a".
// Modifiers are joined to the key name with '+'.
func parseKeys(s string) ([]keyPress, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []keyPress
	for _, raw := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(raw), "+")
		var kp keyPress
		for _, mod := range parts[:len(parts)-1] {
			switch strings.ToLower(mod) {
			case "shift":
				kp.mods.Shift = true
			case "alt":
				kp.mods.Alt = true
			case "ctrl":
				kp.mods.Ctrl = true
			case "meta":
				kp.mods.Meta = true
			default:
				return nil, fmt.Errorf("key %q: unknown modifier %q", raw, mod)
			}
		}
		name := parts[len(parts)-1]
		if strings.EqualFold(name, "space") {
			name = " "
		}
		if name == "" {
			return nil, fmt.Errorf("key %q: %w", raw, errEmptyKey)
		}
		if k, _ := terminal.KeyFromName(name); k == terminal.KeyNone {
			return nil, fmt.Errorf("key %q: unknown key name", raw)
		}
		kp.name = name
		out = append(out, kp)
	}
	return out, nil
}

// replay dispatches keys to the focused element in order.
func (d *demo) replay(keys []keyPress) {
	for _, k := range keys {
		d.env.Doc.KeyDown(k.name, k.mods)
		d.env.Logger.Debug("replayed key",
			zap.String("key", k.name),
			zap.String("active", d.env.Doc.ActiveElement().ID),
		)
	}
}
