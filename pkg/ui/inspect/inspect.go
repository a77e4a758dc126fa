// Package inspect renders a document's element tree as text, one row per
// element, marking the focused element and interaction state.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/odvcencio/overui/pkg/ui/dom"
)

// stateAttrs are shown in this order when present.
var stateAttrs = []string{
	"aria-checked",
	"aria-selected",
	"aria-pressed",
	"aria-expanded",
	"data-state",
}

// Options controls what Rows includes and how Render styles it.
type Options struct {
	// ShowHidden includes elements that are not rendered.
	ShowHidden bool
	// Plain disables styling.
	Plain bool
	// Color styles output even when the writer is not a terminal.
	Color bool
	// Indent is the number of spaces per depth level. Defaults to 2.
	Indent int
}

// Row is one element in the rendered tree.
type Row struct {
	Element  *dom.Element
	Depth    int
	Label    string
	Active   bool
	Disabled bool
	Hidden   bool
}

// Rows walks the body of doc in document order. The body itself is not
// included.
func Rows(doc *dom.Document, opts Options) []Row {
	if doc == nil {
		return nil
	}
	active := doc.ActiveElement()
	var rows []Row
	var visit func(el *dom.Element, depth int)
	visit = func(el *dom.Element, depth int) {
		hidden := !el.Rendered()
		if hidden && !opts.ShowHidden {
			return
		}
		rows = append(rows, Row{
			Element:  el,
			Depth:    depth,
			Label:    Label(el),
			Active:   el == active,
			Disabled: el.Disabled,
			Hidden:   hidden,
		})
		for _, c := range el.Children() {
			visit(c, depth+1)
		}
	}
	for _, c := range doc.Body.Children() {
		visit(c, 0)
	}
	return rows
}

// Label describes el on one line, e.g.
// `button#save role=radio tabindex=0 aria-checked=true "Save"`.
func Label(el *dom.Element) string {
	var b strings.Builder
	b.WriteString(el.Tag)
	if el.ID != "" {
		b.WriteString("#" + el.ID)
	}
	role := el.Role
	if r, ok := el.Attr("role"); ok {
		role = r
	}
	if role != "" {
		b.WriteString(" role=" + role)
	}
	if el.HasTabIndex() {
		fmt.Fprintf(&b, " tabindex=%d", el.TabIndex())
	}
	for _, name := range stateAttrs {
		if v, ok := el.Attr(name); ok {
			fmt.Fprintf(&b, " %s=%s", name, v)
		}
	}
	if el.Disabled {
		b.WriteString(" disabled")
	}
	if el.Text != "" {
		fmt.Fprintf(&b, " %q", el.Text)
	}
	return b.String()
}

func (o Options) indent() int {
	if o.Indent <= 0 {
		return 2
	}
	return o.Indent
}

// Prefix returns the indentation and focus marker drawn before a row's
// label.
func (o Options) Prefix(r Row) string {
	marker := "  "
	if r.Active {
		marker = "> "
	}
	return strings.Repeat(" ", r.Depth*o.indent()) + marker
}

// Layout assigns each row's element a one-line bounds rectangle starting at
// (x, y), so pointer hit testing matches what Render draws.
func Layout(rows []Row, opts Options, x, y int) {
	for i, r := range rows {
		prefix := lipgloss.Width(opts.Prefix(r))
		r.Element.Bounds = dom.NewRect(x+prefix, y+i, lipgloss.Width(r.Label), 1)
	}
}

type styles struct {
	active, disabled, hidden lipgloss.Style
}

// renderer picks the color profile for w: Plain wins over Color, otherwise
// the profile is detected from w.
func (o Options) renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch {
	case o.Plain:
		r.SetColorProfile(termenv.Ascii)
	case o.Color:
		r.SetColorProfile(termenv.ANSI256)
	}
	return r
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		active: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Bold(true),
		disabled: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		hidden: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}).
			Italic(true),
	}
}

// Render returns the tree of doc, one row per line.
func Render(doc *dom.Document, opts Options) string {
	var b strings.Builder
	_ = Write(&b, doc, opts)
	return strings.TrimSuffix(b.String(), "\n")
}

// Write renders the tree of doc to w.
func Write(w io.Writer, doc *dom.Document, opts Options) error {
	st := newStyles(opts.renderer(w))
	for _, r := range Rows(doc, opts) {
		line := opts.Prefix(r) + st.render(r)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (st styles) render(r Row) string {
	switch {
	case r.Active:
		return st.active.Render(r.Label)
	case r.Hidden:
		return st.hidden.Render(r.Label)
	case r.Disabled:
		return st.disabled.Render(r.Label)
	default:
		return r.Label
	}
}
