package dismiss

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

func TestRegistryTopmost(t *testing.T) {
	r := NewRegistry()
	a := dom.NewElement("div")
	b := dom.NewElement("div")

	assert.False(t, r.IsTopmost(a))
	r.Add(a)
	r.Add(b)
	r.Add(a)
	assert.Equal(t, []*dom.Element{a, b}, r.Layers())
	assert.True(t, r.IsTopmost(b))
	assert.False(t, r.IsTopmost(a))

	r.Remove(b)
	assert.True(t, r.IsTopmost(a))
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.IsTopmost(nil))
}

func TestNewValidatesArguments(t *testing.T) {
	doc := dom.NewDocument()
	_, err := New(nil, NewRegistry(), dom.NewElement("div"))
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = New(doc, nil, dom.NewElement("div"))
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = New(doc, NewRegistry(), nil)
	assert.ErrorIs(t, err, ErrNoNode)
}

type recorder struct {
	calls []string
}

func (r *recorder) options(prefix string) []Option {
	return []Option{
		OnEscapeKeyDown(func(*dom.Event) { r.calls = append(r.calls, prefix+"escape") }),
		OnPointerDownOutside(func(*dom.Event) { r.calls = append(r.calls, prefix+"pointer") }),
		OnFocusOutside(func(*dom.Event) { r.calls = append(r.calls, prefix+"focus") }),
		OnInteractOutside(func(*dom.Event) { r.calls = append(r.calls, prefix+"interact") }),
		OnDismiss(func() { r.calls = append(r.calls, prefix+"dismiss") }),
	}
}

type fixture struct {
	doc *dom.Document
	// outside is focusable; backdrop is not, so pressing it does not also
	// move focus.
	outside  *dom.Element
	backdrop *dom.Element
	inside   *dom.Element
	node     *dom.Element
}

func setup(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		doc:      dom.NewDocument(),
		outside:  dom.NewElement("button", dom.WithID("outside")),
		backdrop: dom.NewElement("p", dom.WithID("backdrop")),
		inside:   dom.NewElement("button", dom.WithID("inside")),
	}
	f.node = dom.NewElement("div", dom.WithID("layer"), dom.WithChildren(f.inside))
	f.doc.Body.AppendChild(f.outside)
	f.doc.Body.AppendChild(f.backdrop)
	f.doc.Body.AppendChild(dom.NewElement("section", dom.WithChildren(f.node)))
	return f
}

func TestPointerDownOutsideDismisses(t *testing.T) {
	f := setup(t)
	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, rec.options("")...)
	require.NoError(t, err)
	l.Mount()

	f.doc.PointerDown(f.inside, dom.ButtonPrimary, dom.Mods{})
	assert.Empty(t, rec.calls)

	f.doc.PointerDown(f.backdrop, dom.ButtonPrimary, dom.Mods{})
	assert.Equal(t, []string{"pointer", "interact", "dismiss"}, rec.calls)
}

func TestPointerDownOnFocusableOutsideAlsoReportsFocus(t *testing.T) {
	f := setup(t)
	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, rec.options("")...)
	require.NoError(t, err)
	l.Mount()

	f.doc.PointerDown(f.outside, dom.ButtonPrimary, dom.Mods{})
	assert.Equal(t, []string{
		"pointer", "interact", "dismiss",
		"focus", "interact", "dismiss",
	}, rec.calls)
}

func TestPointerDownOutsidePreventedKeepsLayer(t *testing.T) {
	f := setup(t)
	dismissed := false
	l, err := New(f.doc, NewRegistry(), f.node,
		OnInteractOutside(func(ev *dom.Event) { ev.PreventDefault() }),
		OnDismiss(func() { dismissed = true }),
	)
	require.NoError(t, err)
	l.Mount()

	f.doc.PointerDown(f.backdrop, dom.ButtonPrimary, dom.Mods{})
	assert.False(t, dismissed)
}

func TestOutsidePointerEventsCanBeIgnored(t *testing.T) {
	f := setup(t)
	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, append(rec.options(""), DisableOutsidePointerEvents(false))...)
	require.NoError(t, err)
	l.Mount()

	f.doc.PointerDown(f.backdrop, dom.ButtonPrimary, dom.Mods{})
	assert.Empty(t, rec.calls)
}

func TestPointerDownRunsBeforeElementHandlers(t *testing.T) {
	f := setup(t)
	var order []string
	f.backdrop.AddEventListener(dom.EventPointerDown, func(*dom.Event) { order = append(order, "element") })
	l, err := New(f.doc, NewRegistry(), f.node, OnDismiss(func() { order = append(order, "dismiss") }))
	require.NoError(t, err)
	l.Mount()

	f.doc.PointerDown(f.backdrop, dom.ButtonPrimary, dom.Mods{})
	assert.Equal(t, []string{"dismiss", "element"}, order)
}

func TestFocusOutsideDismisses(t *testing.T) {
	f := setup(t)
	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, rec.options("")...)
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.inside)
	assert.Empty(t, rec.calls)

	f.doc.Focus(f.outside)
	assert.Equal(t, []string{"focus", "interact", "dismiss"}, rec.calls)
}

func TestFocusOnParentSubtreeIsInside(t *testing.T) {
	f := setup(t)
	sibling := dom.NewElement("button", dom.WithID("sibling"))
	f.node.Parent().AppendChild(sibling)

	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, rec.options("")...)
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(sibling)
	assert.Empty(t, rec.calls)
}

func TestEscapeDismisses(t *testing.T) {
	f := setup(t)
	rec := &recorder{}
	l, err := New(f.doc, NewRegistry(), f.node, rec.options("")...)
	require.NoError(t, err)
	l.Mount()

	f.doc.KeyDown("a", dom.Mods{})
	assert.Empty(t, rec.calls)

	ev := f.doc.KeyDown("Escape", dom.Mods{})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []string{"escape", "dismiss"}, rec.calls)
}

func TestEscapePreventedKeepsLayer(t *testing.T) {
	f := setup(t)
	dismissed := false
	l, err := New(f.doc, NewRegistry(), f.node,
		OnEscapeKeyDown(func(ev *dom.Event) { ev.PreventDefault() }),
		OnDismiss(func() { dismissed = true }),
	)
	require.NoError(t, err)
	l.Mount()

	f.doc.KeyDown("Escape", dom.Mods{})
	assert.False(t, dismissed)
}

func TestMissingCallbacksAreNoOps(t *testing.T) {
	f := setup(t)
	l, err := New(f.doc, NewRegistry(), f.node)
	require.NoError(t, err)
	l.Mount()

	assert.NotPanics(t, func() {
		f.doc.PointerDown(f.outside, dom.ButtonPrimary, dom.Mods{})
		f.doc.Focus(f.inside)
		f.doc.KeyDown("Escape", dom.Mods{})
	})
}

func TestTopmostOnlyDismissal(t *testing.T) {
	doc := dom.NewDocument()
	outside := dom.NewElement("p", dom.WithID("outside"))
	innerNode := dom.NewElement("div", dom.WithID("b"))
	outerNode := dom.NewElement("div", dom.WithID("a"))
	doc.Body.AppendChild(outside)
	doc.Body.AppendChild(outerNode)
	doc.Body.AppendChild(innerNode)

	registry := NewRegistry()
	rec := &recorder{}
	var inner *Layer
	outer, err := New(doc, registry, outerNode, OnDismiss(func() { rec.calls = append(rec.calls, "A") }))
	require.NoError(t, err)
	inner, err = New(doc, registry, innerNode, OnDismiss(func() {
		rec.calls = append(rec.calls, "B")
		// closing synchronously must not hand the same event to A
		inner.Unmount()
	}))
	require.NoError(t, err)
	outer.Mount()
	inner.Mount()

	doc.PointerDown(outside, dom.ButtonPrimary, dom.Mods{})
	assert.Equal(t, []string{"B"}, rec.calls)
	assert.False(t, inner.Mounted())

	doc.PointerDown(outside, dom.ButtonPrimary, dom.Mods{})
	assert.Equal(t, []string{"B", "A"}, rec.calls)
}

func TestEscapeClosesOneLayerAtATime(t *testing.T) {
	doc := dom.NewDocument()
	outerNode := dom.NewElement("div")
	innerNode := dom.NewElement("div")
	doc.Body.AppendChild(outerNode)
	outerNode.AppendChild(innerNode)

	registry := NewRegistry()
	var closed []string
	var outer, inner *Layer
	outer, err := New(doc, registry, outerNode, OnDismiss(func() { closed = append(closed, "outer"); outer.Unmount() }))
	require.NoError(t, err)
	inner, err = New(doc, registry, innerNode, OnDismiss(func() { closed = append(closed, "inner"); inner.Unmount() }))
	require.NoError(t, err)
	outer.Mount()
	inner.Mount()

	doc.KeyDown("Escape", dom.Mods{})
	assert.Equal(t, []string{"inner"}, closed)
	doc.KeyDown("Escape", dom.Mods{})
	assert.Equal(t, []string{"inner", "outer"}, closed)
}

func TestRegistryForgetsDismissingEventWhenEmpty(t *testing.T) {
	doc := dom.NewDocument()
	outerNode := dom.NewElement("div")
	innerNode := dom.NewElement("div")
	doc.Body.AppendChild(outerNode)
	outerNode.AppendChild(innerNode)

	registry := NewRegistry()
	var outer, inner *Layer
	outer, err := New(doc, registry, outerNode, OnDismiss(func() { outer.Unmount() }))
	require.NoError(t, err)
	inner, err = New(doc, registry, innerNode, OnDismiss(func() { inner.Unmount() }))
	require.NoError(t, err)
	outer.Mount()
	inner.Mount()

	first := doc.KeyDown("Escape", dom.Mods{})
	assert.True(t, registry.alreadyDismissed(first), "guard holds while layers remain")

	doc.KeyDown("Escape", dom.Mods{})
	assert.Zero(t, registry.Len())
	assert.Nil(t, registry.dismissed)
}

func TestUnmountRemovesListeners(t *testing.T) {
	f := setup(t)
	registry := NewRegistry()
	l, err := New(f.doc, registry, f.node)
	require.NoError(t, err)

	l.Mount()
	l.Mount()
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, f.doc.ListenerCount(dom.EventPointerDown))

	l.Unmount()
	l.Unmount()
	assert.Zero(t, registry.Len())
	assert.Zero(t, f.doc.ListenerCount(dom.EventPointerDown))
	assert.Zero(t, f.doc.ListenerCount(dom.EventFocusIn))
	assert.Zero(t, f.doc.ListenerCount(dom.EventKeyDown))
}

func TestDismissalMetrics(t *testing.T) {
	f := setup(t)
	reg := prometheus.NewRegistry()
	l, err := New(f.doc, NewRegistry(), f.node, WithMetrics(telemetry.NewMetrics(reg)))
	require.NoError(t, err)
	l.Mount()

	f.doc.KeyDown("Escape", dom.Mods{})
	f.doc.PointerDown(f.outside, dom.ButtonPrimary, dom.Mods{})

	// escape, pointer, and focus (the press also focused the outside button)
	count, err := testutil.GatherAndCount(reg, "overui_layer_dismissals_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
