package focustrap

import (
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

func assertStackInvariant(t *testing.T, s *Stack) {
	t.Helper()
	scopes := s.Scopes()
	for i, sc := range scopes {
		if i == len(scopes)-1 {
			assert.False(t, sc.Paused(), "top scope must be active")
		} else {
			assert.True(t, sc.Paused(), "scope %d below top must be paused", i)
		}
	}
}

func TestStackAddPausesPrevious(t *testing.T) {
	s := NewStack()
	a, b := NewScope(), NewScope()

	s.Add(a)
	s.Add(b)
	assert.True(t, a.Paused())
	assert.False(t, b.Paused())
	assert.Equal(t, b, s.Top())

	s.Remove(b)
	assert.False(t, a.Paused())
	assert.Equal(t, 1, s.Len())
}

func TestStackReAddMovesToTop(t *testing.T) {
	s := NewStack()
	a, b := NewScope(), NewScope()
	s.Add(a)
	s.Add(b)
	s.Add(a)

	assert.Equal(t, []*Scope{b, a}, s.Scopes())
	assertStackInvariant(t, s)

	s.Add(a)
	assert.Equal(t, 2, s.Len())
	assert.False(t, a.Paused())
}

func TestStackRemoveNonTop(t *testing.T) {
	s := NewStack()
	a, b, c := NewScope(), NewScope(), NewScope()
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Remove(a)
	assert.Equal(t, []*Scope{b, c}, s.Scopes())
	assertStackInvariant(t, s)

	s.Remove(NewScope())
	assert.Equal(t, 2, s.Len())
}

func TestStackInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStack()
	pool := make([]*Scope, 6)
	for i := range pool {
		pool[i] = NewScope()
	}
	var lastAdded []*Scope

	for i := 0; i < 500; i++ {
		sc := pool[rng.Intn(len(pool))]
		if rng.Intn(2) == 0 {
			s.Add(sc)
			lastAdded = append(lastAdded, sc)
		} else {
			s.Remove(sc)
		}
		assertStackInvariant(t, s)

		// the top is the most recently added scope still present
		present := map[*Scope]bool{}
		for _, p := range s.Scopes() {
			present[p] = true
		}
		var want *Scope
		for j := len(lastAdded) - 1; j >= 0; j-- {
			if present[lastAdded[j]] {
				want = lastAdded[j]
				break
			}
		}
		assert.Equal(t, want, s.Top())
	}
}

type fixture struct {
	doc       *dom.Document
	outside   *dom.Element
	container *dom.Element
	first     *dom.Element
	middle    *dom.Element
	last      *dom.Element
}

func newFixture() fixture {
	doc := dom.NewDocument()
	f := fixture{
		doc:     doc,
		outside: dom.NewElement("button", dom.WithID("outside")),
		first:   dom.NewElement("input", dom.WithID("first")),
		middle:  dom.NewElement("button", dom.WithID("middle")),
		last:    dom.NewElement("button", dom.WithID("last")),
	}
	f.container = dom.NewElement("div", dom.WithID("container"), dom.WithChildren(f.first, f.middle, f.last))
	doc.Body.AppendChild(f.outside)
	doc.Body.AppendChild(f.container)
	doc.Focus(f.outside)
	return f
}

func TestNewValidatesArguments(t *testing.T) {
	doc := dom.NewDocument()
	el := dom.NewElement("div")

	_, err := New(nil, NewStack(), el)
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = New(doc, nil, el)
	assert.ErrorIs(t, err, ErrNoStack)
	_, err = New(doc, NewStack(), nil)
	assert.ErrorIs(t, err, ErrNoContainer)

	l, err := New(doc, NewStack(), el)
	require.NoError(t, err)
	assert.True(t, l.Trapped())
	assert.False(t, l.Loop())
	assert.Equal(t, -1, el.TabIndex())
}

func TestMountFocusesFirstAndSelects(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container)
	require.NoError(t, err)

	l.Mount()
	assert.Equal(t, f.first, f.doc.ActiveElement())
	assert.Equal(t, 1, f.first.SelectCount())
	assert.Equal(t, 1, f.doc.ListenerCount(dom.EventFocusIn))
	assert.Equal(t, 1, f.doc.ListenerCount(dom.EventKeyDown))
}

func TestMountKeepsFocusAlreadyInside(t *testing.T) {
	f := newFixture()
	f.doc.Focus(f.middle)
	l, err := New(f.doc, NewStack(), f.container)
	require.NoError(t, err)

	l.Mount()
	assert.Equal(t, f.middle, f.doc.ActiveElement())
}

func TestEmptyTrapFocusesContainerAndSwallowsTab(t *testing.T) {
	doc := dom.NewDocument()
	outside := dom.NewElement("button")
	container := dom.NewElement("div", dom.WithChildren(dom.NewElement("p")))
	doc.Body.AppendChild(outside)
	doc.Body.AppendChild(container)
	doc.Focus(outside)

	l, err := New(doc, NewStack(), container)
	require.NoError(t, err)
	l.Mount()
	require.Equal(t, container, doc.ActiveElement())

	ev := doc.KeyDown("Tab", dom.Mods{})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, container, doc.ActiveElement())

	doc.KeyDown("Tab", dom.Mods{Shift: true})
	assert.Equal(t, container, doc.ActiveElement())
}

func TestLoopWrap(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container, WithLoop(true))
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.last)
	ev := f.doc.KeyDown("Tab", dom.Mods{})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, f.first, f.doc.ActiveElement())

	ev = f.doc.KeyDown("Tab", dom.Mods{Shift: true})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, f.last, f.doc.ActiveElement())
}

func TestTabCyclesNeverLeavingContainer(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container, WithLoop(true))
	require.NoError(t, err)
	l.Mount()

	want := []*dom.Element{f.middle, f.last, f.first, f.middle, f.last, f.first}
	for i, el := range want {
		f.doc.KeyDown("Tab", dom.Mods{})
		require.Equal(t, el, f.doc.ActiveElement(), "tab #%d", i+1)
	}
}

func TestNoLoopStopsAtEdge(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container)
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.last)
	ev := f.doc.KeyDown("Tab", dom.Mods{})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, f.last, f.doc.ActiveElement())
}

func TestModifiedTabIsIgnored(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container, WithLoop(true))
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.last)
	ev := f.doc.KeyDown("Tab", dom.Mods{Ctrl: true})
	assert.False(t, ev.DefaultPrevented())
}

func TestFocusContainment(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container)
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.middle)
	for i := 0; i < 5; i++ {
		f.doc.Focus(f.outside)
		assert.True(t, f.container.Contains(f.doc.ActiveElement()))
		assert.Equal(t, f.middle, f.doc.ActiveElement())
	}
}

func TestUntrappedAllowsEscape(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container, WithTrapped(false))
	require.NoError(t, err)
	l.Mount()

	f.doc.Focus(f.outside)
	assert.Equal(t, f.outside, f.doc.ActiveElement())

	l.SetTrapped(true)
	f.doc.Focus(f.first)
	f.doc.Focus(f.outside)
	assert.Equal(t, f.first, f.doc.ActiveElement())
}

func TestUnmountRestoresFocusAndRemovesListeners(t *testing.T) {
	f := newFixture()
	stack := NewStack()
	l, err := New(f.doc, stack, f.container)
	require.NoError(t, err)

	l.Mount()
	l.Mount()
	assert.Equal(t, 1, stack.Len())

	l.Unmount()
	l.Unmount()
	assert.Equal(t, f.outside, f.doc.ActiveElement())
	assert.Zero(t, stack.Len())
	assert.Zero(t, f.doc.ListenerCount(dom.EventFocusIn))
	assert.Zero(t, f.doc.ListenerCount(dom.EventKeyDown))
}

func TestUnmountRestoresBodyWhenPreviousDetached(t *testing.T) {
	f := newFixture()
	l, err := New(f.doc, NewStack(), f.container)
	require.NoError(t, err)
	l.Mount()

	f.outside.Remove()
	l.Unmount()
	assert.Equal(t, f.doc.Body, f.doc.ActiveElement())
}

func TestNestedTrapsOnlyTopReacts(t *testing.T) {
	f := newFixture()
	stack := NewStack()
	outer, err := New(f.doc, stack, f.container, WithLoop(true))
	require.NoError(t, err)
	outer.Mount()

	innerBtn := dom.NewElement("button", dom.WithID("inner"))
	innerContainer := dom.NewElement("div", dom.WithChildren(innerBtn))
	f.container.AppendChild(innerContainer)

	inner, err := New(f.doc, stack, innerContainer)
	require.NoError(t, err)
	inner.Mount()
	assert.True(t, outer.Scope().Paused())
	assert.Equal(t, innerBtn, f.doc.ActiveElement())

	// outer is paused, so focus moving to an outer element is pulled back by inner only
	f.doc.Focus(f.middle)
	assert.Equal(t, innerBtn, f.doc.ActiveElement())

	inner.Unmount()
	assert.False(t, outer.Scope().Paused())
	assert.Equal(t, f.first, f.doc.ActiveElement())

	f.doc.Focus(f.outside)
	assert.True(t, f.container.Contains(f.doc.ActiveElement()))
}

func TestMetricsRecorded(t *testing.T) {
	f := newFixture()
	m := telemetry.NewMetrics(prometheus.NewRegistry())
	hub := telemetry.NewHub()
	defer hub.Close()
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	l, err := New(f.doc, NewStack(), f.container, WithMetrics(telemetry.Tee(m, hub.Recorder())))
	require.NoError(t, err)
	l.Mount()
	l.Unmount()

	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "overui_focus_trap_pushes_total")
	require.NoError(t, err)
	assert.Zero(t, count, "metrics go to the injected registry only")
	assert.Len(t, events, 4)
}
