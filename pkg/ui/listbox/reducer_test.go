package listbox

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

func mustReduce(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = Reduce(s, a)
		require.NoError(t, err, "action %s", a.Type())
	}
	return s
}

func register(values ...string) []Action {
	var out []Action
	for _, v := range values {
		out = append(out, RegisterOption{Key: v, Option: Option{ID: "opt-" + v, Value: v}})
	}
	return out
}

func TestOpenClose(t *testing.T) {
	s := mustReduce(t, State{}, Toggle{})
	assert.True(t, s.Open)
	s = mustReduce(t, s, Toggle{}, OpenOptions{})
	assert.True(t, s.Open)
	s = mustReduce(t, s, CloseOptions{})
	assert.False(t, s.Open)
}

func TestSingleSelection(t *testing.T) {
	s := mustReduce(t, State{}, SelectValue{Value: "a"}, SelectValue{Value: "b"})
	assert.Equal(t, []string{"b"}, s.Selected)

	s = mustReduce(t, s, SelectValue{Value: "b"})
	assert.Equal(t, []string{}, s.Selected)
}

func TestMultipleSelection(t *testing.T) {
	s := mustReduce(t, State{Multiple: true}, SelectValue{Value: "a"}, SelectValue{Value: "b"})
	assert.ElementsMatch(t, []string{"a", "b"}, s.Selected)

	s = mustReduce(t, s, SelectValue{Value: "a"})
	assert.Equal(t, []string{"b"}, s.Selected)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := State{Multiple: true, Selected: []string{"a", "b"}}
	before = mustReduce(t, before, register("x", "y")...)

	_, err := Reduce(before, SelectValue{Value: "a"})
	require.NoError(t, err)
	_, err = Reduce(before, UnregisterOption{Key: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, before.Selected)
	assert.Len(t, before.Options, 2)
}

func TestRegisterComputesPossible(t *testing.T) {
	s := mustReduce(t, State{}, register("apple", "orange")...)
	s = mustReduce(t, s, RegisterOption{Key: "banana", Option: Option{ID: "opt-banana", Value: "banana", Disabled: true}})
	assert.Len(t, s.Options, 3)
	assert.Len(t, s.Possible, 2)
	assert.Equal(t, "banana", s.Options[2].Key)

	// re-registering a key replaces it in place
	s = mustReduce(t, s, RegisterOption{Key: "banana", Option: Option{ID: "opt-banana", Value: "banana"}})
	assert.Len(t, s.Options, 3)
	assert.Len(t, s.Possible, 3)

	s = mustReduce(t, s, UnregisterOption{Key: "apple"})
	assert.Len(t, s.Options, 2)
	assert.Equal(t, "orange", s.Possible[0].Value)
}

func TestFocusModes(t *testing.T) {
	s := mustReduce(t, State{Open: true}, register("a", "b", "c")...)

	tests := []struct {
		mode FocusMode
		want string
	}{
		{FocusInit, "opt-a"},
		{FocusNext, "opt-b"},
		{FocusNext, "opt-c"},
		{FocusNext, "opt-c"},
		{FocusPrev, "opt-b"},
		{FocusFirst, "opt-a"},
		{FocusPrev, "opt-a"},
		{FocusLast, "opt-c"},
	}
	for _, tt := range tests {
		s = mustReduce(t, s, Focus{Mode: tt.mode})
		assert.Equal(t, tt.want, s.ActiveID, "after %s", tt.mode)
	}
}

func TestFocusInitPrefersSelectedAndNeedsOpen(t *testing.T) {
	s := mustReduce(t, State{Selected: []string{"b"}}, register("a", "b")...)
	s = mustReduce(t, s, Focus{Mode: FocusInit})
	assert.Empty(t, s.ActiveID)

	s = mustReduce(t, s, OpenOptions{}, Focus{Mode: FocusInit})
	assert.Equal(t, "opt-b", s.ActiveID)
}

func TestFocusWithoutOptionsIsNoOp(t *testing.T) {
	for _, mode := range []FocusMode{FocusInit, FocusNext, FocusPrev, FocusFirst, FocusLast} {
		s := mustReduce(t, State{Open: true}, Focus{Mode: mode})
		assert.Empty(t, s.ActiveID)
	}
}

func TestFocusPrevWithNothingActive(t *testing.T) {
	s := mustReduce(t, State{Open: true}, register("a", "b")...)
	s = mustReduce(t, s, Focus{Mode: FocusPrev})
	assert.Equal(t, "opt-b", s.ActiveID)
}

type bogus struct{}

func (bogus) Type() string { return "bogus" }

func TestUnknownAction(t *testing.T) {
	_, err := Reduce(State{}, bogus{})
	assert.ErrorIs(t, err, ErrUnknownAction)

	st := NewStore(State{}, nil)
	assert.ErrorIs(t, st.Dispatch(bogus{}), ErrUnknownAction)
}

func TestStoreFocusesActiveOption(t *testing.T) {
	doc := dom.NewDocument()
	list := dom.NewElement("ul")
	doc.Body.AppendChild(list)
	reg := prometheus.NewRegistry()
	st := NewStore(State{Selected: []string{"orange"}}, doc, WithMetrics(telemetry.NewMetrics(reg)))
	assert.Equal(t, Vertical, st.State().Orientation)

	for _, v := range []string{"apple", "orange", "banana"} {
		el := dom.NewElement("li", dom.WithID("opt-"+v), dom.WithTabIndex(0))
		list.AppendChild(el)
		require.NoError(t, st.Dispatch(RegisterOption{Key: v, Option: Option{ID: el.ID, Value: v, Element: el}}))
	}

	var seen []State
	off := st.Subscribe(func(s State) { seen = append(seen, s) })

	require.NoError(t, st.Dispatch(OpenOptions{}))
	require.NoError(t, st.Dispatch(Focus{Mode: FocusInit}))
	assert.Equal(t, "opt-orange", doc.ActiveElement().ID)

	require.NoError(t, st.Dispatch(Focus{Mode: FocusNext}))
	assert.Equal(t, "opt-banana", doc.ActiveElement().ID)
	assert.Len(t, seen, 3)

	off()
	require.NoError(t, st.Dispatch(CloseOptions{}))
	assert.Len(t, seen, 3)

	count, err := testutil.GatherAndCount(reg, "overui_select_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "register, open, focus, close")
}
