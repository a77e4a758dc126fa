package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.TrapPushed()
	m.TrapPushed()
	m.TrapDepth(2)
	m.FocusRestored()
	m.Dismissed(ReasonEscape)
	m.Dismissed(ReasonPointer)
	m.Dismissed(ReasonPointer)
	m.RovingMoved("next")
	m.SelectTransition("TOGGLE")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.trapPushes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.trapDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.focusRestores))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dismissals.WithLabelValues(ReasonEscape)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dismissals.WithLabelValues(ReasonPointer)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rovingMoves.WithLabelValues("next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selectActions.WithLabelValues("TOGGLE")))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))

	m := NewMetrics(prometheus.NewRegistry())
	assert.Same(t, m, OrNop(m))

	// Nop must satisfy the interface without panicking.
	var r Recorder = Nop{}
	r.TrapDepth(1)
	r.Dismissed(ReasonFocus)
}
