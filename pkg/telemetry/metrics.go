// Package telemetry exposes prometheus metrics for the interaction engines.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "overui"

// Dismiss reasons.
const (
	ReasonEscape  = "escape"
	ReasonPointer = "pointer"
	ReasonFocus   = "focus"
)

// Recorder receives engine events. Implementations must be cheap; they are
// called inside event dispatch.
type Recorder interface {
	TrapDepth(depth int)
	TrapPushed()
	FocusRestored()
	Dismissed(reason string)
	RovingMoved(action string)
	SelectTransition(action string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) TrapDepth(int)           {}
func (Nop) TrapPushed()             {}
func (Nop) FocusRestored()          {}
func (Nop) Dismissed(string)        {}
func (Nop) RovingMoved(string)      {}
func (Nop) SelectTransition(string) {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Metrics is a prometheus-backed Recorder.
type Metrics struct {
	trapDepth     prometheus.Gauge
	trapPushes    prometheus.Counter
	focusRestores prometheus.Counter
	dismissals    *prometheus.CounterVec
	rovingMoves   *prometheus.CounterVec
	selectActions *prometheus.CounterVec
}

// NewMetrics registers the engine metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		trapDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "focus_trap_stack_depth",
			Help:      "Number of focus trap scopes currently on the stack.",
		}),
		trapPushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_trap_pushes_total",
			Help:      "Number of focus trap scopes pushed.",
		}),
		focusRestores: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_restores_total",
			Help:      "Number of times focus was restored after a trap unmounted.",
		}),
		dismissals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_dismissals_total",
			Help:      "Dismissable layer dismissals by triggering interaction.",
		}, []string{"reason"}),
		rovingMoves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roving_moves_total",
			Help:      "Roving focus navigations by action.",
		}, []string{"action"}),
		selectActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "select_transitions_total",
			Help:      "Select reducer transitions by action type.",
		}, []string{"action"}),
	}
}

func (m *Metrics) TrapDepth(depth int) {
	m.trapDepth.Set(float64(depth))
}

func (m *Metrics) TrapPushed() {
	m.trapPushes.Inc()
}

func (m *Metrics) FocusRestored() {
	m.focusRestores.Inc()
}

func (m *Metrics) Dismissed(reason string) {
	m.dismissals.WithLabelValues(reason).Inc()
}

func (m *Metrics) RovingMoved(action string) {
	m.rovingMoves.WithLabelValues(action).Inc()
}

func (m *Metrics) SelectTransition(action string) {
	m.selectActions.WithLabelValues(action).Inc()
}
