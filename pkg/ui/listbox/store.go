package listbox

import (
	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Focuser moves focus to an option element. *dom.Document implements it.
type Focuser interface {
	Focus(*dom.Element)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r telemetry.Recorder) StoreOption {
	return func(s *Store) { s.metrics = telemetry.OrNop(r) }
}

type subscriber struct {
	fn func(State)
}

// Store is the single dispatch point for a select. Every transition goes
// through Reduce; focus moves happen afterwards.
type Store struct {
	state   State
	focus   Focuser
	subs    []*subscriber
	logger  *zap.Logger
	metrics telemetry.Recorder
}

// NewStore creates a store starting at initial. focus may be nil when no
// document is attached.
func NewStore(initial State, focus Focuser, opts ...StoreOption) *Store {
	if initial.Orientation == "" {
		initial.Orientation = Vertical
	}
	if initial.Selected == nil {
		initial.Selected = []string{}
	}
	s := &Store{
		state:   initial,
		focus:   focus,
		logger:  zap.NewNop(),
		metrics: telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State { return s.state }

// Dispatch applies action. Focus actions move focus to the resulting
// active option. Subscribers run after the side effects.
func (s *Store) Dispatch(action Action) error {
	next, err := Reduce(s.state, action)
	if err != nil {
		s.logger.Warn("select dispatch rejected", zap.Error(err))
		return err
	}
	s.state = next
	s.metrics.SelectTransition(action.Type())

	if _, ok := action.(Focus); ok && s.focus != nil {
		if opt, ok := next.Active(); ok && opt.Element != nil {
			s.focus.Focus(opt.Element)
		}
	}
	s.logger.Debug("select transition",
		zap.String("action", action.Type()),
		zap.Bool("open", next.Open),
		zap.Strings("selected", next.Selected),
		zap.String("active", next.ActiveID),
	)

	for _, sub := range append([]*subscriber(nil), s.subs...) {
		sub.fn(next)
	}
	return nil
}

// Subscribe registers fn to run after every successful dispatch and
// returns the func that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	sub := &subscriber{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, cur := range s.subs {
			if cur == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
