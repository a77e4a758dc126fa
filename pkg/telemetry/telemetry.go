package telemetry

import (
	"strconv"
	"sync"
	"time"
)

// EventType identifies the kind of engine event.
type EventType string

const (
	EventTrapDepth     EventType = "trap.depth"
	EventTrapPushed    EventType = "trap.pushed"
	EventFocusRestored EventType = "trap.restored"
	EventDismissed     EventType = "layer.dismissed"
	EventRovingMoved   EventType = "roving.moved"
	EventSelect        EventType = "select.transition"
)

// Event describes one engine event for UIs that want to display activity.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Hub fans engine events out to any number of subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub constructs an event hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Publish notifies all subscribers of an event. Non-blocking; drops if a
// subscriber's buffer is full.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel that will receive future events and a cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, 64)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}

// Recorder returns a Recorder that publishes each call as an Event.
func (h *Hub) Recorder() Recorder {
	return hubRecorder{hub: h}
}

type hubRecorder struct {
	hub *Hub
}

func (r hubRecorder) TrapDepth(depth int) {
	r.hub.Publish(Event{Type: EventTrapDepth, Detail: strconv.Itoa(depth)})
}

func (r hubRecorder) TrapPushed() {
	r.hub.Publish(Event{Type: EventTrapPushed})
}

func (r hubRecorder) FocusRestored() {
	r.hub.Publish(Event{Type: EventFocusRestored})
}

func (r hubRecorder) Dismissed(reason string) {
	r.hub.Publish(Event{Type: EventDismissed, Detail: reason})
}

func (r hubRecorder) RovingMoved(action string) {
	r.hub.Publish(Event{Type: EventRovingMoved, Detail: action})
}

func (r hubRecorder) SelectTransition(action string) {
	r.hub.Publish(Event{Type: EventSelect, Detail: action})
}

// Tee fans each call out to every non-nil recorder.
func Tee(recorders ...Recorder) Recorder {
	var out tee
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type tee []Recorder

func (t tee) TrapDepth(depth int) {
	for _, r := range t {
		r.TrapDepth(depth)
	}
}

func (t tee) TrapPushed() {
	for _, r := range t {
		r.TrapPushed()
	}
}

func (t tee) FocusRestored() {
	for _, r := range t {
		r.FocusRestored()
	}
}

func (t tee) Dismissed(reason string) {
	for _, r := range t {
		r.Dismissed(reason)
	}
}

func (t tee) RovingMoved(action string) {
	for _, r := range t {
		r.RovingMoved(action)
	}
}

func (t tee) SelectTransition(action string) {
	for _, r := range t {
		r.SelectTransition(action)
	}
}
