package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Publish(Event{Type: EventTrapPushed})
	ev := receive(t, ch)
	assert.Equal(t, EventTrapPushed, ev.Type)
	assert.False(t, ev.Timestamp.IsZero(), "timestamp should be filled in")
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")
	assert.NotPanics(t, unsubscribe)
}

func TestHub_CloseStopsPublishing(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()
	hub.Close()
	hub.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventDismissed}) })

	late, _ := hub.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			hub.Publish(Event{Type: EventRovingMoved})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestHub_ConcurrentPublish(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(Event{Type: EventSelect})
		}()
	}
	wg.Wait()
	assert.Len(t, ch, 8)
}

func TestHubRecorder(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	r := hub.Recorder()
	r.Dismissed(ReasonEscape)
	r.TrapDepth(3)

	ev := receive(t, ch)
	assert.Equal(t, EventDismissed, ev.Type)
	assert.Equal(t, ReasonEscape, ev.Detail)
	ev = receive(t, ch)
	assert.Equal(t, EventTrapDepth, ev.Type)
	assert.Equal(t, "3", ev.Detail)
}

func TestTee(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	m := NewMetrics(prometheus.NewRegistry())
	r := Tee(m, nil, hub.Recorder())
	r.TrapPushed()
	r.SelectTransition("SELECT_VALUE")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.trapPushes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selectActions.WithLabelValues("SELECT_VALUE")))
	assert.Equal(t, EventTrapPushed, receive(t, ch).Type)
	assert.Equal(t, EventSelect, receive(t, ch).Type)
}
