package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var got []Type

	done := make(chan struct{})
	bus.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Type)
		n := len(got)
		mu.Unlock()
		if n == 3 {
			close(done)
		}
	})

	bus.Publish(Event{Type: TaskAdded, TaskID: "a"})
	bus.Publish(Event{Type: TaskStarted, TaskID: "a"})
	bus.Publish(Event{Type: TaskCompleted, TaskID: "a"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for events")
	}

	mu.Lock()
	defer mu.Unlock()
	expected := []Type{TaskAdded, TaskStarted, TaskCompleted}
	for i, typ := range expected {
		if got[i] != typ {
			t.Errorf("Event %d = %s, expected %s", i, got[i], typ)
		}
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var mu sync.Mutex
	counts := make(map[int]int)
	done := make(chan struct{}, 2)

	for i := 0; i < 2; i++ {
		idx := i
		bus.Subscribe(func(ev Event) {
			mu.Lock()
			counts[idx]++
			mu.Unlock()
			done <- struct{}{}
		})
	}

	bus.Publish(Event{Type: TaskAdded, TaskID: "a"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for subscriber delivery")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < 2; i++ {
		if counts[i] != 1 {
			t.Errorf("Subscriber %d received %d events, expected 1", i, counts[i])
		}
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 1)
	bus.Subscribe(func(ev Event) {
		received <- ev
	})

	bus.Close()

	// Must not panic or block
	bus.Publish(Event{Type: TaskAdded, TaskID: "a"})

	select {
	case ev := <-received:
		t.Errorf("Received event %s after close", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}
