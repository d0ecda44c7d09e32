package events

import "sync"

const defaultQueueSize = 256

// Bus fans events out to registered subscribers. Publish enqueues; a single
// dispatcher goroutine invokes subscribers in registration order, so each
// subscriber observes events in the order they were published.
type Bus struct {
	mu          sync.RWMutex
	subscribers []func(Event)

	queue chan Event
	done  chan struct{}
}

// NewBus creates a bus and starts its dispatcher goroutine.
func NewBus() *Bus {
	b := &Bus{
		queue: make(chan Event, defaultQueueSize),
		done:  make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Subscribe registers a callback for all events. Callbacks run on the
// dispatcher goroutine; long-running work should be handed off.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish enqueues an event for delivery. It blocks only if the dispatch
// queue is full. Publishing after Close is a no-op.
func (b *Bus) Publish(ev Event) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.queue <- ev:
	case <-b.done:
	}
}

// Close stops the dispatcher after draining already-queued events.
func (b *Bus) Close() {
	select {
	case <-b.done:
		return
	default:
	}
	close(b.done)
}

func (b *Bus) dispatch() {
	for {
		select {
		case ev := <-b.queue:
			b.deliver(ev)
		case <-b.done:
			// drain what was queued before Close
			for {
				select {
				case ev := <-b.queue:
					b.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(ev Event) {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
