package events

import "sync"

// Bus is a buffered single-consumer event channel.
// Publish never blocks: when the consumer lags, the oldest event is dropped.
type Bus struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewBus creates a bus with the given buffer size.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{ch: make(chan Event, size)}
}

// Publish enqueues an event, dropping the oldest on overflow.
func (b *Bus) Publish(e Eventer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	ev := e.ToEvent()
	for {
		select {
		case b.ch <- ev:
			return
		default:
			select {
			case <-b.ch:
			default:
			}
		}
	}
}

// Events returns the consumer channel.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Close closes the bus. Publish after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}
