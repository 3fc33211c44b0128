// internal/hub/outbox.go
package hub

import "sync"

// Outbox is a per-client outbound queue. Any number of routing
// goroutines enqueue; only the owning session's write loop dequeues.
// The ring doubles its capacity when full instead of blocking.
type Outbox struct {
	mu       sync.Mutex
	buf      [][]byte
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	closed   bool
	ready    chan struct{}
}

// NewOutbox creates an outbox with the given initial capacity.
func NewOutbox(capacity int) *Outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Outbox{
		buf:      make([][]byte, capacity),
		capacity: capacity,
		ready:    make(chan struct{}, 1),
	}
}

// Enqueue appends a payload in FIFO order and wakes the consumer.
// Returns false once the outbox is closed; the payload is dropped.
func (o *Outbox) Enqueue(p []byte) bool {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	if o.count == o.capacity {
		o.grow()
	}
	o.buf[o.tail] = p
	o.tail = (o.tail + 1) % o.capacity
	o.count++
	o.mu.Unlock()
	o.notify()
	return true
}

// Dequeue removes and returns the oldest payload without blocking.
func (o *Outbox) Dequeue() ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.count == 0 {
		return nil, false
	}
	p := o.buf[o.head]
	o.buf[o.head] = nil // clear reference for GC
	o.head = (o.head + 1) % o.capacity
	o.count--
	return p, true
}

// Ready signals that payloads may be waiting or that the outbox was
// closed. The channel holds at most one pending token; a woken
// consumer drains with Dequeue until it returns false.
func (o *Outbox) Ready() <-chan struct{} {
	return o.ready
}

// Close marks the outbox closed and wakes the consumer. Payloads
// already queued stay dequeuable. Safe to call more than once.
func (o *Outbox) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.notify()
}

// Closed reports whether Close has been called.
func (o *Outbox) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// Len returns the number of queued payloads.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.count
}

func (o *Outbox) notify() {
	select {
	case o.ready <- struct{}{}:
	default:
	}
}

// grow doubles the capacity. Must be called with the lock held.
func (o *Outbox) grow() {
	newBuf := make([][]byte, o.capacity*2)
	if o.count > 0 {
		if o.head < o.tail {
			copy(newBuf, o.buf[o.head:o.tail])
		} else {
			n := copy(newBuf, o.buf[o.head:])
			copy(newBuf[n:], o.buf[:o.tail])
		}
	}
	o.buf = newBuf
	o.head = 0
	o.tail = o.count
	o.capacity *= 2
}
