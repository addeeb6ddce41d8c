package notify

import (
	"context"
	"sync"
)

// Inbox is a thread-safe FIFO of notifications.
//
// The inbox is unbounded so the read loop never blocks on a slow consumer.
// It uses a buffered signal channel so consumers can wait with a context.
type Inbox struct {
	mu     sync.Mutex
	items  []Notification
	closed bool
	signal chan struct{} // buffered, size 1
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{
		items:  make([]Notification, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Push appends n. Returns false if the inbox is closed.
func (q *Inbox) Push(n Notification) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, n)

	// buffer of 1 coalesces signals
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryPop removes and returns the oldest notification without blocking.
func (q *Inbox) TryPop() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Notification{}, false
	}
	n := q.items[0]
	q.items[0] = Notification{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return n, true
}

// Next blocks until a notification is available, the inbox is closed and
// drained (ErrClosed), or ctx is done.
func (q *Inbox) Next(ctx context.Context) (Notification, error) {
	for {
		if n, ok := q.TryPop(); ok {
			return n, nil
		}
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Notification{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return Notification{}, ctx.Err()
		case <-q.signal:
		}
	}
}

// Drain removes and returns everything queued.
func (q *Inbox) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}

// Len returns the number of queued notifications.
func (q *Inbox) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting notifications and wakes blocked consumers.
// Already queued notifications can still be read.
func (q *Inbox) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
