// Package buffer provides the unbounded queue behind revkit's streams.
package buffer

import (
	"sync"
)

// Unbounded provides non-blocking sends with unlimited buffering.
// Producers (the model callback) never wait for the consumer (the renderer).
//
// Usage:
//
//	buf := buffer.NewUnbounded[string]()
//	go func() {
//	    for item := range buf.Receive() {
//	        // Process item
//	    }
//	}()
//	buf.Send("a")  // Never blocks
//	buf.Close()    // Receive channel closes after "a" is drained
//
// Abort is the consumer's way out: it discards whatever is still queued and
// closes the receive channel even if nobody reads from it again.
type Unbounded[T any] struct {
	mu      sync.Mutex
	items   []T
	cond    *sync.Cond
	closed  bool
	aborted bool
	out     chan T
	abort   chan struct{}
}

// NewUnbounded creates a new unbounded buffer and starts its drain goroutine.
func NewUnbounded[T any]() *Unbounded[T] {
	b := &Unbounded[T]{
		items: make([]T, 0, 64),
		out:   make(chan T, 1),
		abort: make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	go b.drainLoop()
	return b
}

// drainLoop moves items from the queue to the output channel until the buffer
// is closed and empty, or aborted.
func (b *Unbounded[T]) drainLoop() {
	defer close(b.out)
	for {
		item, ok := b.dequeue()
		if !ok {
			return
		}
		select {
		case b.out <- item:
		case <-b.abort:
			return
		}
	}
}

// dequeue blocks until an item is available or the buffer is closed.
// Returns (zero, false) once the buffer is closed and empty, or aborted.
func (b *Unbounded[T]) dequeue() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.items) == 0 && !b.closed {
		b.cond.Wait()
	}

	var zero T
	if b.aborted || len(b.items) == 0 {
		return zero, false
	}

	item := b.items[0]
	b.items[0] = zero
	b.items = b.items[1:]
	return item, true
}

// Send adds an item to the buffer. It never blocks and is safe to call from any
// goroutine. Items sent after Close or Abort are silently ignored.
func (b *Unbounded[T]) Send(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.items = append(b.items, item)
	b.cond.Signal()
}

// Receive returns the channel that delivers items in send order.
func (b *Unbounded[T]) Receive() <-chan T {
	return b.out
}

// Close marks the buffer as closed. The receive channel closes after all
// pending items are drained. Safe to call multiple times.
func (b *Unbounded[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	b.cond.Signal()
}

// Abort closes the buffer and drops pending items. The receive channel closes
// promptly even when no consumer is reading. Safe to call multiple times and
// after Close.
func (b *Unbounded[T]) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.aborted {
		return
	}

	b.aborted = true
	b.closed = true
	b.items = nil
	close(b.abort)
	b.cond.Signal()
}

// Len returns the current number of queued items.
func (b *Unbounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IsClosed returns true if the buffer has been closed or aborted.
func (b *Unbounded[T]) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
