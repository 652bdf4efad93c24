package sel

import (
	"context"
	"sync"
	"time"
)

// Chan is a FIFO channel that satisfies both RecvChan and SendChan.
//
// It differs from a native go channel in the ways the select engine needs:
// its guards can be try-locked from the outside, it can announce state
// changes to registered Listeners, and sending to it after Close returns
// ErrClosed rather than panicking.
//
// A Chan with capacity <= 0 is unbounded; sends never wait for space.
//
// The zero value is not usable; use NewChan.
type Chan[T any] struct {
	recvGuard sync.Mutex
	sendGuard sync.Mutex

	mu        sync.Mutex // protects everything below.
	buf       []T
	head      int
	capacity  int
	closed    bool
	changed   chan struct{} // closed and replaced on every state change.
	listeners map[Listener]struct{}
}

var (
	_ RecvChan[int] = (*Chan[int])(nil)
	_ SendChan[int] = (*Chan[int])(nil)
)

func NewChan[T any](capacity int) *Chan[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Chan[T]{
		capacity:  capacity,
		changed:   make(chan struct{}),
		listeners: make(map[Listener]struct{}),
	}
}

// Cap returns the capacity given to NewChan, or zero for an unbounded Chan.
func (c *Chan[T]) Cap() int {
	return c.capacity
}

// Len returns the number of buffered values.
func (c *Chan[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) - c.head
}

// Listeners returns the number of registered listeners.
func (c *Chan[T]) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

func (c *Chan[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close marks the channel closed.  Buffered values remain receivable through
// Receive and ReceiveNow, but a Selector's receive case sees only the closure.
// Closing an already closed Chan does nothing.
func (c *Chan[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.notifyLocked()
}

func (c *Chan[T]) AddListener(l Listener) {
	c.mu.Lock()
	c.listeners[l] = struct{}{}
	c.mu.Unlock()
}

func (c *Chan[T]) RemoveListener(l Listener) {
	c.mu.Lock()
	delete(c.listeners, l)
	c.mu.Unlock()
}

func (c *Chan[T]) TryLockReceive() bool { return c.recvGuard.TryLock() }
func (c *Chan[T]) UnlockReceive()       { c.recvGuard.Unlock() }
func (c *Chan[T]) TryLockSend() bool    { return c.sendGuard.TryLock() }
func (c *Chan[T]) UnlockSend()          { c.sendGuard.Unlock() }

func (c *Chan[T]) ReadyToReceive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) > c.head
}

// ReceiveNow dequeues the oldest value.  The bool is false if there was none.
func (c *Chan[T]) ReceiveNow() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dequeueLocked()
}

// TrySend enqueues v if there is room, waiting up to grace for room to appear.
func (c *Chan[T]) TrySend(v T, grace time.Duration) bool {
	var deadline *time.Timer
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return false
		}
		if c.hasRoomLocked() {
			c.enqueueLocked(v)
			c.mu.Unlock()
			if deadline != nil {
				deadline.Stop()
			}
			return true
		}
		changed := c.changed
		c.mu.Unlock()

		if grace <= 0 {
			return false
		}
		if deadline == nil {
			deadline = time.NewTimer(grace)
		}
		select {
		case <-changed:
		case <-deadline.C:
			return false
		}
	}
}

// Send enqueues v, waiting for room as long as it takes or until ctx is done.
// Sending to a closed Chan returns ErrClosed.
//
// Send takes the send guard only for the instant of each attempt,
// never while it waits.
func (c *Chan[T]) Send(ctx context.Context, v T) error {
	for {
		c.sendGuard.Lock()
		c.mu.Lock()
		switch {
		case c.closed:
			c.mu.Unlock()
			c.sendGuard.Unlock()
			return ErrClosed
		case c.hasRoomLocked():
			c.enqueueLocked(v)
			c.mu.Unlock()
			c.sendGuard.Unlock()
			return nil
		}
		changed := c.changed
		c.mu.Unlock()
		c.sendGuard.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Receive dequeues the oldest value, waiting for one as long as it takes or
// until ctx is done.  Once the Chan is closed and drained, Receive returns
// the zero value and false, the same as a receive from a closed go channel.
func (c *Chan[T]) Receive(ctx context.Context) (T, bool, error) {
	for {
		c.recvGuard.Lock()
		c.mu.Lock()
		if v, ok := c.dequeueLocked(); ok {
			c.mu.Unlock()
			c.recvGuard.Unlock()
			return v, true, nil
		}
		if c.closed {
			c.mu.Unlock()
			c.recvGuard.Unlock()
			var zero T
			return zero, false, nil
		}
		changed := c.changed
		c.mu.Unlock()
		c.recvGuard.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}
}

func (c *Chan[T]) hasRoomLocked() bool {
	return c.capacity == 0 || len(c.buf)-c.head < c.capacity
}

func (c *Chan[T]) enqueueLocked(v T) {
	c.buf = append(c.buf, v)
	c.notifyLocked()
}

func (c *Chan[T]) dequeueLocked() (T, bool) {
	var zero T
	if len(c.buf) == c.head {
		return zero, false
	}
	v := c.buf[c.head]
	c.buf[c.head] = zero
	c.head++
	// Compact once the dead prefix dominates, so the slice doesn't grow forever.
	if c.head == len(c.buf) {
		c.buf = c.buf[:0]
		c.head = 0
	} else if c.head > 32 && c.head*2 > len(c.buf) {
		n := copy(c.buf, c.buf[c.head:])
		for i := n; i < len(c.buf); i++ {
			c.buf[i] = zero
		}
		c.buf = c.buf[:n]
		c.head = 0
	}
	c.notifyLocked()
	return v, true
}

func (c *Chan[T]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
	for l := range c.listeners {
		l.Notify()
	}
}
