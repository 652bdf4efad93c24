package sel

import (
	"time"
)

// Case is one candidate operation of a select: a receive from a RecvChan or
// a send to a SendChan, with an optional followup callback.
//
// Cases are built with Recv, RecvAndThen, Send and SendAndThen, and handed to
// Selector.Case.  The interface is closed; it has behaviors beyond what its
// exported methods describe.
type Case interface {
	// Label returns the label given with Named, or "" if none was.
	Label() string

	// Named returns a copy of the Case carrying a label.
	// Labels only show up in diagnostics (logs, trace events, overdue reports).
	Named(label string) Case

	isSend() bool
	absent() bool
	listenable() Listenable

	// attempt tries the operation once without blocking on any guard.
	// If it completes, the callback has run (after the guard was released)
	// and its error is returned alongside fired == true.
	attempt(sendGrace time.Duration) (fired bool, err error)
}

// Recv makes a receive case that discards the value.
func Recv[T any](ch RecvChan[T]) Case {
	return RecvAndThen[T](ch, nil)
}

// RecvAndThen makes a receive case that hands the value to fn.
//
// ok is false when the channel is closed; v is then the zero value.
// Unlike `v, ok := <-ch` on a go channel, a closed channel is ready with the
// absent value straight away, even if values are still buffered in it.
// Use Chan.Receive or Chan.ReceiveNow to drain those.
// A nil ch makes a case that is dropped when it is registered, which lets
// callers switch cases off by passing a nil channel.
func RecvAndThen[T any](ch RecvChan[T], fn func(v T, ok bool) error) Case {
	if isNilChannel(ch) {
		ch = nil
	}
	return &recvCase[T]{ch: ch, fn: fn}
}

// Send makes a send case.
func Send[T any](ch SendChan[T], v T) Case {
	return SendAndThen[T](ch, v, nil)
}

// SendAndThen makes a send case that calls fn after v has been enqueued.
// As with RecvAndThen, a nil ch makes a case that is dropped on registration.
func SendAndThen[T any](ch SendChan[T], v T, fn func() error) Case {
	if isNilChannel(ch) {
		ch = nil
	}
	return &sendCase[T]{ch: ch, v: v, fn: fn}
}

type recvCase[T any] struct {
	ch    RecvChan[T]
	label string
	fn    func(T, bool) error
}

func (c *recvCase[T]) Label() string { return c.label }

func (c *recvCase[T]) Named(label string) Case {
	c2 := *c
	c2.label = label
	return &c2
}

func (c *recvCase[T]) isSend() bool           { return false }
func (c *recvCase[T]) absent() bool           { return c.ch == nil }
func (c *recvCase[T]) listenable() Listenable { return c.ch }

func (c *recvCase[T]) attempt(time.Duration) (bool, error) {
	// Closure is terminal, so this needs no guard.  Anything still
	// buffered in a closed channel is not delivered by a select.
	if c.ch.IsClosed() {
		var zero T
		return true, c.followup(zero, false)
	}
	if !c.ch.TryLockReceive() {
		return false, nil
	}
	if !c.ch.ReadyToReceive() {
		c.ch.UnlockReceive()
		return false, nil
	}
	v, ok := c.ch.ReceiveNow()
	c.ch.UnlockReceive()
	if !ok {
		return false, nil
	}
	return true, c.followup(v, true)
}

func (c *recvCase[T]) followup(v T, ok bool) error {
	if c.fn == nil {
		return nil
	}
	return c.fn(v, ok)
}

type sendCase[T any] struct {
	ch    SendChan[T]
	v     T
	label string
	fn    func() error
}

func (c *sendCase[T]) Label() string { return c.label }

func (c *sendCase[T]) Named(label string) Case {
	c2 := *c
	c2.label = label
	return &c2
}

func (c *sendCase[T]) isSend() bool           { return true }
func (c *sendCase[T]) absent() bool           { return c.ch == nil }
func (c *sendCase[T]) listenable() Listenable { return c.ch }

func (c *sendCase[T]) attempt(grace time.Duration) (bool, error) {
	// Closure is terminal for sends; such a case can never fire.
	if c.ch.IsClosed() {
		return false, nil
	}
	if !c.ch.TryLockSend() {
		return false, nil
	}
	sent := c.ch.TrySend(c.v, grace)
	c.ch.UnlockSend()
	if !sent {
		return false, nil
	}
	if c.fn == nil {
		return true, nil
	}
	return true, c.fn()
}
