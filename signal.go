package sel

import (
	"context"
	"time"
)

// Signal is the wake handle a blocking select registers with its channels.
//
// Notifications coalesce: any number of Notify calls between two waits
// wake the waiter once.  That is all the waiter needs, since it re-polls
// every case after waking anyway.
type Signal struct {
	ch    chan struct{}
	timer *time.Timer
}

var _ Listener = (*Signal)(nil)

func newSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// wait parks until notified, the timeout lapses, or ctx ends.
// It reports whether a notification was consumed.
func (s *Signal) wait(ctx context.Context, timeout time.Duration) (notified bool, err error) {
	if s.timer == nil {
		s.timer = time.NewTimer(timeout)
	} else {
		s.timer.Reset(timeout)
	}
	select {
	case <-s.ch:
		s.stopTimer()
		return true, nil
	case <-s.timer.C:
		return false, nil
	case <-ctx.Done():
		s.stopTimer()
		return false, ctx.Err()
	}
}

// stopTimer stops the timer and drains it if it already fired,
// so the next Reset starts clean.
func (s *Signal) stopTimer() {
	if !s.timer.Stop() {
		select {
		case <-s.timer.C:
		default:
		}
	}
}

// release frees the timer.  The Signal must not be waited on afterwards.
func (s *Signal) release() {
	if s.timer != nil {
		s.stopTimer()
		s.timer = nil
	}
}
