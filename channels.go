package sel

import (
	"reflect"
	"time"
)

// Listener is something a channel pokes whenever its state changes in a way
// that could make a pending select case ready: a value was enqueued,
// space was freed, or the channel was closed.
//
// Notify must not block.  It is called with the channel's internal lock held.
type Listener interface {
	Notify()
}

// Listenable is the registration half of the channel contract.
// Adding the same Listener twice is the same as adding it once.
type Listenable interface {
	AddListener(Listener)
	RemoveListener(Listener)
}

// RecvChan is what a channel must offer for a Selector to receive from it.
//
// The receive guard is a per-direction mutual exclusion token: between a
// successful TryLockReceive and the matching UnlockReceive, nobody else may
// dequeue, so ReadyToReceive followed by ReceiveNow cannot be raced.
// ReceiveNow is only called under the guard, after ReadyToReceive said yes.
type RecvChan[T any] interface {
	Listenable
	IsClosed() bool
	TryLockReceive() bool
	UnlockReceive()
	ReadyToReceive() bool
	ReceiveNow() (T, bool)
}

// SendChan is what a channel must offer for a Selector to send to it.
//
// TrySend is called under the send guard and may wait at most grace for
// space to appear.  It reports false if the value was not enqueued,
// including when the channel is closed.
type SendChan[T any] interface {
	Listenable
	IsClosed() bool
	TryLockSend() bool
	UnlockSend()
	TrySend(v T, grace time.Duration) bool
}

// isNilChannel reports whether ch is nil, including typed nil pointers
// wrapped in the interface (the usual way a "disabled" case shows up).
func isNilChannel(ch interface{}) bool {
	if ch == nil {
		return true
	}
	rv := reflect.ValueOf(ch)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
