package sel

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectorUsed is the panic value when a Selector is terminated more
	// than once, or has cases added after it was terminated.
	ErrSelectorUsed = errors.New("sel: selector can only be terminated once")

	// ErrClosed is returned by Chan.Send when the channel has been closed.
	ErrClosed = errors.New("sel: send on closed channel")

	// ErrCancelled matches (via errors.Is) every error produced when a
	// BlockContext wait is abandoned because its context ended.
	ErrCancelled = errors.New("sel: select cancelled")

	// ErrStop may be returned by SteppedTask.RunStep to end the task cleanly.
	ErrStop = errors.New("sel: stop")
)

// CancelledError is returned by BlockContext when its context ends before
// any case fires.  It matches both ErrCancelled and the context's error.
type CancelledError struct {
	Selector string
	Cause    error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("sel: select %q cancelled: %v", e.Selector, e.Cause)
}

func (e *CancelledError) Unwrap() error { return e.Cause }

func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

// TaskPanicError is what ForkJoin reports for a child task that panicked.
type TaskPanicError struct {
	Task  string
	Value interface{}
	Stack []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("task %q panicked: %v", e.Task, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
