package sel

import (
	"time"

	uuid "github.com/satori/go.uuid"
)

// EventKind enumerates the points at which a Tracer is called.
type EventKind uint8

const (
	EventBegin     EventKind = iota // a terminator was called.
	EventFired                      // a case completed; Case names it.
	EventDefaulted                  // no case was ready and the default path was taken.
	EventWait                       // a blocking select parked and timed out without a notification.
	EventOverdue                    // a blocking select has waited longer than Config.OverdueAfter.
	EventCancelled                  // BlockContext gave up because its context ended.
	EventEnd                        // teardown finished.
)

var eventKindNames = [...]string{
	EventBegin:     "begin",
	EventFired:     "fired",
	EventDefaulted: "defaulted",
	EventWait:      "wait",
	EventOverdue:   "overdue",
	EventCancelled: "cancelled",
	EventEnd:       "end",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is a single observation of a select invocation.
type Event struct {
	Invocation string // unique per terminator call.
	Selector   string
	Kind       EventKind
	Case       string // composed label of the case, for EventFired.
	Pass       int    // number of evaluation passes so far.
	Elapsed    time.Duration
}

// Tracer receives Events synchronously on the selecting goroutine.
// It must be safe for concurrent use if shared between Selectors,
// and it must not block.
type Tracer func(Event)

func newInvocationID() string {
	return uuid.NewV4().String()
}
