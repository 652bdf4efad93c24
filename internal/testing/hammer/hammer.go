// Package hammer runs a test body from many goroutines at once, released
// together, to shake out races and deadlocks between selects.
package hammer

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Hammer invokes a test concurrently in P goroutines N times per goroutine.
//
// Here's an example:
//
//	P := 8               // max count of goroutines
//	N := 1000            // work per goroutine
//	if testing.Short() { // Adjust down if `-test.short`
//		P = 4
//		N = 100
//	}
//
//	hammer.NewHammer(t, P, N, 10*time.Second).Run(func(p, n int) {
//		// select over shared channels; panic (not t.Fatal) to fail
//	}, nil)
//
//	if t.Failed() {
//		return // At least one test failed, so return now.
//	}
type Hammer interface {
	// Run invokes test concurrently in P goroutines, each looping N times.
	// onRunning, if non-nil, runs after all goroutines are started but
	// before any of them is released.
	//
	// If the goroutines have not all finished within the budget given to
	// NewHammer, the test fails (rather than hanging) and Run returns.
	// Panics in test are reported by Run itself, on the test goroutine;
	// those from goroutines still running after Run returns are dropped.
	Run(test func(p, n int), onRunning func())
}

// NewHammer returns a Hammer for P goroutines doing N iterations each,
// which must all finish within budget.
func NewHammer(t testing.TB, P, N int, budget time.Duration) Hammer {
	return &hammer{t: t, P: P, N: N, budget: budget}
}

type hammer struct {
	t      testing.TB
	P      int
	N      int
	budget time.Duration

	mu       sync.Mutex
	failures []string
	reported bool
}

// fail records a worker panic.  Nothing reaches h.t from a worker goroutine.
func (h *hammer) fail(recovered interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.reported {
		h.failures = append(h.failures, fmt.Sprint(recovered))
	}
}

// report hands the recorded failures to h.t and stops recording.
func (h *hammer) report() {
	h.mu.Lock()
	failures := h.failures
	h.failures, h.reported = nil, true
	h.mu.Unlock()
	for _, f := range failures {
		h.t.Error(f)
	}
}

func (h *hammer) Run(test func(p, n int), onRunning func()) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(h.P / 2)) // Ensure goroutines have to switch cores.

	running := make(chan int)
	// unblock needs to happen atomically, so we need to use a WaitGroup
	var unblocked sync.WaitGroup
	finished := make(chan int, h.P)

	unblocked.Add(h.P)
	for p := 0; p < h.P; p++ {
		p := p

		go func() {
			defer func() {
				if recovered := recover(); recovered != nil {
					h.fail(recovered)
				}
				finished <- 1
			}()
			running <- 1

			unblocked.Wait()
			for n := 0; n < h.N; n++ {
				test(p, n)
			}
		}()
	}

	for i := 0; i < h.P; i++ {
		<-running
	}

	if onRunning != nil {
		onRunning()
	}

	// Release all goroutines at the same time.
	unblocked.Add(-h.P)

	deadline := time.NewTimer(h.budget)
	defer deadline.Stop()
	defer h.report()
	for i := 0; i < h.P; i++ {
		select {
		case <-finished:
		case <-deadline.C:
			h.t.Errorf("hammer: %d of %d goroutines still running after %s", h.P-i, h.P, h.budget)
			return
		}
	}
}
