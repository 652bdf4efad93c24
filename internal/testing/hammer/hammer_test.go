package hammer

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordingT captures errors instead of failing the real test.
type recordingT struct {
	testing.TB
	mu   sync.Mutex
	errs []string
}

func (r *recordingT) Error(args ...interface{}) {
	r.mu.Lock()
	r.errs = append(r.errs, fmt.Sprint(args...))
	r.mu.Unlock()
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.Error(fmt.Sprintf(format, args...))
}

func (r *recordingT) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errs...)
}

func TestRunCountsEveryIteration(t *testing.T) {
	var calls int64
	rt := &recordingT{TB: t}
	NewHammer(rt, 4, 25, 10*time.Second).Run(func(p, n int) {
		atomic.AddInt64(&calls, 1)
	}, nil)
	require.Empty(t, rt.errors())
	require.Equal(t, int64(100), atomic.LoadInt64(&calls))
}

func TestRunReportsPanics(t *testing.T) {
	rt := &recordingT{TB: t}
	NewHammer(rt, 2, 3, 10*time.Second).Run(func(p, n int) {
		if p == 0 && n == 1 {
			panic("boom")
		}
	}, nil)
	require.Equal(t, []string{"boom"}, rt.errors())
}

func TestRunDropsPanicsAfterBudget(t *testing.T) {
	release := make(chan struct{})
	panicking := make(chan struct{})
	rt := &recordingT{TB: t}
	NewHammer(rt, 2, 1, 20*time.Millisecond).Run(func(p, n int) {
		if p != 0 {
			return
		}
		<-release
		close(panicking)
		panic("late")
	}, nil)

	errs := rt.errors()
	require.Len(t, errs, 1)
	require.True(t, strings.Contains(errs[0], "still running"), errs[0])

	close(release)
	<-panicking
	time.Sleep(20 * time.Millisecond)
	require.Len(t, rt.errors(), 1)
}
