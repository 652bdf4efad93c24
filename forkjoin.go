package sel

import (
	"context"
	"runtime/debug"
	"sync/atomic"
)

// ForkJoin returns a task that, when run, runs all the given tasks
// concurrently and waits for them all to return.
//
// The first error from any child cancels the context of all the others and
// is what Run returns, once every child has returned.  A child that panics
// is reported as a *TaskPanicError instead of crashing the process.
// If the parent context is cancelled, the children are cancelled with it and
// Run returns the parent's error.
//
// The returned task can only be run once.
func ForkJoin(name string, tasks ...Task) NamedTask {
	return &forkJoin{name: name, tasks: bindTasks(tasks)}
}

// RunRoot runs a task as the root of a task tree, so that ContextPath in
// its descendants starts with its name.
func RunRoot(ctx context.Context, task Task) error {
	if nt, ok := task.(NamedTask); ok {
		ctx = appendCtxInfo(ctx, nt.Name())
	}
	return task.Run(ctx)
}

type forkJoin struct {
	name  string
	tasks []*boundTask
	ran   uint32
}

type reportMsg struct {
	task   *boundTask
	result error
}

func (fj *forkJoin) Name() string {
	return fj.name
}

func (fj *forkJoin) Run(parentCtx context.Context) error {
	if !atomic.CompareAndSwapUint32(&fj.ran, 0, 1) {
		panic("fork-join can only be Run() once!")
	}

	// Reports are buffered for every child, so no child ever waits on us.
	reportCh := NewChan[reportMsg](len(fj.tasks))
	groupCtx, groupCancel := context.WithCancel(parentCtx)
	defer groupCancel()

	for _, task := range fj.tasks {
		go childLaunch(groupCtx, reportCh, task)
	}

	// Watch reports.  While happy, also watch for the parent's cancel;
	// once unhappy, just drain so no child is left unaccounted for.
	var firstErr error
	for awaiting := len(fj.tasks); awaiting > 0; {
		watch := parentCtx
		if firstErr != nil {
			watch = context.Background()
		}
		var report reportMsg
		err := New(fj.name).
			Case(RecvAndThen[reportMsg](reportCh, func(m reportMsg, _ bool) error {
				report = m
				return nil
			}).Named("reports")).
			BlockContext(watch)
		if err != nil {
			firstErr = parentCtx.Err()
			groupCancel()
			continue
		}
		awaiting--
		if report.result != nil && firstErr == nil {
			firstErr = report.result
			groupCancel()
		}
	}
	return firstErr
}

// childLaunch is the first function on the child goroutine's stack.
// It handles context tree extension, panic capture, and reporting.
func childLaunch(groupCtx context.Context, report *Chan[reportMsg], task *boundTask) {
	var childErr error
	defer func() {
		if r := recover(); r != nil {
			childErr = &TaskPanicError{Task: task.name, Value: r, Stack: debug.Stack()}
		}
		_ = report.Send(context.Background(), reportMsg{task, childErr})
	}()
	childErr = task.original.Run(appendCtxInfo(groupCtx, task.name))
}
