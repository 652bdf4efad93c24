package sel

import (
	"context"
	"fmt"
)

// Task is an interface with one function: Run.  It's for running things,
// typically the producers and consumers on either side of a Selector.
//
// All concurrent functions take a context.Context -- this is is Go standard,
// and necessary for graceful concurrent halting, as well as a carrier for
// metadata like task tree name -- and may return an error.
type Task interface {
	Run(context.Context) error
}

// NamedTask implementers can specify a custom name string that ForkJoin will
// attach to the context when launching the task.
//
// If this interface is not implemented by a Task, a name is generated from
// the task's position among its siblings.
type NamedTask interface {
	Task
	Name() string
}

// SteppedTask is a convenient alternative to Task which calls the RunStep
// method in a loop as long as the Context has not been cancelled.
// It's just here to save you about a dozen lines of very common boilerplate.
//
// RunStep returning ErrStop ends the loop without an error.
type SteppedTask interface {
	RunStep(context.Context) error
}

func TaskOfFunc(fn func(context.Context) error) Task {
	return simpleTask{fn}
}

func TaskOfSteppedTask(name string, t SteppedTask) NamedTask {
	return steppedTask{t, name}
}

func NamedTaskOfFunc(name string, fn func(context.Context) error) NamedTask {
	return namedTask{simpleTask{fn}, name}
}

type simpleTask struct {
	fn func(context.Context) error
}

func (t simpleTask) Run(ctx context.Context) error { return t.fn(ctx) }

type namedTask struct {
	simpleTask
	name string
}

func (t namedTask) Name() string { return t.name }

type steppedTask struct {
	t    SteppedTask
	name string
}

func (t steppedTask) Name() string { return t.name }

func (t steppedTask) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch err := t.t.RunStep(ctx); err {
		case nil:
		case ErrStop:
			return nil
		default:
			return err
		}
	}
}

// boundTask is a Task with its name settled once, at the time it is handed
// to ForkJoin.  It is always used as a pointer; the address is its identity.
type boundTask struct {
	original Task
	name     string
}

func bindTasks(original []Task) []*boundTask {
	v := make([]*boundTask, len(original))
	for i, o := range original {
		t := &boundTask{original: o}
		switch o2 := o.(type) {
		case NamedTask:
			t.name = o2.Name()
		default:
			t.name = fmt.Sprintf("task-%d", i)
		}
		v[i] = t
	}
	return v
}
