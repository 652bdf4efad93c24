package sel_test

import (
	"context"
	"fmt"

	"github.com/warpfork/go-sel"
)

// myTask is a very primitive example task.
type myTask struct {
	name string
}

// This is the method running in the task.
// (Pretend it doesn't have access to t.name, if you like.)
func (t myTask) Run(ctx context.Context) error {
	fmt.Printf("hi from task %v -- my path is %v, my selectors are named like %v :)\n",
		sel.ContextName(ctx),
		sel.ContextPath(ctx),
		sel.New(sel.ContextPath(ctx)).Case(sel.Recv[int](sel.NewChan[int](1)).Named("inbox")).Cases(),
	)
	return nil
}

// This method is how the task declares its name in the first place.
func (t myTask) Name() string {
	return t.name
}

// This example shows some user-defined Task implementation with custom names,
// and how to access the name of your task from Context objects,
// e.g. to name the Selectors the task uses.
func ExampleForkJoin_accessingTaskNames() {
	_ = sel.RunRoot(context.Background(),
		sel.ForkJoin("main",
			myTask{"one"},
			myTask{"two"},
			myTask{"three"},
		),
	)

	// Unordered Output:
	//
	// hi from task one -- my path is main/one, my selectors are named like [main/one::inbox] :)
	// hi from task two -- my path is main/two, my selectors are named like [main/two::inbox] :)
	// hi from task three -- my path is main/three, my selectors are named like [main/three::inbox] :)
}
