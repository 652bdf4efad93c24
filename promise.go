package sel

import (
	"context"
	"sync"
)

// Promise is a value that becomes available once, later.
//
// It is what Selector.Go hands back, but it is general purpose.
type Promise[T any] interface {
	// Await blocks until the promise is resolved or ctx ends,
	// and reports whether it was resolved.
	Await(ctx context.Context) bool

	// ResolvedCh returns a channel that is closed upon resolution.
	ResolvedCh() <-chan struct{}

	// WhenResolved calls fn once the promise is resolved: immediately, on
	// this goroutine, if it already is; otherwise on the resolving goroutine.
	WhenResolved(fn func())

	// ReportTo sends the promise itself to ch once resolved.
	// The send happens on a new goroutine, so a slow reader cannot stall
	// whoever resolves.
	ReportTo(ch chan<- Promise[T])

	// Value returns the resolved value, or the zero value if unresolved.
	Value() T

	IsResolved() bool
}

// NewPromise returns an unresolved promise and the function that resolves it.
// Resolving more than once panics.
func NewPromise[T any]() (Promise[T], func(T)) {
	p := &promise[T]{waitCh: make(chan struct{})}
	return p, p.resolve
}

type promise[T any] struct {
	mu       sync.Mutex
	resolved bool
	value    T
	waitCh   chan struct{}
	afterFns []func()
}

func (p *promise[T]) resolve(v T) {
	p.mu.Lock()
	if p.resolved {
		// i've been misused!  rage.
		p.mu.Unlock()
		panic("multiple resolve calls on Promise")
	}
	p.value = v
	p.resolved = true
	afterFns := p.afterFns
	p.afterFns = nil
	p.mu.Unlock()
	close(p.waitCh)
	for _, fn := range afterFns {
		fn()
	}
}

func (p *promise[T]) Await(ctx context.Context) bool {
	select {
	case <-p.waitCh:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *promise[T]) ResolvedCh() <-chan struct{} {
	return p.waitCh
}

func (p *promise[T]) WhenResolved(fn func()) {
	p.mu.Lock()
	if !p.resolved {
		p.afterFns = append(p.afterFns, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn()
}

func (p *promise[T]) ReportTo(ch chan<- Promise[T]) {
	p.WhenResolved(func() {
		go func() { ch <- p }()
	})
}

func (p *promise[T]) Value() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *promise[T]) IsResolved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved
}
