package sel

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/warpfork/go-sel/log"
)

// Selector offers a form of "safe select" over Chan (or anything meeting
// RecvChan and SendChan), which has similar purpose to the native golang
// select feature: of a set of candidate sends and receives, exactly one that
// is ready is performed.
//
// Usage is a builder: add cases with Case, then call exactly one terminator
// (Default, Block, BlockContext or Go).  Calling a second terminator, or
// adding a case after the first, panics with ErrSelectorUsed.
//
// Evaluation order is fixed, not random: receive cases are tried before send
// cases, each in the order they were added.  Only one case fires per
// terminator call.  There is no fairness between separate Selectors
// contending for the same channel.
//
// Case callbacks run after the channel's guard has been released, so they
// may freely use the same channels again, including in nested Selectors.
// An error returned by a callback (or the default action) is returned by
// the terminator only after all teardown is done; a panic propagates after
// teardown too.
//
// A Selector is single use and not safe for concurrent use while building.
type Selector struct {
	name  string
	cfg   Config
	recvs []namedCase
	sends []namedCase
	phase uint32
}

type namedCase struct {
	Case
	name string
}

const (
	phase_building   = uint32(0)
	phase_terminated = uint32(1)
)

// New returns an empty Selector.  The name prefixes the labels of its
// cases in diagnostics; ContextName(ctx) is a reasonable thing to use.
func New(name string, opts ...Option) *Selector {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard
	}
	return &Selector{name: name, cfg: *cfg}
}

func (s *Selector) Name() string {
	return s.name
}

// Case adds cases, in order.  Cases built on a nil channel are dropped.
func (s *Selector) Case(cases ...Case) *Selector {
	if atomic.LoadUint32(&s.phase) != phase_building {
		panic(ErrSelectorUsed)
	}
	for _, c := range cases {
		if c == nil || c.absent() {
			continue
		}
		inner := c.Label()
		if inner == "" {
			inner = fmt.Sprintf("#%d", len(s.recvs)+len(s.sends))
		}
		if c.isSend() {
			s.sends = append(s.sends, namedCase{c, s.name + "::" + inner + "<-"})
		} else {
			s.recvs = append(s.recvs, namedCase{c, s.name + "::" + inner})
		}
	}
	return s
}

// Cases returns the composed labels of the registered cases in evaluation
// order.  Once a terminator has been called the list is empty; the cases
// belong to that call from then on, even while Go is still running.
func (s *Selector) Cases() []string {
	return caseNames(s.recvs, s.sends)
}

func caseNames(recvs, sends []namedCase) []string {
	names := make([]string, 0, len(recvs)+len(sends))
	for _, c := range recvs {
		names = append(names, c.name)
	}
	for _, c := range sends {
		names = append(names, c.name)
	}
	return names
}

// Default evaluates the cases once.  If none of them can proceed,
// action is run instead (if it is non-nil).  Default never parks;
// the most it waits is the send grace period of each full send case.
func (s *Selector) Default(action func() error) (err error) {
	inv := s.begin("default")
	outcome := outcomePanic
	defer func() { inv.finish(outcome) }()

	if fired, err := inv.poll(); fired {
		outcome = outcomeCase
		return err
	}
	if action == nil {
		outcome = outcomeNone
		return nil
	}
	inv.trace(EventDefaulted, "")
	err = action()
	outcome = outcomeDefault
	return err
}

// Block waits until one of the cases fires.  There is no way to interrupt it
// other than a channel becoming ready; see BlockContext for that.
func (s *Selector) Block() error {
	return s.BlockContext(context.Background())
}

// BlockContext waits until one of the cases fires or ctx ends.
// In the latter case the error is a *CancelledError, which matches both
// ErrCancelled and ctx.Err() under errors.Is.
//
// A Selector with no cases blocks until ctx ends, like `select {}`.
func (s *Selector) BlockContext(ctx context.Context) error {
	return s.begin("block").block(ctx)
}

// Go is BlockContext on a new goroutine.  The returned Promise resolves with
// what BlockContext returned.  A panicking callback doesn't take the
// process down; it resolves the Promise with a *TaskPanicError.
//
// Terminating twice is still detected right here, synchronously.
func (s *Selector) Go(ctx context.Context) Promise[error] {
	inv := s.begin("go")
	p, resolve := NewPromise[error]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resolve(&TaskPanicError{Task: s.name, Value: r, Stack: debug.Stack()})
			}
		}()
		resolve(inv.block(ctx))
	}()
	return p
}

// invocation is the state of one terminator call.
// It owns the case set; the Selector hands it over in begin.
type invocation struct {
	s          *Selector
	recvs      []namedCase
	sends      []namedCase
	terminator string
	id         string
	start      time.Time
	passes     int
	signal     *Signal
	registered []Listenable
	overdue    bool
	logger     log.Logger
}

func (s *Selector) begin(terminator string) *invocation {
	if !atomic.CompareAndSwapUint32(&s.phase, phase_building, phase_terminated) {
		panic(ErrSelectorUsed)
	}
	inv := &invocation{
		s:          s,
		recvs:      s.recvs,
		sends:      s.sends,
		terminator: terminator,
		start:      time.Now(),
	}
	s.recvs, s.sends = nil, nil
	if s.cfg.Tracer != nil {
		inv.id = newInvocationID()
	}
	inv.trace(EventBegin, "")
	return inv
}

func (inv *invocation) log() log.Logger {
	if inv.logger == nil {
		inv.logger = inv.s.cfg.Logger.WithField("selector", inv.s.name)
	}
	return inv.logger
}

func (inv *invocation) trace(kind EventKind, caseName string) {
	if inv.s.cfg.Tracer == nil {
		return
	}
	inv.s.cfg.Tracer(Event{
		Invocation: inv.id,
		Selector:   inv.s.name,
		Kind:       kind,
		Case:       caseName,
		Pass:       inv.passes,
		Elapsed:    time.Since(inv.start),
	})
}

// poll is one evaluation pass: receives first, then sends, in the order
// they were added, stopping at the first one that fires.
//
// No guard is ever waited for, only tried, so a pass cannot deadlock
// against other passes over overlapping channels regardless of order.
func (inv *invocation) poll() (bool, error) {
	inv.passes++
	inv.s.cfg.Metrics.pass()
	grace := inv.s.cfg.SendGrace
	for _, c := range inv.recvs {
		if fired, err := c.attempt(grace); fired {
			inv.trace(EventFired, c.name)
			return true, err
		}
	}
	for _, c := range inv.sends {
		if fired, err := c.attempt(grace); fired {
			inv.trace(EventFired, c.name)
			return true, err
		}
	}
	return false, nil
}

func (inv *invocation) block(ctx context.Context) (err error) {
	cfg := &inv.s.cfg
	outcome := outcomePanic
	defer func() {
		cfg.Metrics.blocked(time.Since(inv.start))
		inv.finish(outcome)
	}()

	if fired, err := inv.poll(); fired {
		outcome = outcomeCase
		return err
	}

	inv.register()
	if len(inv.registered) == 0 {
		inv.log().Warn("select has no cases; blocking until cancelled")
	}

	// Anything that changed between the first poll and registration went
	// unannounced, so the loop polls before it parks.
	for {
		if fired, err := inv.poll(); fired {
			outcome = outcomeCase
			return err
		}
		notified, werr := inv.signal.wait(ctx, cfg.WaitTimeout)
		if werr != nil {
			outcome = outcomeCancelled
			inv.trace(EventCancelled, "")
			inv.log().Debug("select cancelled after %d passes: %v", inv.passes, werr)
			return &CancelledError{Selector: inv.s.name, Cause: werr}
		}
		if !notified {
			cfg.Metrics.waitTimeout()
			inv.trace(EventWait, "")
		}
		inv.checkOverdue()
	}
}

func (inv *invocation) register() {
	inv.signal = newSignal()
	for _, c := range inv.recvs {
		inv.listen(c.listenable())
	}
	for _, c := range inv.sends {
		inv.listen(c.listenable())
	}
	inv.log().Trace("registered wake signal with %d channels", len(inv.registered))
}

func (inv *invocation) listen(l Listenable) {
	l.AddListener(inv.signal)
	inv.registered = append(inv.registered, l)
}

func (inv *invocation) checkOverdue() {
	cfg := &inv.s.cfg
	if inv.overdue || cfg.OverdueAfter <= 0 {
		return
	}
	waited := time.Since(inv.start)
	if waited < cfg.OverdueAfter {
		return
	}
	inv.overdue = true
	inv.trace(EventOverdue, "")
	inv.log().Warn("select has been waiting for %s over cases %v", waited, caseNames(inv.recvs, inv.sends))
	if cfg.OnOverdue != nil {
		cfg.OnOverdue(inv.s.name, waited)
	}
}

// finish tears the invocation down.  It runs deferred, so it happens on
// every exit path, including panics out of callbacks.
func (inv *invocation) finish(outcome string) {
	for _, l := range inv.registered {
		l.RemoveListener(inv.signal)
	}
	inv.registered = nil
	if inv.signal != nil {
		inv.signal.release()
		inv.signal = nil
	}
	inv.recvs = nil
	inv.sends = nil
	inv.s.cfg.Metrics.invocation(inv.terminator, outcome)
	inv.trace(EventEnd, "")
}
