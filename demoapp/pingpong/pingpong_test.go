package pingpong

// This ping-pong implementation uses our guardrail'd channel types.
// You could also implement a similar thing using golang channels directly.

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warpfork/go-sel"
	"github.com/warpfork/go-sel/log"
)

func TestPingpong(t *testing.T) {
	pingToPong := sel.NewChan[Msg](1)
	pongToPing := sel.NewChan[Msg](1)
	transcript := &Transcript{}

	pinger := &Actor{
		wiring: Wiring{Inbox: pongToPing, Outbox: pingToPong},
		config: Config{Rounds: 3},
		out:    transcript,
	}
	ponger := &Actor{
		wiring: Wiring{Inbox: pingToPong, Outbox: pongToPing},
		config: Config{Ponger: true},
		out:    transcript,
	}

	// Serve the first ball.
	require.True(t, pongToPing.TrySend(Msg{}, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := sel.RunRoot(ctx, sel.ForkJoin("main",
		sel.TaskOfSteppedTask("pinger", pinger),
		sel.TaskOfSteppedTask("ponger", ponger),
	))
	require.NoError(t, err)
	require.Equal(t, []string{
		"Ping 1 from main/pinger!",
		"Pong 1 from main/ponger!",
		"Ping 2 from main/pinger!",
		"Pong 2 from main/ponger!",
		"Ping 3 from main/pinger!",
		"ponger saw the table close",
	}, transcript.Lines())
	require.Equal(t, 0, pingToPong.Listeners())
	require.Equal(t, 0, pongToPing.Listeners())
}

type Actor struct {
	wiring Wiring
	config Config
	out    *Transcript
}

type Wiring struct {
	Inbox  *sel.Chan[Msg]
	Outbox *sel.Chan[Msg]
}

type Config struct {
	Ponger bool
	Rounds int // pinger only: close the table after this many pings.
}

type Msg struct {
	Increment int
}

type Transcript struct {
	mu    sync.Mutex
	lines []string
}

func (t *Transcript) Printf(format string, args ...interface{}) {
	t.mu.Lock()
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
	t.mu.Unlock()
}

func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

func (a *Actor) RunStep(ctx context.Context) error {
	// Might not look like much of a "select", with only one case in it!
	// But BlockContext is implicitly also considering if it's time to quit.
	return sel.New(sel.ContextPath(ctx), sel.WithLogger(log.Discard)).
		Case(sel.RecvAndThen(a.wiring.Inbox, func(m Msg, ok bool) error {
			if !ok {
				a.out.Printf("%s saw the table close", sel.ContextName(ctx))
				return sel.ErrStop
			}
			// This switch is just regular business logic -- processing the demo message.
			switch {
			case a.config.Ponger:
				a.out.Printf("Pong %d from %s!", m.Increment, sel.ContextPath(ctx))
			default:
				m.Increment++
				a.out.Printf("Ping %d from %s!", m.Increment, sel.ContextPath(ctx))
				if m.Increment >= a.config.Rounds {
					a.wiring.Outbox.Close()
					return sel.ErrStop
				}
			}
			// Send a response... in another select, because it must also abort if we're cancelled.
			return sel.New(sel.ContextPath(ctx), sel.WithLogger(log.Discard)).
				Case(sel.Send(a.wiring.Outbox, m).Named("reply")).
				BlockContext(ctx)
		}).Named("inbox")).
		BlockContext(ctx)
}
