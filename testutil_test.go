package sel_test

import (
	"bytes"
	"sync"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warpfork/go-sel"
	"github.com/warpfork/go-sel/log"
)

func tmplToStr(tmpl string, obj interface{}) string {
	var buf bytes.Buffer
	if err := template.Must(
		template.New("").
			Parse(tmpl),
	).Execute(&buf, obj); err != nil {
		panic(err)
	}
	return buf.String()
}

func mapToStr(foo interface{}) string {
	// easier to implement with template, since that also handles sorting.
	return tmplToStr(
		`{{range $k, $v := . -}}`+
			`{{printf "  - %q: %v\n" $k $v}}`+
			`{{end}}`,
		foo,
	)
}

// quiet keeps test selectors from writing to the shared default logger.
var quiet = sel.WithLogger(log.Discard)

// filled returns a Chan of the given capacity holding vs.
func filled[T any](t *testing.T, capacity int, vs ...T) *sel.Chan[T] {
	t.Helper()
	ch := sel.NewChan[T](capacity)
	for _, v := range vs {
		require.True(t, ch.TrySend(v, 0))
	}
	return ch
}

// recorder is a concurrency-safe Tracer collecting event kinds.
type recorder struct {
	mu     sync.Mutex
	events []sel.Event
}

func (r *recorder) trace(e sel.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) kinds() []sel.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]sel.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func countKind(kinds []sel.EventKind, kind sel.EventKind) int {
	n := 0
	for _, k := range kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not finish within %s", d)
	}
}
