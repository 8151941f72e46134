package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/gridbuild/internal/events"
)

// Run is a single top-level build request against a Graph. It records which
// tasks it has invoked so that every task executes at most once per run.
type Run struct {
	id    string
	graph *Graph

	mu      sync.Mutex
	invoked map[*Task]struct{}
}

// NewRun starts a fresh run; no task has been invoked in it yet.
func (g *Graph) NewRun() *Run {
	return &Run{
		id:      uuid.NewString(),
		graph:   g,
		invoked: make(map[*Task]struct{}),
	}
}

// ID returns the run identifier attached to every event of the run.
func (r *Run) ID() string { return r.id }

// Invoked reports whether the named task has been invoked in this run.
func (r *Run) Invoked(name string) bool {
	t, err := r.graph.Lookup(name)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.invoked[t]
	return ok
}

// markInvoked records t and reports whether this was the first time.
func (r *Run) markInvoked(t *Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoked[t]; ok {
		return false
	}
	r.invoked[t] = struct{}{}
	return true
}

// Invoke invokes the named task as a top-level task of this run.
func (r *Run) Invoke(ctx context.Context, name string, args ...string) error {
	t, err := r.graph.Lookup(name)
	if err != nil {
		return err
	}
	return t.InvokeWithChain(ctx, r, nil, NewArgs(t.ArgNames(), args))
}

// Execute invokes the targets in order, stopping at the first failure, and
// reports the run to the graph's listener.
func (r *Run) Execute(ctx context.Context, targets ...Target) error {
	r.graph.emit(ctx, events.Event{Kind: events.RunStarted, RunID: r.id, Time: time.Now()})

	var err error
	for _, target := range targets {
		if err = r.Invoke(ctx, target.Name, target.Args...); err != nil {
			break
		}
	}

	r.graph.emit(ctx, events.Event{Kind: events.RunFinished, RunID: r.id, Time: time.Now(), Err: err})
	return err
}

type invocationKey struct{}

type invocation struct {
	run   *Run
	chain *Chain
}

// WithInvocation returns a context carrying run and chain as the active
// invocation.
func WithInvocation(ctx context.Context, run *Run, chain *Chain) context.Context {
	return context.WithValue(ctx, invocationKey{}, invocation{run: run, chain: chain})
}

// FromContext returns the active run and chain, or nil for both outside of
// an invocation.
func FromContext(ctx context.Context) (*Run, *Chain) {
	if ctx == nil {
		return nil, nil
	}
	inv, ok := ctx.Value(invocationKey{}).(invocation)
	if !ok {
		return nil, nil
	}
	return inv.run, inv.chain
}
