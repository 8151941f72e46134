package task

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Action is a unit of work attached to a task. It receives the context of
// the invocation, which carries the active Run and Chain.
type Action func(ctx context.Context, t *Task, args Args) error

// Needer decides whether a task's actions must run.
type Needer interface {
	Needed(ctx context.Context) bool
}

// NeededFunc adapts a function to the Needer interface.
type NeededFunc func(ctx context.Context) bool

// Needed implements Needer.
func (f NeededFunc) Needed(ctx context.Context) bool { return f(ctx) }

// Task is a node of the build graph.
type Task struct {
	name  string
	graph *Graph

	// lock is held for the whole of an invocation.
	lock sync.Mutex

	// mu guards the definition below.
	mu          sync.RWMutex
	description string
	prereqs     []string
	prereqSet   map[string]struct{}
	actions     []Action
	argNames    []string
	needer      Needer
	impl        any
}

func newTask(g *Graph, name string) *Task {
	return &Task{
		name:      name,
		graph:     g,
		prereqSet: make(map[string]struct{}),
	}
}

// Name returns the fully qualified task name.
func (t *Task) Name() string { return t.name }

// Graph returns the graph the task belongs to.
func (t *Task) Graph() *Graph { return t.graph }

// Scope returns the namespace part of the name ("a:b" for "a:b:compile").
func (t *Task) Scope() string {
	if i := strings.LastIndex(t.name, ":"); i >= 0 {
		return t.name[:i]
	}
	return ""
}

func (t *Task) String() string { return t.name }

// Describe sets the one line description shown in task listings.
func (t *Task) Describe(description string) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.description = description
	return t
}

// Description returns the task description.
func (t *Task) Description() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.description
}

// Enhance appends prerequisites (ignoring names already present) and actions.
func (t *Task) Enhance(prereqs []string, actions ...Action) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range prereqs {
		if p == "" {
			continue
		}
		if _, ok := t.prereqSet[p]; ok {
			continue
		}
		t.prereqSet[p] = struct{}{}
		t.prereqs = append(t.prereqs, p)
	}
	for _, a := range actions {
		if a != nil {
			t.actions = append(t.actions, a)
		}
	}
	return t
}

// Prerequisites returns the prerequisite names in declaration order.
func (t *Task) Prerequisites() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.prereqs...)
}

func (t *Task) actionList() []Action {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Action(nil), t.actions...)
}

// WithArgs declares the names positional invocation arguments bind to.
func (t *Task) WithArgs(names ...string) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.argNames = append([]string(nil), names...)
	return t
}

// ArgNames returns the declared argument names.
func (t *Task) ArgNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.argNames...)
}

// SetNeeded installs the staleness predicate. A nil Needer restores the
// default, which always runs the actions.
func (t *Task) SetNeeded(n Needer) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.needer = n
	return t
}

// Needed reports whether the task's actions must run.
func (t *Task) Needed(ctx context.Context) bool {
	t.mu.RLock()
	n := t.needer
	t.mu.RUnlock()
	if n == nil {
		return true
	}
	return n.Needed(ctx)
}

// Impl returns the specialization attached to the task (a file node, a
// compile task...), or nil for a plain task.
func (t *Task) Impl() any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.impl
}

// Attach links a specialization to the task. A task can only ever carry
// one; attaching the same value again is a no-op.
func (t *Task) Attach(impl any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.impl == nil {
		t.impl = impl
		return nil
	}
	if t.impl == impl {
		return nil
	}
	return Configf(t.name, "already defined as %T, cannot redefine as %T", t.impl, impl)
}

// Invoke invokes the task with positional arguments. When ctx comes from an
// action of a running build, the task joins that run and its chain;
// otherwise it starts a new run of its own.
func (t *Task) Invoke(ctx context.Context, args ...string) error {
	run, chain := FromContext(ctx)
	if run == nil || run.graph != t.graph {
		return t.graph.NewRun().Execute(ctx, Target{Name: t.name, Args: args})
	}
	return t.InvokeWithChain(ctx, run, chain, NewArgs(t.ArgNames(), args))
}

func (t *Task) mustAttach(impl any) {
	if err := t.Attach(impl); err != nil {
		panic(fmt.Sprintf("task: %v", err))
	}
}
