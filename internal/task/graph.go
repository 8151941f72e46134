package task

import (
	"context"
	"strings"
	"sync"

	"github.com/vk/gridbuild/internal/events"
)

// Graph is the registry of every task of a build. All methods are safe for
// concurrent use.
type Graph struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	order    []string
	listener events.Listener
}

// Option configures a Graph.
type Option func(*Graph)

// WithListener sends the build events of every run to l.
func WithListener(l events.Listener) Option {
	return func(g *Graph) { g.listener = l }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{tasks: make(map[string]*Task)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Define returns the task called name, creating it if needed, and merges
// prereqs into its prerequisites.
func (g *Graph) Define(name string, prereqs ...string) *Task {
	name = strings.TrimPrefix(name, ":")

	g.mu.Lock()
	t, ok := g.tasks[name]
	if !ok {
		t = newTask(g, name)
		g.tasks[name] = t
		g.order = append(g.order, name)
	}
	g.mu.Unlock()

	return t.Enhance(prereqs)
}

// Lookup returns the task with exactly this name.
func (g *Graph) Lookup(name string) (*Task, error) {
	name = strings.TrimPrefix(name, ":")
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.tasks[name]
	if !ok {
		return nil, unknownTask(name, "")
	}
	return t, nil
}

// Has reports whether a task called name exists.
func (g *Graph) Has(name string) bool {
	_, err := g.Lookup(name)
	return err == nil
}

// Tasks returns every task in definition order.
func (g *Graph) Tasks() []*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Task, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.tasks[name])
	}
	return out
}

// Resolve looks name up relative to scope, walking outward to the root
// namespace. A leading ":" makes name absolute.
func (g *Graph) Resolve(scope, name string) (*Task, error) {
	if strings.HasPrefix(name, ":") {
		return g.Lookup(name)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for s := scope; ; s = parentScope(s) {
		if t, ok := g.tasks[qualify(s, name)]; ok {
			return t, nil
		}
		if s == "" {
			break
		}
	}
	if scope == "" {
		return nil, unknownTask(name, "")
	}
	return nil, unknownTask(name, "in scope "+scope)
}

// Namespace returns a view of the graph that defines and resolves names
// inside scope.
func (g *Graph) Namespace(scope string) *Namespace {
	return &Namespace{graph: g, scope: strings.Trim(scope, ":")}
}

// Invoke runs the named task in a new run.
func (g *Graph) Invoke(ctx context.Context, name string, args ...string) error {
	return g.NewRun().Execute(ctx, Target{Name: name, Args: args})
}

func (g *Graph) emit(ctx context.Context, e events.Event) {
	if g.listener == nil {
		return
	}
	g.listener.OnEvent(ctx, e)
}

// Namespace defines and resolves task names inside a scope.
type Namespace struct {
	graph *Graph
	scope string
}

// Name returns the scope.
func (n *Namespace) Name() string { return n.scope }

// Graph returns the underlying graph.
func (n *Namespace) Graph() *Graph { return n.graph }

// Qualify turns a name relative to the namespace into a full task name.
func (n *Namespace) Qualify(name string) string {
	if strings.HasPrefix(name, ":") {
		return strings.TrimPrefix(name, ":")
	}
	return qualify(n.scope, name)
}

// Define defines a task inside the namespace. Prerequisites are stored as
// given and resolved relative to the namespace at invocation time.
func (n *Namespace) Define(name string, prereqs ...string) *Task {
	return n.graph.Define(n.Qualify(name), prereqs...)
}

// Lookup resolves name relative to the namespace.
func (n *Namespace) Lookup(name string) (*Task, error) {
	return n.graph.Resolve(n.scope, name)
}

// Namespace returns a nested namespace.
func (n *Namespace) Namespace(child string) *Namespace {
	return &Namespace{graph: n.graph, scope: qualify(n.scope, strings.Trim(child, ":"))}
}

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + ":" + name
}

func parentScope(scope string) string {
	if i := strings.LastIndex(scope, ":"); i >= 0 {
		return scope[:i]
	}
	return ""
}
