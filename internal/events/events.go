package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vk/gridbuild/internal/ctxlog"
)

// Kind identifies what happened.
type Kind string

const (
	RunStarted    Kind = "run_started"
	RunFinished   Kind = "run_finished"
	TaskStarted   Kind = "task_started"
	TaskSkipped   Kind = "task_skipped"
	TaskCompleted Kind = "task_completed"
	TaskFailed    Kind = "task_failed"
)

// Event is a single build lifecycle notification.
type Event struct {
	Kind  Kind
	RunID string
	// Task is empty for run level events.
	Task string
	// Chain is the invocation chain that led to Task, outermost first.
	Chain []string
	Time  time.Time
	Err   error
}

// Listener receives build events.
type Listener interface {
	OnEvent(ctx context.Context, e Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, e Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ctx context.Context, e Event) { f(ctx, e) }

// Bus fans events out to every subscribed listener in subscription order.
// It is safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewBus creates a bus with the given initial listeners.
func NewBus(listeners ...Listener) *Bus {
	return &Bus{listeners: listeners}
}

// Subscribe adds a listener.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// OnEvent implements Listener.
func (b *Bus) OnEvent(ctx context.Context, e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		l.OnEvent(ctx, e)
	}
}

// LogListener writes every event to the logger found in the context.
type LogListener struct{}

// OnEvent implements Listener.
func (LogListener) OnEvent(ctx context.Context, e Event) {
	logger := ctxlog.FromContext(ctx)
	attrs := []any{"run", e.RunID}
	if e.Task != "" {
		attrs = append(attrs, "task", e.Task)
	}

	switch e.Kind {
	case RunStarted:
		logger.Debug("Build run started.", attrs...)
	case RunFinished:
		if e.Err != nil {
			logger.Error("Build run failed.", append(attrs, "error", e.Err)...)
			return
		}
		logger.Info("🏁 Build run finished.", attrs...)
	case TaskStarted:
		logger.Info("▶️ Running task", attrs...)
	case TaskSkipped:
		logger.Debug("Task is up to date, skipping.", attrs...)
	case TaskCompleted:
		logger.Info("✅ Finished task", attrs...)
	case TaskFailed:
		logger.Error("Task failed.", append(attrs, "error", e.Err)...)
	default:
		logger.Log(ctx, slog.LevelDebug, "Unknown build event.", append(attrs, "kind", string(e.Kind))...)
	}
}

// Recorder keeps every event it receives. It is meant for tests and for
// printing a summary after a run.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnEvent implements Listener.
func (r *Recorder) OnEvent(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Tasks returns the task names of recorded events of the given kind, in order.
func (r *Recorder) Tasks(kind Kind) []string {
	var names []string
	for _, e := range r.Events() {
		if e.Kind == kind {
			names = append(names, e.Task)
		}
	}
	return names
}
