package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/vk/gridbuild/internal/events"
)

// InvokeWithChain invokes t within run, with chain as the invocation chain
// of the caller.
//
// The task is pushed on the chain first, so a cycle fails before anything
// else happens. The task's lock is then held until the call returns. If the
// run already invoked t this is a no-op; otherwise t is marked invoked, its
// prerequisites are invoked in declaration order, and finally its actions
// run in order if t is needed. The first failure aborts everything after it.
func (t *Task) InvokeWithChain(ctx context.Context, run *Run, chain *Chain, args Args) error {
	next, err := chain.Append(t.name)
	if err != nil {
		return err
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	logger := ctxlog.FromContext(ctx)
	if !run.markInvoked(t) {
		logger.Debug("Task already invoked in this run.", "task", t.name)
		return nil
	}

	if err := t.invokePrerequisites(ctx, run, next, args); err != nil {
		return err
	}

	return t.execute(WithInvocation(ctx, run, next), run, next, args)
}

func (t *Task) invokePrerequisites(ctx context.Context, run *Run, chain *Chain, args Args) error {
	for _, name := range t.Prerequisites() {
		prereq, err := t.graph.Resolve(t.Scope(), name)
		if err != nil {
			return fmt.Errorf("resolving prerequisite of %q: %w", t.name, err)
		}
		if err := prereq.InvokeWithChain(ctx, run, chain, args.scoped(prereq.ArgNames())); err != nil {
			return err
		}
	}
	return nil
}

func (t *Task) execute(ctx context.Context, run *Run, chain *Chain, args Args) error {
	ctx = ctxlog.With(ctx, "task", t.name)
	event := events.Event{RunID: run.id, Task: t.name, Chain: chain.Names()}

	if !t.Needed(ctx) {
		event.Kind, event.Time = events.TaskSkipped, time.Now()
		t.graph.emit(ctx, event)
		return nil
	}

	event.Kind, event.Time = events.TaskStarted, time.Now()
	t.graph.emit(ctx, event)

	for _, action := range t.actionList() {
		if err := action(ctx, t, args); err != nil {
			var taskErr *TaskError
			if !errors.As(err, &taskErr) {
				err = &TaskError{Task: t.name, Err: err}
			}
			event.Kind, event.Time, event.Err = events.TaskFailed, time.Now(), err
			t.graph.emit(ctx, event)
			return err
		}
	}

	event.Kind, event.Time = events.TaskCompleted, time.Now()
	t.graph.emit(ctx, event)
	return nil
}
