package resources

import (
	"context"

	"github.com/vk/gridbuild/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// Task copies resources with a Filter. It is needed whenever its filter
// selects at least one file; the filter itself skips files that are
// already up to date.
type Task struct {
	*task.Task
	filter *Filter
}

// Define returns the resources task called name, creating it if needed.
func Define(g *task.Graph, name string) (*Task, error) {
	t := g.Define(name)
	if rt, ok := t.Impl().(*Task); ok {
		return rt, nil
	}
	rt := &Task{Task: t, filter: NewFilter()}
	if err := t.Attach(rt); err != nil {
		return nil, err
	}
	t.Enhance(nil, func(ctx context.Context, _ *task.Task, _ task.Args) error {
		return rt.filter.Run(ctx)
	})
	t.SetNeeded(rt)
	return rt, nil
}

// Filter returns the filter doing the work.
func (rt *Task) Filter() *Filter { return rt.filter }

// From adds source directories.
func (rt *Task) From(paths ...string) *Task {
	rt.filter.From(paths...)
	return rt
}

// Into sets the target directory.
func (rt *Task) Into(dir string) *Task {
	rt.filter.Into(dir)
	return rt
}

// Include restricts the copied files to the patterns.
func (rt *Task) Include(patterns ...string) *Task {
	rt.filter.Include(patterns...)
	return rt
}

// Exclude drops files matching the patterns.
func (rt *Task) Exclude(patterns ...string) *Task {
	rt.filter.Exclude(patterns...)
	return rt
}

// Using sets template variables.
func (rt *Task) Using(vars map[string]cty.Value) *Task {
	rt.filter.Using(vars)
	return rt
}

// Sources returns the filter's source paths.
func (rt *Task) Sources() []string { return rt.filter.Sources() }

// Target returns the filter's target directory.
func (rt *Task) Target() string { return rt.filter.Target() }

// Needed implements task.Needer.
func (rt *Task) Needed(ctx context.Context) bool {
	files, err := rt.filter.Files()
	if err != nil {
		// Let the action report the problem.
		return true
	}
	return len(files) > 0
}
