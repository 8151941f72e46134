package compile

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/vk/gridbuild/internal/task"
)

func (ct *CompileTask) compile(ctx context.Context, t *task.Task, _ task.Args) error {
	logger := ctxlog.FromContext(ctx)

	c := ct.Compiler()
	if c == nil {
		return task.Configf(t.Name(), "no compiler found for sources %v", ct.Sources())
	}
	target := ct.Target()
	if target == "" {
		return task.Configf(t.Name(), "no target directory set")
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	ct.invalidate()
	m, err := ct.CompileMap()
	if err != nil {
		return err
	}

	if len(m) > 0 {
		opts, err := c.Options().Validate(ct.Options())
		if err != nil {
			return fmt.Errorf("%w: %w", task.Configf(t.Name(), "invalid %s options", c.Name()), err)
		}

		files := slices.Sorted(maps.Keys(m))
		var deps []string
		for _, d := range ct.Dependencies() {
			deps = append(deps, d.Path())
		}
		job := &compiler.Job{
			Task:         t.Name(),
			Sources:      ct.Sources(),
			Target:       target,
			Map:          m,
			Dependencies: deps,
			Options:      opts,
		}

		logger.Info("Compiling sources.", "compiler", c.Name(), "files", len(files), "target", target)
		if err := c.Compile(ctx, files, job); err != nil {
			return &task.TaskError{Task: t.Name(), Files: files, Err: err}
		}
	}

	now := time.Now()
	if err := os.Chtimes(target, now, now); err != nil {
		return fmt.Errorf("touching target directory: %w", err)
	}
	return nil
}
