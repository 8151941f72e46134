package app

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/vk/gridbuild/internal/events"
	"github.com/vk/gridbuild/internal/task"
)

// Run invokes the configured targets in a single build run, or lists the
// tasks when asked to.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		return a.list()
	}

	if a.config.EventsURL != "" {
		stream, err := events.DialSocketIO(ctx, events.SocketIOOptions{URL: a.config.EventsURL})
		if err != nil {
			return fmt.Errorf("failed to connect to event stream: %w", err)
		}
		defer stream.Close()
		a.bus.Subscribe(stream)
		a.logger.Info("📡 Streaming build events.", "url", a.config.EventsURL)
	}

	targets := make([]task.Target, len(a.config.Targets))
	for i, s := range a.config.Targets {
		targets[i] = task.ParseTarget(s)
	}

	run := a.graph.NewRun()
	a.logger.Info("🚀 Starting build.", "run", run.ID(), "targets", a.config.Targets)
	if err := run.Execute(ctx, targets...); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// list prints every task that has a description, sorted by name.
func (a *App) list() error {
	var described []*task.Task
	for _, t := range a.graph.Tasks() {
		if t.Description() != "" {
			described = append(described, t)
		}
	}
	sort.Slice(described, func(i, j int) bool { return described[i].Name() < described[j].Name() })

	w := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	for _, t := range described {
		name := t.Name()
		if args := t.ArgNames(); len(args) > 0 {
			name = task.Target{Name: name, Args: args}.String()
		}
		fmt.Fprintf(w, "%s\t# %s\n", name, t.Description())
	}
	return w.Flush()
}
