package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/internal/config"
	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/vk/gridbuild/internal/events"
	"github.com/vk/gridbuild/internal/project"
	"github.com/vk/gridbuild/internal/task"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *compiler.Registry
	graph    *task.Graph
	bus      *events.Bus
	root     *project.Project
}

// NewApp is the constructor for the main application. It loads the build
// files with loader and defines every task they describe, using modules as
// the compilers (the core compilers when none are given).
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...compiler.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.BuildPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load build files: %w", err)
	}
	logger.Debug("Build files loaded and translated into unified model.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := compiler.NewRegistry(modules...)
	logger.Debug("Compilers registered.", "compilers", reg.Names())

	bus := events.NewBus(events.LogListener{})
	graph := task.New(task.WithListener(bus))

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		graph:    graph,
		bus:      bus,
		root:     project.New(graph, reg, "", model.Root.Dir),
	}

	if err := a.define(ctx, a.root, model.Root); err != nil {
		return nil, err
	}
	if _, err := a.root.Build(); err != nil {
		return nil, err
	}
	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("invalid build graph: %w", err)
	}
	logger.Debug("Build graph defined.", "tasks", len(graph.Tasks()))

	return a, nil
}

// Graph returns the application's task graph. This is primarily for testing.
func (a *App) Graph() *task.Graph {
	return a.graph
}

// Registry returns the compiler registry.
func (a *App) Registry() *compiler.Registry {
	return a.registry
}

// Subscribe adds a listener for the build events of every run.
func (a *App) Subscribe(l events.Listener) {
	a.bus.Subscribe(l)
}
