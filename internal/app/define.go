package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/gridbuild/internal/compile"
	"github.com/vk/gridbuild/internal/config"
	"github.com/vk/gridbuild/internal/project"
	"github.com/vk/gridbuild/internal/resources"
)

// define turns the model of one project into tasks, then recurses into its
// sub-projects. Parents are defined first so that children inherit their
// compile options.
func (a *App) define(ctx context.Context, p *project.Project, m *config.Project) error {
	if m.Description != "" {
		p.Namespace().Define("build").Describe(m.Description)
	}
	if m.Resources != nil {
		if err := a.defineResources(p, m.Resources); err != nil {
			return err
		}
	}
	if m.Compile != nil {
		if err := a.defineCompile(ctx, p, m.Compile); err != nil {
			return err
		}
	}
	for _, t := range m.Tasks {
		def := p.Namespace().Define(t.Name, t.DependsOn...).WithArgs(t.Args...)
		if t.Description != "" {
			def.Describe(t.Description)
		}
		if len(t.Run) > 0 {
			def.Enhance(nil, a.commandAction(p.BaseDir(), t))
		}
	}
	for _, child := range m.Projects {
		if err := a.define(ctx, p.Child(child.Name, child.Dir), child); err != nil {
			return err
		}
	}
	return nil
}

// defineResources configures the resources task before the project fills
// in its conventional directories, so that configured ones take precedence.
func (a *App) defineResources(p *project.Project, m *config.Resources) error {
	rt, err := resources.Define(a.graph, p.Namespace().Qualify("resources"))
	if err != nil {
		return err
	}
	rt.From(resolvePaths(p, m.From)...).
		Include(m.Include...).
		Exclude(m.Exclude...)
	if m.Into != "" {
		rt.Into(resolvePath(p, m.Into))
	}
	if len(m.Variables) > 0 {
		rt.Using(m.Variables)
	}
	return nil
}

func (a *App) defineCompile(ctx context.Context, p *project.Project, m *config.Compile) error {
	ct, err := p.Compile()
	if err != nil {
		return err
	}

	// Sources and target go first: selecting a compiler fills in the
	// conventional ones when none are set.
	ct.From(resolvePaths(p, m.From)...)
	if m.Into != "" {
		ct.Into(resolvePath(p, m.Into))
	}
	if len(m.With) > 0 {
		ct.SetResolver(compile.FileResolver{BaseDir: p.BaseDir()})
		if err := ct.DependOn(ctx, m.With...); err != nil {
			return err
		}
	}
	for key, value := range m.Options {
		if err := ct.SetOption(key, value); err != nil {
			return fmt.Errorf("task %q: %w", ct.Name(), err)
		}
	}
	if m.Using != "" {
		if err := ct.Using(m.Using); err != nil {
			return fmt.Errorf("task %q: %w", ct.Name(), err)
		}
	}
	return nil
}

func resolvePath(p *project.Project, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return p.PathTo(path)
}

func resolvePaths(p *project.Project, paths []string) []string {
	out := make([]string, len(paths))
	for i, path := range paths {
		out[i] = resolvePath(p, path)
	}
	return out
}
