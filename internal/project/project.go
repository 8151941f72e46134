// Package project groups the tasks of a source tree under one namespace
// and wires them with the conventional directory layout:
//
//	src/main/<lang>       sources, probed by the compilers
//	src/main/resources    resources
//	target/classes        compiled output
//	target/resources      copied resources
//
// Child projects live in nested namespaces and inherit the compile options
// of their parent.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vk/gridbuild/internal/compile"
	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/internal/resources"
	"github.com/vk/gridbuild/internal/task"
)

// Project is a named scope of a build rooted at a directory.
type Project struct {
	name    string
	baseDir string
	parent  *Project
	ns      *task.Namespace
	reg     *compiler.Registry

	mu       sync.Mutex
	children map[string]*Project
}

// New creates a top-level project. An empty name puts its tasks in the
// root namespace.
func New(g *task.Graph, reg *compiler.Registry, name, baseDir string) *Project {
	return &Project{
		name:     name,
		baseDir:  baseDir,
		ns:       g.Namespace(name),
		reg:      reg,
		children: make(map[string]*Project),
	}
}

// Child returns the sub-project called name, creating it in dir. A
// relative dir is taken from the parent's base directory; an empty one
// defaults to name.
func (p *Project) Child(name, dir string) *Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.children[name]; ok {
		return c
	}
	if dir == "" {
		dir = name
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.baseDir, dir)
	}
	c := &Project{
		name:     name,
		baseDir:  dir,
		parent:   p,
		ns:       p.ns.Namespace(name),
		reg:      p.reg,
		children: make(map[string]*Project),
	}
	p.children[name] = c
	return c
}

// Name returns the short project name.
func (p *Project) Name() string { return p.name }

// Scope returns the namespace of the project's tasks.
func (p *Project) Scope() string { return p.ns.Name() }

// BaseDir returns the project directory.
func (p *Project) BaseDir() string { return p.baseDir }

// Parent returns the enclosing project, or nil.
func (p *Project) Parent() *Project { return p.parent }

// Namespace returns the task namespace of the project.
func (p *Project) Namespace() *task.Namespace { return p.ns }

// Children returns the sub-projects sorted by name.
func (p *Project) Children() []*Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Project, 0, len(p.children))
	for _, c := range p.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// PathTo joins parts to the project directory.
func (p *Project) PathTo(parts ...string) string {
	return filepath.Join(append([]string{p.baseDir}, parts...)...)
}

// Compile returns the project's compile task, defining it on first use.
// It compiles src/main/<lang> into target/classes and depends on the
// project's resources.
func (p *Project) Compile() (*compile.CompileTask, error) {
	var parent *compile.CompileTask
	if p.parent != nil {
		var err error
		if parent, err = p.parent.Compile(); err != nil {
			return nil, err
		}
	}

	name := p.ns.Qualify("compile")
	ct, err := compile.Define(p.ns.Graph(), p.reg, name, parent)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", p.Scope(), err)
	}
	if _, err := p.Resources(); err != nil {
		return nil, err
	}
	ct.Enhance([]string{"resources"})
	ct.Bases(p.PathTo("src", "main"), p.PathTo("target", "classes"))
	if ct.Description() == "" {
		ct.Describe(fmt.Sprintf("Compiles the sources of %s.", p.label()))
	}
	return ct, nil
}

// Resources returns the project's resources task, defining it on first
// use.
func (p *Project) Resources() (*resources.Task, error) {
	rt, err := resources.Define(p.ns.Graph(), p.ns.Qualify("resources"))
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", p.Scope(), err)
	}
	if len(rt.Sources()) == 0 {
		rt.From(p.PathTo("src", "main", "resources"))
	}
	if rt.Target() == "" {
		rt.Into(p.PathTo("target", "resources"))
	}
	if rt.Description() == "" {
		rt.Describe(fmt.Sprintf("Copies the resources of %s.", p.label()))
	}
	return rt, nil
}

// Build returns the project's build task, which compiles the project and
// builds every sub-project.
func (p *Project) Build() (*task.Task, error) {
	if _, err := p.Compile(); err != nil {
		return nil, err
	}
	build := p.ns.Define("build", "compile")
	for _, c := range p.Children() {
		if _, err := c.Build(); err != nil {
			return nil, err
		}
		build.Enhance([]string{":" + c.ns.Qualify("build")})
	}
	if build.Description() == "" {
		build.Describe(fmt.Sprintf("Builds %s.", p.label()))
	}
	return build, nil
}

func (p *Project) label() string {
	if p.Scope() == "" {
		return "the root project"
	}
	return "project " + p.Scope()
}
