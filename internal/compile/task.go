package compile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/internal/task"
)

// CompileTask compiles source files into a target directory.
type CompileTask struct {
	*task.Task
	registry *compiler.Registry

	mu         sync.Mutex
	sources    []string
	deps       []Artifact
	target     string
	options    compiler.Options
	compiler   compiler.Compiler
	identified bool
	sourceBase string
	targetBase string
	resolver   Resolver

	compileMap map[string]string
	mapKey     string
}

// Define returns the compile task called name, creating it if needed. A
// new task starts with a copy of parent's options; parent may be nil.
func Define(g *task.Graph, reg *compiler.Registry, name string, parent *CompileTask) (*CompileTask, error) {
	t := g.Define(name)
	if ct, ok := t.Impl().(*CompileTask); ok {
		return ct, nil
	}

	ct := &CompileTask{
		Task:     t,
		registry: reg,
		options:  compiler.Options{},
		resolver: FileResolver{},
	}
	if parent != nil {
		ct.options = parent.Options()
	}
	if err := t.Attach(ct); err != nil {
		return nil, err
	}
	t.Enhance(nil, ct.compile)
	t.SetNeeded(ct)
	return ct, nil
}

// From adds source directories or files.
func (ct *CompileTask) From(paths ...string) *CompileTask {
	ct.AddSources(paths...)
	return ct
}

// AddSources adds source paths, ignoring ones already present.
func (ct *CompileTask) AddSources(paths ...string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for _, p := range paths {
		if p == "" || slices.Contains(ct.sources, p) {
			continue
		}
		ct.sources = append(ct.sources, p)
		ct.compileMap = nil
		if ct.compiler == nil {
			ct.identified = false
		}
	}
}

// Sources returns the source paths in the order they were added.
func (ct *CompileTask) Sources() []string {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return slices.Clone(ct.sources)
}

// With adds dependency artifacts. Artifacts produced by another compile
// task make that task a prerequisite.
func (ct *CompileTask) With(artifacts ...Artifact) *CompileTask {
	var prereqs []string
	ct.mu.Lock()
	for _, a := range artifacts {
		if a == nil {
			continue
		}
		ct.deps = append(ct.deps, a)
		if ta, ok := a.(targetArtifact); ok {
			prereqs = append(prereqs, ":"+ta.prerequisite())
		}
	}
	ct.mu.Unlock()
	ct.Enhance(prereqs)
	return ct
}

// WithFiles adds files or directories as dependency artifacts.
func (ct *CompileTask) WithFiles(paths ...string) *CompileTask {
	artifacts := make([]Artifact, len(paths))
	for i, p := range paths {
		artifacts[i] = FileArtifact(p)
	}
	return ct.With(artifacts...)
}

// SetResolver replaces the resolver used by DependOn.
func (ct *CompileTask) SetResolver(r Resolver) *CompileTask {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.resolver = r
	return ct
}

// DependOn resolves dependency specifications and adds the artifacts.
func (ct *CompileTask) DependOn(ctx context.Context, specs ...string) error {
	ct.mu.Lock()
	r := ct.resolver
	ct.mu.Unlock()

	artifacts := make([]Artifact, 0, len(specs))
	for _, spec := range specs {
		a, err := r.Resolve(ctx, spec)
		if err != nil {
			return fmt.Errorf("resolving dependency %q of %q: %w", spec, ct.Name(), err)
		}
		artifacts = append(artifacts, a)
	}
	ct.With(artifacts...)
	return nil
}

// Dependencies returns the dependency artifacts.
func (ct *CompileTask) Dependencies() []Artifact {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return slices.Clone(ct.deps)
}

// Into sets the target directory and returns its file task, which depends
// on this task.
func (ct *CompileTask) Into(dir string) *task.FileTask {
	ct.SetTarget(dir)
	return ct.Graph().File(dir, ":"+ct.Name())
}

// SetTarget sets the target directory.
func (ct *CompileTask) SetTarget(dir string) {
	ct.mu.Lock()
	changed := ct.target != dir
	ct.target = dir
	if changed {
		ct.compileMap = nil
	}
	ct.mu.Unlock()

	if changed && dir != "" {
		ct.Graph().File(dir, ":"+ct.Name())
	}
}

// Target returns the target directory, or "" if none is set.
func (ct *CompileTask) Target() string {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.target
}

// Bases sets the directories a compiler configures the task from: its
// conventional source path beneath sourceBase, and targetBase as target.
func (ct *CompileTask) Bases(sourceBase, targetBase string) *CompileTask {
	ct.mu.Lock()
	ct.sourceBase, ct.targetBase = sourceBase, targetBase
	c := ct.compiler
	ct.mu.Unlock()

	if c != nil {
		c.Configure(ct, sourceBase, targetBase)
	}
	return ct
}

// Using selects the compiler registered under name.
func (ct *CompileTask) Using(name string) error {
	c, err := ct.registry.Select(name)
	if err != nil {
		return err
	}
	return ct.UseCompiler(c)
}

// UseCompiler selects c. Selecting the compiler already in use does
// nothing; selecting another one fails with compiler.ErrCompilerConflict.
func (ct *CompileTask) UseCompiler(c compiler.Compiler) error {
	ct.mu.Lock()
	if ct.compiler != nil {
		current := ct.compiler.Name()
		ct.mu.Unlock()
		if current == c.Name() {
			return nil
		}
		return fmt.Errorf("%w: task %q already uses %q, cannot use %q", compiler.ErrCompilerConflict, ct.Name(), current, c.Name())
	}
	ct.compiler = c
	ct.identified = true
	ct.compileMap = nil
	sourceBase, targetBase := ct.sourceBase, ct.targetBase
	ct.mu.Unlock()

	c.Configure(ct, sourceBase, targetBase)
	return nil
}

// Compiler returns the compiler of the task. If none was selected, the
// registry is asked once to identify one from the sources, or from the
// source base when there are no sources yet. It returns nil when no
// compiler applies.
func (ct *CompileTask) Compiler() compiler.Compiler {
	ct.mu.Lock()
	if ct.compiler != nil || ct.identified {
		defer ct.mu.Unlock()
		return ct.compiler
	}
	criteria := compiler.Criteria{Sources: slices.Clone(ct.sources)}
	if len(criteria.Sources) == 0 {
		criteria.BaseDir = ct.sourceBase
	}
	if len(criteria.Sources) == 0 && criteria.BaseDir == "" {
		ct.mu.Unlock()
		return nil
	}
	ct.identified = true
	ct.mu.Unlock()

	c := ct.registry.Identify(criteria)
	if c == nil {
		return nil
	}
	if err := ct.UseCompiler(c); err != nil {
		// Another caller selected a compiler in the meantime.
		ct.mu.Lock()
		defer ct.mu.Unlock()
		return ct.compiler
	}
	return c
}

// Options returns a copy of the compiler options.
func (ct *CompileTask) Options() compiler.Options {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.options.Clone()
}

// SetOption sets one compiler option.
func (ct *CompileTask) SetOption(key string, value any) error {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.options.Set(key, value)
}

// CompileMap maps every source file to its target file. The result is
// computed once per set of sources and target. It is nil while the task
// has no compiler or no target.
func (ct *CompileTask) CompileMap() (map[string]string, error) {
	c := ct.Compiler()

	ct.mu.Lock()
	defer ct.mu.Unlock()
	if len(ct.sources) == 0 {
		return map[string]string{}, nil
	}
	if c == nil || ct.target == "" {
		return nil, nil
	}

	key := strings.Join(ct.sources, "\x00") + "\x01" + ct.target
	if ct.compileMap == nil || ct.mapKey != key {
		m, err := c.CompileMap(ct.sources, ct.target)
		if err != nil {
			return nil, err
		}
		ct.compileMap, ct.mapKey = m, key
	}
	return maps.Clone(ct.compileMap), nil
}

func (ct *CompileTask) invalidate() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.compileMap = nil
}

var _ compiler.Configurable = (*CompileTask)(nil)
