package testutil

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vk/gridbuild/internal/compiler"
)

// FakeCompiler is an in-process compiler for tests. It writes one target
// file per source, containing "compiled <source>", and records every call.
type FakeCompiler struct {
	compiler.Spec
	Schema compiler.OptionSchema
	// Err, when set, is returned by Compile without writing anything.
	Err error

	mu    sync.Mutex
	calls [][]string
	jobs  []*compiler.Job
}

// NewFakeCompiler creates a fake compiler registered as name.
func NewFakeCompiler(name, sourcePath, sourceExt, targetExt string) *FakeCompiler {
	return &FakeCompiler{
		Spec:   compiler.NewSpec(name, name, sourcePath, sourceExt, targetExt),
		Schema: compiler.OptionSchema{PassThrough: true},
	}
}

// Register implements compiler.Module.
func (f *FakeCompiler) Register(r *compiler.Registry) { r.Add(f) }

// Options implements compiler.Compiler.
func (f *FakeCompiler) Options() compiler.OptionSchema { return f.Schema }

// Compile implements compiler.Compiler.
func (f *FakeCompiler) Compile(_ context.Context, files []string, job *compiler.Job) error {
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(files))
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	for _, src := range files {
		dst := job.Map[src]
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte("compiled "+src), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns the file lists of every Compile call.
func (f *FakeCompiler) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Jobs returns the job of every Compile call.
func (f *FakeCompiler) Jobs() []*compiler.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.jobs)
}
