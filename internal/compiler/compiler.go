package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/gridbuild/internal/fsutil"
)

// Criteria describes where a compiler should look for sources when asked to
// identify itself. Sources wins when set; otherwise the compiler probes its
// conventional source path beneath BaseDir.
type Criteria struct {
	Sources []string
	BaseDir string
}

// Configurable is the part of a compile task a compiler may fill in.
type Configurable interface {
	Sources() []string
	AddSources(paths ...string)
	Target() string
	SetTarget(dir string)
}

// Job is what a compiler receives for one compilation.
type Job struct {
	// Task is the name of the compile task.
	Task string
	// Sources are the source paths of the task, as configured.
	Sources []string
	// Target is the output directory. It exists when Compile is called.
	Target string
	// Map associates every source file with the file it compiles to.
	Map map[string]string
	// Dependencies are the resolved artifact paths the sources build against.
	Dependencies []string
	// Options were validated against the compiler's schema.
	Options Options
}

// Compiler is a language compiler strategy.
type Compiler interface {
	Name() string
	Language() string
	// SourcePath is the conventional source subdirectory, e.g. "java".
	SourcePath() string
	SourceExt() string
	TargetExt() string

	Identify(c Criteria) bool
	Configure(t Configurable, sourceBase, targetBase string)
	CompileMap(sources []string, target string) (map[string]string, error)
	Compile(ctx context.Context, files []string, job *Job) error

	// Options documents the option keys the compiler understands.
	Options() OptionSchema
}

// Spec implements the parts of Compiler shared by every file-per-file
// compiler. Embed it and add Compile and Options.
type Spec struct {
	name       string
	language   string
	sourcePath string
	sourceExt  string
	targetExt  string
}

// NewSpec describes a compiler turning files with sourceExt into files with
// targetExt. Extensions include the leading dot.
func NewSpec(name, language, sourcePath, sourceExt, targetExt string) Spec {
	if sourceExt == "" || targetExt == "" {
		panic(fmt.Sprintf("compiler %q: extensions must not be empty", name))
	}
	return Spec{
		name:       name,
		language:   language,
		sourcePath: sourcePath,
		sourceExt:  sourceExt,
		targetExt:  targetExt,
	}
}

func (s Spec) Name() string       { return s.name }
func (s Spec) Language() string   { return s.language }
func (s Spec) SourcePath() string { return s.sourcePath }
func (s Spec) SourceExt() string  { return s.sourceExt }
func (s Spec) TargetExt() string  { return s.targetExt }

// Identify reports whether at least one source file can be found under the
// criteria's directories.
func (s Spec) Identify(c Criteria) bool {
	dirs := c.Sources
	if len(dirs) == 0 {
		if c.BaseDir == "" {
			return false
		}
		dirs = []string{filepath.Join(c.BaseDir, s.sourcePath)}
	}
	for _, dir := range dirs {
		if s.containsSource(dir) {
			return true
		}
	}
	return false
}

func (s Spec) containsSource(root string) bool {
	return fsutil.ContainsExtension(root, s.sourceExt)
}

// Configure sets the conventional source directory beneath sourceBase and
// the target directory to targetBase, each only if the task has none yet.
func (s Spec) Configure(t Configurable, sourceBase, targetBase string) {
	if len(t.Sources()) == 0 && sourceBase != "" {
		t.AddSources(filepath.Join(sourceBase, s.sourcePath))
	}
	if t.Target() == "" && targetBase != "" {
		t.SetTarget(targetBase)
	}
}

// CompileMap maps every source file to its target file. Directories are
// walked recursively and keep their relative layout under target; a single
// file maps to target/<basename>. Paths that do not exist are skipped.
func (s Spec) CompileMap(sources []string, target string) (map[string]string, error) {
	out := make(map[string]string)
	for _, src := range sources {
		info, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(src, s.sourceExt) {
				out[src] = filepath.Join(target, s.swapExt(filepath.Base(src)))
			}
			continue
		}

		files, err := fsutil.FindFilesByExtension(src, s.sourceExt)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", src, err)
		}
		for _, path := range files {
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return nil, err
			}
			out[path] = filepath.Join(target, s.swapExt(rel))
		}
	}
	return out, nil
}

func (s Spec) swapExt(path string) string {
	return strings.TrimSuffix(path, s.sourceExt) + s.targetExt
}
