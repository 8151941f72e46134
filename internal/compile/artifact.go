package compile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/gridbuild/internal/fsutil"
)

// Artifact is something a compilation depends on without compiling it.
type Artifact interface {
	Path() string
	// Timestamp is compared with the oldest target file to decide staleness.
	Timestamp() (time.Time, error)
}

// FileArtifact is a file or directory on disk. The timestamp of a directory
// is the newest modification time found inside it.
type FileArtifact string

// Path implements Artifact.
func (f FileArtifact) Path() string { return string(f) }

// Timestamp implements Artifact.
func (f FileArtifact) Timestamp() (time.Time, error) {
	return fsutil.NewestModTime(string(f))
}

func (f FileArtifact) String() string { return string(f) }

// TargetOf returns the target directory of another compile task as an
// artifact. Depending on it makes the other task a prerequisite.
func TargetOf(ct *CompileTask) Artifact {
	return targetArtifact{ct: ct}
}

type targetArtifact struct {
	ct *CompileTask
}

func (a targetArtifact) Path() string { return a.ct.Target() }

func (a targetArtifact) Timestamp() (time.Time, error) {
	if a.ct.Target() == "" {
		return time.Time{}, fmt.Errorf("task %q has no target", a.ct.Name())
	}
	return FileArtifact(a.ct.Target()).Timestamp()
}

func (a targetArtifact) prerequisite() string { return a.ct.Name() }

func (a targetArtifact) String() string { return a.ct.Name() + " target" }

// Resolver turns a dependency specification into an artifact.
type Resolver interface {
	Resolve(ctx context.Context, spec string) (Artifact, error)
}

// FileResolver treats specifications as paths, relative ones being taken
// from BaseDir.
type FileResolver struct {
	BaseDir string
}

// Resolve implements Resolver.
func (r FileResolver) Resolve(_ context.Context, spec string) (Artifact, error) {
	if spec == "" {
		return nil, errors.New("empty dependency")
	}
	if !filepath.IsAbs(spec) && r.BaseDir != "" {
		spec = filepath.Join(r.BaseDir, spec)
	}
	return FileArtifact(spec), nil
}
