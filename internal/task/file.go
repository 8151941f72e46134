package task

import (
	"context"
	"os"
	"time"
)

// FileTask is a filesystem dependency node: a task named after a path that
// is needed when the path is missing or older than one of its file
// prerequisites.
type FileTask struct {
	*Task
	path string
}

// File returns the file node for path, defining it if needed. It panics if
// path already names a task of another kind.
func (g *Graph) File(path string, prereqs ...string) *FileTask {
	t := g.Define(path, prereqs...)
	if ft, ok := t.Impl().(*FileTask); ok {
		return ft
	}
	ft := &FileTask{Task: t, path: path}
	t.mustAttach(ft)
	t.SetNeeded(ft)
	return ft
}

// Path returns the filesystem path of the node.
func (f *FileTask) Path() string { return f.path }

// Timestamp returns the modification time of the path, or the zero time if
// it does not exist.
func (f *FileTask) Timestamp() time.Time {
	info, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Needed implements Needer.
func (f *FileTask) Needed(ctx context.Context) bool {
	info, err := os.Stat(f.path)
	if err != nil {
		return true
	}
	for _, name := range f.Prerequisites() {
		prereq, err := f.graph.Resolve(f.Scope(), name)
		if err != nil {
			continue
		}
		if dep, ok := prereq.Impl().(*FileTask); ok && dep.Timestamp().After(info.ModTime()) {
			return true
		}
	}
	return false
}
