package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Filter selects files from source directories and copies them into a
// target directory. Include and exclude patterns use filepath.Match syntax
// and are matched against both the path relative to its source directory
// and the base name. When variables are set, copied files are rendered as
// HCL templates.
type Filter struct {
	mu      sync.Mutex
	sources []string
	target  string
	include []string
	exclude []string
	vars    map[string]cty.Value
}

// NewFilter creates an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// From adds source directories or files.
func (f *Filter) From(paths ...string) *Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		if p != "" && !slices.Contains(f.sources, p) {
			f.sources = append(f.sources, p)
		}
	}
	return f
}

// Into sets the target directory.
func (f *Filter) Into(dir string) *Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.target = dir
	return f
}

// Include restricts the filter to files matching any of the patterns.
func (f *Filter) Include(patterns ...string) *Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.include = append(f.include, patterns...)
	return f
}

// Exclude drops files matching any of the patterns.
func (f *Filter) Exclude(patterns ...string) *Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exclude = append(f.exclude, patterns...)
	return f
}

// Using sets variables substituted into copied files.
func (f *Filter) Using(vars map[string]cty.Value) *Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vars == nil {
		f.vars = make(map[string]cty.Value, len(vars))
	}
	for k, v := range vars {
		f.vars[k] = v
	}
	return f
}

// Sources returns the source paths.
func (f *Filter) Sources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sources)
}

// Target returns the target directory.
func (f *Filter) Target() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target
}

// Files maps every selected source file to its destination. Without a
// target, destinations are relative paths.
func (f *Filter) Files() (map[string]string, error) {
	f.mu.Lock()
	sources, target := slices.Clone(f.sources), f.target
	f.mu.Unlock()

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
			if f.selected(filepath.Base(src)) {
				out[src] = filepath.Join(target, filepath.Base(src))
			}
			continue
		}

		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			if f.selected(rel) {
				out[path] = filepath.Join(target, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", src, err)
		}
	}
	return out, nil
}

func (f *Filter) selected(rel string) bool {
	f.mu.Lock()
	include, exclude := f.include, f.exclude
	f.mu.Unlock()

	if len(include) > 0 && !matchAny(include, rel) {
		return false
	}
	return !matchAny(exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// Run copies every selected file whose destination is missing or older
// than the source.
func (f *Filter) Run(ctx context.Context) error {
	if f.Target() == "" {
		return errors.New("resource filter has no target directory")
	}
	files, err := f.Files()
	if err != nil {
		return err
	}

	f.mu.Lock()
	vars := f.vars
	f.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	copied := 0
	for _, src := range slices.Sorted(maps.Keys(files)) {
		dst := files[src]
		stale, err := isStale(src, dst)
		if err != nil {
			return err
		}
		if !stale {
			continue
		}
		if err := copyFile(src, dst, vars); err != nil {
			return fmt.Errorf("copying %s: %w", src, err)
		}
		copied++
	}
	logger.Debug("Resources copied.", "target", f.Target(), "copied", copied, "selected", len(files))
	return nil
}

func isStale(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	dstInfo, err := os.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return dstInfo.ModTime().Before(srcInfo.ModTime()), nil
}

func copyFile(src, dst string, vars map[string]cty.Value) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if len(vars) > 0 {
		content, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		rendered, err := render(src, content, vars)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, rendered, info.Mode().Perm())
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// render evaluates content as an HCL template with vars in scope.
func render(filename string, content []byte, vars map[string]cty.Value) ([]byte, error) {
	expr, diags := hclsyntax.ParseTemplate(content, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	val, diags := expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return nil, diags
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return nil, err
	}
	if val.IsNull() {
		return nil, nil
	}
	return []byte(val.AsString()), nil
}
