package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0o644))
	}
}

type configurable struct {
	sources []string
	target  string
}

func (c *configurable) Sources() []string          { return c.sources }
func (c *configurable) AddSources(paths ...string) { c.sources = append(c.sources, paths...) }
func (c *configurable) Target() string             { return c.target }
func (c *configurable) SetTarget(dir string)       { c.target = dir }

func TestSpec_CompileMap(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTree(t, ".", "src/a.lang", "src/sub/b.lang", "src/notes.txt", "single/c.lang")
	spec := NewSpec("lang", "Lang", "lang", ".lang", ".obj")

	t.Run("directory keeps relative layout", func(t *testing.T) {
		got, err := spec.CompileMap([]string{"src"}, "out")
		require.NoError(t, err)
		want := map[string]string{
			"src/a.lang":     "out/a.obj",
			"src/sub/b.lang": "out/sub/b.obj",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("CompileMap() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single file maps to basename", func(t *testing.T) {
		got, err := spec.CompileMap([]string{"single/c.lang", "src/notes.txt"}, "out")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"single/c.lang": "out/c.obj"}, got)
	})

	t.Run("missing and empty sources", func(t *testing.T) {
		got, err := spec.CompileMap([]string{"nope"}, "out")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = spec.CompileMap(nil, "out")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSpec_Identify(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main/java/pkg/Foo.java", "main/ts/app.ts")
	java := NewSpec("javac", "Java", "java", ".java", ".class")

	assert.True(t, java.Identify(Criteria{Sources: []string{filepath.Join(root, "main")}}))
	assert.True(t, java.Identify(Criteria{BaseDir: filepath.Join(root, "main")}))
	assert.True(t, java.Identify(Criteria{Sources: []string{filepath.Join(root, "main/java/pkg/Foo.java")}}))
	assert.False(t, java.Identify(Criteria{Sources: []string{filepath.Join(root, "main/ts")}}))
	assert.False(t, java.Identify(Criteria{BaseDir: root}))
	assert.False(t, java.Identify(Criteria{}))
}

func TestSpec_Configure(t *testing.T) {
	java := NewSpec("javac", "Java", "java", ".java", ".class")

	empty := &configurable{}
	java.Configure(empty, "src/main", "target/classes")
	assert.Equal(t, []string{filepath.Join("src/main", "java")}, empty.sources)
	assert.Equal(t, "target/classes", empty.target)

	set := &configurable{sources: []string{"lib"}, target: "out"}
	java.Configure(set, "src/main", "target/classes")
	assert.Equal(t, []string{"lib"}, set.sources)
	assert.Equal(t, "out", set.target)
}

func TestNewSpec_RequiresExtensions(t *testing.T) {
	assert.Panics(t, func() { NewSpec("x", "X", "x", "", ".o") })
}
