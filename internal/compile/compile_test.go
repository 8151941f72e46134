package compile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridbuild/internal/compile"
	"github.com/vk/gridbuild/internal/compiler"
	"github.com/vk/gridbuild/internal/task"
	"github.com/vk/gridbuild/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

var (
	past   = time.Now().Add(-2 * time.Hour)
	recent = time.Now().Add(-time.Hour)
)

type fixture struct {
	graph *task.Graph
	reg   *compiler.Registry
	fake  *testutil.FakeCompiler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Chdir(t.TempDir())
	fake := testutil.NewFakeCompiler("lang", "lang", ".lang", ".obj")
	return &fixture{
		graph: task.New(),
		reg:   compiler.NewRegistry(fake),
		fake:  fake,
	}
}

func (f *fixture) define(t *testing.T, name string) *compile.CompileTask {
	t.Helper()
	ct, err := compile.Define(f.graph, f.reg, name, nil)
	require.NoError(t, err)
	return ct
}

func TestCompileMap(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{
		"src/a.lang":     "a",
		"src/sub/b.lang": "b",
		"src/README":     "not a source",
	})
	ct := f.define(t, "compile").From("src")
	ct.Into("out")

	got, err := ct.CompileMap()
	require.NoError(t, err)
	want := map[string]string{
		"src/a.lang":     "out/a.obj",
		"src/sub/b.lang": "out/sub/b.obj",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompileMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileMap_IsMemoised(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{"src/a.lang": "a", "more/c.lang": "c"})
	ct := f.define(t, "compile").From("src")
	ct.Into("out")

	first, err := ct.CompileMap()
	require.NoError(t, err)
	require.Len(t, first, 1)

	testutil.WriteFiles(t, ".", map[string]string{"src/b.lang": "b"})
	cached, err := ct.CompileMap()
	require.NoError(t, err)
	assert.Len(t, cached, 1, "same sources and target reuse the cached map")

	ct.From("more")
	recomputed, err := ct.CompileMap()
	require.NoError(t, err)
	assert.Len(t, recomputed, 3)

	ct.Into("elsewhere")
	moved, err := ct.CompileMap()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere/a.obj", moved["src/a.lang"])
}

func TestNeeded_EmptySources(t *testing.T) {
	f := newFixture(t)
	ct := f.define(t, "compile")
	ct.Into("out")

	assert.False(t, ct.Needed(context.Background()))
	require.NoError(t, f.graph.Invoke(context.Background(), "compile"))
	assert.NoDirExists(t, "out")
	assert.Empty(t, f.fake.Calls())
}

func TestNeeded_UpToDate(t *testing.T) {
	f := newFixture(t)
	testutil.Touch(t, "src/a.lang", past)
	testutil.Touch(t, "src/sub/b.lang", past)
	testutil.Touch(t, "out/a.obj", recent)
	testutil.Touch(t, "out/sub/b.obj", recent)
	testutil.Touch(t, "lib/dep.jar", past)

	ct := f.define(t, "compile").From("src").WithFiles("lib/dep.jar")
	ct.Into("out")

	assert.False(t, ct.Needed(context.Background()))
	require.NoError(t, f.graph.Invoke(context.Background(), "compile"))
	assert.Empty(t, f.fake.Calls())
}

func TestNeeded_Table(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
		want  bool
	}{
		{
			name:  "target directory missing",
			setup: func(t *testing.T) { require.NoError(t, os.RemoveAll("out")) },
			want:  true,
		},
		{
			name:  "target file missing",
			setup: func(t *testing.T) { require.NoError(t, os.Remove("out/sub/b.obj")) },
			want:  true,
		},
		{
			name:  "source newer than target",
			setup: func(t *testing.T) { testutil.Touch(t, "src/a.lang", time.Now()) },
			want:  true,
		},
		{
			name:  "dependency newer than oldest target",
			setup: func(t *testing.T) { testutil.Touch(t, "lib/dep.jar", time.Now()) },
			want:  true,
		},
		{
			name:  "dependency directory with a newer file",
			setup: func(t *testing.T) { testutil.Touch(t, "lib/nested/new.jar", time.Now()) },
			want:  true,
		},
		{
			name:  "missing dependency is ignored",
			setup: func(t *testing.T) { require.NoError(t, os.RemoveAll("lib")) },
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			testutil.Touch(t, "src/a.lang", past)
			testutil.Touch(t, "src/sub/b.lang", past)
			testutil.Touch(t, "out/a.obj", recent)
			testutil.Touch(t, "out/sub/b.obj", recent)
			testutil.Touch(t, "lib/dep.jar", past)
			testutil.Touch(t, "lib", past)

			ct := f.define(t, "compile").From("src").WithFiles("lib")
			ct.Into("out")
			require.False(t, ct.Needed(context.Background()))

			tt.setup(t)
			assert.Equal(t, tt.want, ct.Needed(context.Background()))
		})
	}
}

func TestNeeded_NoCompilerOrTarget(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{"src/a.txt": "x", "code/a.lang": "y"})

	noCompiler := f.define(t, "plain").From("src")
	noCompiler.Into("out")
	assert.True(t, noCompiler.Needed(context.Background()))
	err := f.graph.Invoke(context.Background(), "plain")
	require.ErrorIs(t, err, task.ErrConfiguration)
	assert.ErrorContains(t, err, "no compiler")

	noTarget := f.define(t, "untargeted").From("code")
	assert.True(t, noTarget.Needed(context.Background()))
	err = f.graph.Invoke(context.Background(), "untargeted")
	require.ErrorIs(t, err, task.ErrConfiguration)
	assert.ErrorContains(t, err, "no target")
}

func TestNeeded_NoMatchingFiles(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{"src/a.txt": "x"})
	ct := f.define(t, "compile").From("src")
	require.NoError(t, ct.Using("lang"))
	ct.Into("out")

	assert.False(t, ct.Needed(context.Background()))
}

func TestCompile_StaleSourceUpdatesTarget(t *testing.T) {
	f := newFixture(t)
	testutil.Touch(t, "out/a.obj", past)
	testutil.Touch(t, "out", past)
	testutil.Touch(t, "src/a.lang", recent)

	ct := f.define(t, "compile").From("src")
	ct.Into("out")
	require.True(t, ct.Needed(context.Background()))

	require.NoError(t, f.graph.Invoke(context.Background(), "compile"))
	assert.True(t, testutil.ModTime(t, "out").After(recent))
	assert.Equal(t, [][]string{{"src/a.lang"}}, f.fake.Calls())
	assert.False(t, ct.Needed(context.Background()))
}

func TestCompile_BackendFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.Err = errors.New("syntax error")
	testutil.Touch(t, "src/b.lang", recent)
	testutil.Touch(t, "src/a.lang", recent)
	require.NoError(t, os.MkdirAll("out", 0o755))
	testutil.Touch(t, "out", past)

	ct := f.define(t, "compile").From("src")
	ct.Into("out")

	err := f.graph.Invoke(context.Background(), "compile")
	var taskErr *task.TaskError
	require.True(t, errors.As(err, &taskErr))
	assert.Equal(t, "compile", taskErr.Task)
	assert.Equal(t, []string{"src/a.lang", "src/b.lang"}, taskErr.Files)
	assert.ErrorIs(t, err, f.fake.Err)
	assert.True(t, testutil.ModTime(t, "out").Equal(past), "target must not be touched")
}

func TestUsing(t *testing.T) {
	f := newFixture(t)
	other := testutil.NewFakeCompiler("other", "other", ".oth", ".o")
	f.reg.Add(other)
	ct := f.define(t, "compile")

	require.NoError(t, ct.Using("lang"))
	require.NoError(t, ct.Using("lang"), "same compiler twice is a no-op")

	err := ct.Using("other")
	require.ErrorIs(t, err, compiler.ErrCompilerConflict)
	assert.Equal(t, "lang", ct.Compiler().Name())

	err = f.define(t, "fresh").Using("missing")
	require.ErrorIs(t, err, compiler.ErrUnknownCompiler)
}

func TestCompiler_IdentifiedFromSources(t *testing.T) {
	f := newFixture(t)
	other := testutil.NewFakeCompiler("other", "other", ".oth", ".o")
	f.reg.Add(other)
	testutil.WriteFiles(t, ".", map[string]string{"src/x.oth": "x"})

	ct := f.define(t, "compile")
	assert.Nil(t, ct.Compiler(), "nothing to identify from yet")

	ct.From("src")
	c := ct.Compiler()
	require.NotNil(t, c)
	assert.Equal(t, "other", c.Name())
	assert.Same(t, c, ct.Compiler())
}

func TestDefine_InheritsParentOptions(t *testing.T) {
	f := newFixture(t)
	parent := f.define(t, "compile")
	require.NoError(t, parent.SetOption("debug", true))

	child, err := compile.Define(f.graph, f.reg, "lib:compile", parent)
	require.NoError(t, err)
	require.NoError(t, child.SetOption("debug", false))
	require.NoError(t, child.SetOption("source", "17"))

	assert.True(t, parent.Options()["debug"].True())
	assert.NotContains(t, parent.Options(), "source")
	assert.False(t, child.Options()["debug"].True())

	again, err := compile.Define(f.graph, f.reg, "lib:compile", nil)
	require.NoError(t, err)
	assert.Same(t, child, again)
}

func TestDefine_RejectsOtherTaskKinds(t *testing.T) {
	f := newFixture(t)
	f.graph.File("out")
	_, err := compile.Define(f.graph, f.reg, "out", nil)
	require.ErrorIs(t, err, task.ErrConfiguration)
}

func TestCompile_InvalidOptions(t *testing.T) {
	f := newFixture(t)
	f.fake.Schema = compiler.OptionSchema{Keys: map[string]cty.Type{"debug": cty.Bool}}
	testutil.WriteFiles(t, ".", map[string]string{"src/a.lang": "a"})

	ct := f.define(t, "compile").From("src")
	ct.Into("out")
	require.NoError(t, ct.SetOption("colour", "always"))

	err := f.graph.Invoke(context.Background(), "compile")
	require.ErrorIs(t, err, task.ErrConfiguration)
	require.ErrorIs(t, err, compiler.ErrUnknownOption)
	assert.Empty(t, f.fake.Calls())
}

func TestCompile_JobCarriesOptionsAndDependencies(t *testing.T) {
	f := newFixture(t)
	f.fake.Schema = compiler.OptionSchema{Keys: map[string]cty.Type{"debug": cty.Bool}}
	testutil.WriteFiles(t, ".", map[string]string{"src/a.lang": "a", "lib/x.jar": "x"})

	ct := f.define(t, "compile").From("src").WithFiles("lib/x.jar")
	ct.Into("out")
	require.NoError(t, ct.SetOption("debug", "true"))

	require.NoError(t, f.graph.Invoke(context.Background(), "compile"))
	jobs := f.fake.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "compile", jobs[0].Task)
	assert.Equal(t, "out", jobs[0].Target)
	assert.Equal(t, []string{"lib/x.jar"}, jobs[0].Dependencies)
	assert.True(t, jobs[0].Options["debug"].RawEquals(cty.True))
}

func TestTargetOf_AddsPrerequisite(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{"api/Api.lang": "api", "app/Main.lang": "main"})

	api := f.define(t, "api:compile").From("api")
	api.Into("build/api")
	app := f.define(t, "app:compile").From("app").With(compile.TargetOf(api))
	app.Into("build/app")

	assert.Contains(t, app.Prerequisites(), ":api:compile")
	require.NoError(t, f.graph.Invoke(context.Background(), "app:compile"))

	calls := f.fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"api/Api.lang"}, calls[0])
	assert.Equal(t, []string{"app/Main.lang"}, calls[1])
	assert.Equal(t, []string{"build/api"}, f.fake.Jobs()[1].Dependencies)
}

func TestInto_DefinesTargetFileTask(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, ".", map[string]string{"src/a.lang": "a"})
	ct := f.define(t, "compile").From("src")
	node := ct.Into("out")

	assert.Equal(t, "out", node.Path())
	assert.Equal(t, []string{":compile"}, node.Prerequisites())

	// Invoking the directory compiles into it.
	require.NoError(t, f.graph.Invoke(context.Background(), "out"))
	assert.FileExists(t, filepath.Join("out", "a.obj"))
}

func TestEndToEnd_ProjectLayout(t *testing.T) {
	t.Chdir(t.TempDir())
	javac := testutil.NewFakeCompiler("javac", "java", ".java", ".class")
	g := task.New()
	reg := compiler.NewRegistry(javac)

	testutil.Touch(t, "src/main/java/Foo.java", recent)
	require.NoError(t, os.MkdirAll("target/classes", 0o755))
	testutil.Touch(t, "target/classes", past)

	ct, err := compile.Define(g, reg, "compile", nil)
	require.NoError(t, err)
	ct.Bases("src/main", "target/classes")

	run := g.NewRun()
	require.NoError(t, run.Invoke(context.Background(), "compile"))

	assert.Equal(t, "javac", ct.Compiler().Name())
	m, err := ct.CompileMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"src/main/java/Foo.java": "target/classes/Foo.class"}, m)
	assert.FileExists(t, "target/classes/Foo.class")
	assert.False(t, ct.Needed(context.Background()))

	require.NoError(t, run.Invoke(context.Background(), "compile"))
	assert.Len(t, javac.Calls(), 1)
}

func TestDependOn(t *testing.T) {
	f := newFixture(t)
	ct := f.define(t, "compile")
	ct.SetResolver(compile.FileResolver{BaseDir: "libs"})

	require.NoError(t, ct.DependOn(context.Background(), "a.jar", "/abs/b.jar"))
	var paths []string
	for _, d := range ct.Dependencies() {
		paths = append(paths, d.Path())
	}
	assert.Equal(t, []string{filepath.Join("libs", "a.jar"), "/abs/b.jar"}, paths)

	err := ct.DependOn(context.Background(), "")
	assert.Error(t, err)
}
