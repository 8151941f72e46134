package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridbuild/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func TestFilter_Files(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"res/app.properties":     "a",
		"res/META-INF/beans.xml": "b",
		"res/notes.tmp":          "c",
		"single/logo.png":        "d",
	})
	src := filepath.Join(root, "res")
	out := filepath.Join(root, "out")

	t.Run("everything by default", func(t *testing.T) {
		f := NewFilter().From(src, filepath.Join(root, "single/logo.png"), filepath.Join(root, "missing")).Into(out)
		got, err := f.Files()
		require.NoError(t, err)
		want := map[string]string{
			filepath.Join(src, "app.properties"):        filepath.Join(out, "app.properties"),
			filepath.Join(src, "META-INF", "beans.xml"): filepath.Join(out, "META-INF", "beans.xml"),
			filepath.Join(src, "notes.tmp"):             filepath.Join(out, "notes.tmp"),
			filepath.Join(root, "single", "logo.png"):   filepath.Join(out, "logo.png"),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Files() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("include and exclude", func(t *testing.T) {
		f := NewFilter().From(src).Into(out).Include("*.properties", "META-INF/*").Exclude("beans.xml")
		got, err := f.Files()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			filepath.Join(src, "app.properties"): filepath.Join(out, "app.properties"),
		}, got)
	})

	t.Run("exclude only", func(t *testing.T) {
		f := NewFilter().From(src).Into(out).Exclude("*.tmp")
		got, err := f.Files()
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestFilter_RunCopiesStaleFilesOnly(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "res")
	out := filepath.Join(root, "out")
	testutil.WriteFiles(t, root, map[string]string{
		"res/a.txt":     "fresh a",
		"res/sub/b.txt": "fresh b",
		"out/a.txt":     "old a",
		"out/sub/b.txt": "kept b",
	})
	past := time.Now().Add(-time.Hour)
	testutil.Touch(t, filepath.Join(src, "a.txt"), time.Now())
	testutil.Touch(t, filepath.Join(out, "a.txt"), past)
	testutil.Touch(t, filepath.Join(src, "sub", "b.txt"), past)

	require.NoError(t, NewFilter().From(src).Into(out).Run(context.Background()))

	a, err := os.ReadFile(filepath.Join(out, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh a", string(a))

	b, err := os.ReadFile(filepath.Join(out, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "kept b", string(b))
}

func TestFilter_RunSubstitutesVariables(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"res/app.properties": "name=${name}\nversion=${version}\nliteral=$${name}",
	})
	out := filepath.Join(root, "out")

	f := NewFilter().From(filepath.Join(root, "res")).Into(out).Using(map[string]cty.Value{
		"name":    cty.StringVal("gridbuild"),
		"version": cty.NumberIntVal(3),
	})
	require.NoError(t, f.Run(context.Background()))

	got, err := os.ReadFile(filepath.Join(out, "app.properties"))
	require.NoError(t, err)
	assert.Equal(t, "name=gridbuild\nversion=3\nliteral=${name}", string(got))
}

func TestFilter_RunReportsUnknownVariables(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"res/a.txt": "${missing}"})

	f := NewFilter().From(filepath.Join(root, "res")).Into(filepath.Join(root, "out")).
		Using(map[string]cty.Value{"name": cty.StringVal("x")})
	err := f.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing")
}

func TestFilter_RunWithoutTarget(t *testing.T) {
	err := NewFilter().From(t.TempDir()).Run(context.Background())
	assert.ErrorContains(t, err, "no target")
}
