package tsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridbuild/internal/compiler"
	"github.com/zclconf/go-cty/cty"
)

func TestArgs(t *testing.T) {
	dir := t.TempDir()
	opts, err := Options.Validate(compiler.Options{
		"strict":    cty.StringVal("true"),
		"target":    cty.StringVal("es2020"),
		"sourceMap": cty.False,
		"lib":       cty.TupleVal([]cty.Value{cty.StringVal("dom"), cty.StringVal("es2020")}),
	})
	require.NoError(t, err)

	got, err := Args([]string{dir + "/app.ts"}, &compiler.Job{
		Sources: []string{dir},
		Target:  "dist",
		Options: opts,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--outDir", "dist",
		"--rootDir", dir,
		"--lib", "dom", "--lib", "es2020",
		"--strict",
		"--target", "es2020",
		dir + "/app.ts",
	}, got)
}

func TestModule_Register(t *testing.T) {
	reg := compiler.NewRegistry(&Module{Program: "/opt/node/bin/tsc"})
	c, err := reg.Select("tsc")
	require.NoError(t, err)
	assert.Equal(t, "typescript", c.SourcePath())
	assert.Equal(t, "/opt/node/bin/tsc", c.(*compiler.Command).Program)
}
