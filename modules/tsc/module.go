// Package tsc registers the TypeScript compiler. Options it does not know
// are passed to tsc as --<name> flags.
package tsc

import (
	"fmt"
	"os"

	"github.com/vk/gridbuild/internal/compiler"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Module implements the compiler.Module interface for this package.
type Module struct {
	Program string
}

// Options lists the documented compile options.
var Options = compiler.OptionSchema{
	Keys: map[string]cty.Type{
		"target": cty.String,
		"strict": cty.Bool,
	},
	PassThrough: true,
}

// New returns the tsc compiler.
func New(program string) *compiler.Command {
	if program == "" {
		program = "tsc"
	}
	return &compiler.Command{
		Spec:    compiler.NewSpec("tsc", "TypeScript", "typescript", ".ts", ".js"),
		Program: program,
		Args:    Args,
		Schema:  Options,
	}
}

// Args builds the tsc command line. With a single source directory it is
// used as --rootDir so that the output keeps the source layout.
func Args(files []string, job *compiler.Job) ([]string, error) {
	args := []string{"--outDir", job.Target}
	if len(job.Sources) == 1 {
		if info, err := os.Stat(job.Sources[0]); err == nil && info.IsDir() {
			args = append(args, "--rootDir", job.Sources[0])
		}
	}

	for _, key := range job.Options.Keys() {
		v := job.Options[key]
		if v.IsNull() {
			continue
		}
		switch {
		case v.Type() == cty.Bool:
			if v.True() {
				args = append(args, "--"+key)
			}
		case v.Type().IsPrimitiveType():
			s, err := convert.Convert(v, cty.String)
			if err != nil {
				return nil, fmt.Errorf("option %q: %w", key, err)
			}
			args = append(args, "--"+key, s.AsString())
		default:
			list, err := convert.Convert(v, cty.List(cty.String))
			if err != nil {
				return nil, fmt.Errorf("option %q: %w", key, err)
			}
			for _, item := range list.AsValueSlice() {
				args = append(args, "--"+key, item.AsString())
			}
		}
	}

	return append(args, files...), nil
}

// Register registers the compiler.
func (m *Module) Register(r *compiler.Registry) {
	r.Add(New(m.Program))
}
