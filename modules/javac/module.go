// Package javac registers the Java compiler. It compiles .java files below
// src/main/java into .class files, with javac on the PATH.
package javac

import (
	"os"
	"strings"

	"github.com/vk/gridbuild/internal/compiler"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the compiler.Module interface for this package.
type Module struct {
	// Program overrides the javac executable.
	Program string
}

// Options lists the recognised compile options.
var Options = compiler.OptionSchema{
	Keys: map[string]cty.Type{
		"debug":    cty.Bool,
		"source":   cty.String,
		"target":   cty.String,
		"warnings": cty.Bool,
		"other":    cty.List(cty.String),
	},
}

// New returns the javac compiler.
func New(program string) *compiler.Command {
	if program == "" {
		program = "javac"
	}
	return &compiler.Command{
		Spec:    compiler.NewSpec("javac", "Java", "java", ".java", ".class"),
		Program: program,
		Args:    Args,
		Schema:  Options,
	}
}

// Args builds the javac command line.
func Args(files []string, job *compiler.Job) ([]string, error) {
	args := []string{"-d", job.Target}

	var debug, warnings bool
	if _, err := job.Options.Decode("debug", &debug); err != nil {
		return nil, err
	}
	if debug {
		args = append(args, "-g")
	}
	set, err := job.Options.Decode("warnings", &warnings)
	if err != nil {
		return nil, err
	}
	if set && !warnings {
		args = append(args, "-nowarn")
	}

	for _, flag := range []string{"source", "target"} {
		var v string
		ok, err := job.Options.Decode(flag, &v)
		if err != nil {
			return nil, err
		}
		if ok && v != "" {
			args = append(args, "-"+flag, v)
		}
	}

	if len(job.Dependencies) > 0 {
		args = append(args, "-cp", strings.Join(job.Dependencies, string(os.PathListSeparator)))
	}

	var other []string
	if _, err := job.Options.Decode("other", &other); err != nil {
		return nil, err
	}
	args = append(args, other...)

	return append(args, files...), nil
}

// Register registers the compiler.
func (m *Module) Register(r *compiler.Registry) {
	r.Add(New(m.Program))
}
