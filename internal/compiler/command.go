package compiler

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/vk/gridbuild/internal/ctxlog"
)

// ArgsFunc builds the argument list of a compiler process.
type ArgsFunc func(files []string, job *Job) ([]string, error)

// Command is a Compiler backed by an external program.
type Command struct {
	Spec
	Program string
	Args    ArgsFunc
	Schema  OptionSchema
	// Dir is the working directory of the process; empty means the current
	// one.
	Dir string
	// Env is appended to the environment of the process.
	Env []string
}

// Options implements Compiler.
func (c *Command) Options() OptionSchema { return c.Schema }

// Compile runs the program once for all files.
func (c *Command) Compile(ctx context.Context, files []string, job *Job) error {
	args, err := c.Args(files, job)
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running compiler.", "compiler", c.Name(), "program", c.Program, "files", len(files))

	cmd := exec.CommandContext(ctx, c.Program, args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return &ExecError{Program: c.Program, Output: out.String(), Err: err}
	}
	if out.Len() > 0 {
		logger.Debug("Compiler output.", "compiler", c.Name(), "output", out.String())
	}
	return nil
}
