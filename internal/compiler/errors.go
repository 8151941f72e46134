package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCompiler is returned when selecting a name that was never
	// registered.
	ErrUnknownCompiler = errors.New("unknown compiler")
	// ErrCompilerConflict is returned when a task that already uses one
	// compiler is asked to use another.
	ErrCompilerConflict = errors.New("compiler conflict")
	// ErrUnknownOption is returned for an option key a compiler does not
	// recognise and cannot pass through.
	ErrUnknownOption = errors.New("unknown option")
)

// ExecError is the failure of an external compiler process. Output holds
// what the process wrote to stdout and stderr.
type ExecError struct {
	Program string
	Output  string
	Err     error
}

func (e *ExecError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Program, e.Err, out)
}

func (e *ExecError) Unwrap() error { return e.Err }
