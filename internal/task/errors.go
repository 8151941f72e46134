package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTask is returned when a task name cannot be resolved.
	ErrUnknownTask = errors.New("unknown task")
	// ErrCircularDependency is returned when a task reappears in its own
	// invocation chain or the declared graph contains a cycle.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrConfiguration marks a task that cannot run as configured.
	ErrConfiguration = errors.New("configuration error")
)

// CycleError reports a task that is already part of the active invocation
// chain.
type CycleError struct {
	Task  string
	Chain []string
}

func (e *CycleError) Error() string {
	path := append(append([]string{}, e.Chain...), e.Task)
	return fmt.Sprintf("%s detected: %s", ErrCircularDependency, strings.Join(path, " => "))
}

func (e *CycleError) Unwrap() error { return ErrCircularDependency }

// ConfigError reports a task whose definition does not allow it to run.
type ConfigError struct {
	Task string
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s in task %q: %s", ErrConfiguration, e.Task, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// Configf builds a ConfigError for the named task.
func Configf(task, format string, args ...any) error {
	return &ConfigError{Task: task, Msg: fmt.Sprintf(format, args...)}
}

// TaskError is the failure of one of a task's actions. Files lists the
// inputs the action was working on, when it knows them.
type TaskError struct {
	Task  string
	Files []string
	Err   error
}

func (e *TaskError) Error() string {
	if len(e.Files) == 0 {
		return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
	}
	return fmt.Sprintf("task %q failed on %d file(s) [%s]: %v", e.Task, len(e.Files), strings.Join(e.Files, ", "), e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

func unknownTask(name, context string) error {
	if context == "" {
		return fmt.Errorf("%w %q", ErrUnknownTask, name)
	}
	return fmt.Errorf("%w %q (%s)", ErrUnknownTask, name, context)
}
