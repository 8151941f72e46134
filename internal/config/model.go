package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified, format-agnostic representation of a build.
type Model struct {
	// Root is the project of the directory holding the build files.
	Root *Project
}

// Project is a `project` block. Paths inside it are relative to Dir.
type Project struct {
	Name string
	// Dir is relative to the parent project's directory. The root project
	// has the directory of the build files.
	Dir         string
	Description string
	Compile     *Compile
	Resources   *Resources
	Tasks       []*Task
	Projects    []*Project
}

// Compile configures a project's compile task.
type Compile struct {
	Using   string
	From    []string
	Into    string
	With    []string
	Options map[string]cty.Value
}

// Resources configures a project's resources task.
type Resources struct {
	From      []string
	Into      string
	Include   []string
	Exclude   []string
	Variables map[string]cty.Value
}

// Task is a plain task, optionally running a command.
type Task struct {
	Name        string
	Description string
	DependsOn   []string
	Args        []string
	// Run is the argv of the command to run; empty for a task that only
	// groups prerequisites.
	Run []string
	Env map[string]string
}
