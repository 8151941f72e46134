// This file contains the logic for translating the decoded HCL blocks into
// the format-agnostic configuration model defined in the config package.

package hcl

import (
	"fmt"

	"github.com/vk/gridbuild/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// mergeRoot adds the top-level blocks of one file to the root project.
func mergeRoot(root *config.Project, body *fileRoot) error {
	if body.Compile != nil {
		if root.Compile != nil {
			return fmt.Errorf("duplicate top-level compile block")
		}
		c, err := translateCompile(body.Compile)
		if err != nil {
			return err
		}
		root.Compile = c
	}
	if body.Resources != nil {
		if root.Resources != nil {
			return fmt.Errorf("duplicate top-level resources block")
		}
		r, err := translateResources(body.Resources)
		if err != nil {
			return err
		}
		root.Resources = r
	}
	for _, t := range body.Tasks {
		root.Tasks = append(root.Tasks, translateTask(t))
	}
	for _, p := range body.Projects {
		child, err := translateProject(p)
		if err != nil {
			return err
		}
		root.Projects = append(root.Projects, child)
	}
	return nil
}

// translateProject converts a project block. Its directory defaults to the
// project name.
func translateProject(b *projectBlock) (*config.Project, error) {
	dir := b.Dir
	if dir == "" {
		dir = b.Name
	}

	p := &config.Project{
		Name:        b.Name,
		Dir:         dir,
		Description: b.Description,
	}
	if b.Compile != nil {
		c, err := translateCompile(b.Compile)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", b.Name, err)
		}
		p.Compile = c
	}
	if b.Resources != nil {
		r, err := translateResources(b.Resources)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", b.Name, err)
		}
		p.Resources = r
	}
	for _, t := range b.Tasks {
		p.Tasks = append(p.Tasks, translateTask(t))
	}
	for _, child := range b.Projects {
		c, err := translateProject(child)
		if err != nil {
			return nil, err
		}
		p.Projects = append(p.Projects, c)
	}
	return p, nil
}

func translateCompile(b *compileBlock) (*config.Compile, error) {
	opts, err := objectAttributes("options", b.Options)
	if err != nil {
		return nil, err
	}
	return &config.Compile{
		Using:   b.Using,
		From:    b.From,
		Into:    b.Into,
		With:    b.With,
		Options: opts,
	}, nil
}

func translateResources(b *resourcesBlock) (*config.Resources, error) {
	vars, err := objectAttributes("variables", b.Variables)
	if err != nil {
		return nil, err
	}
	return &config.Resources{
		From:      b.From,
		Into:      b.Into,
		Include:   b.Include,
		Exclude:   b.Exclude,
		Variables: vars,
	}, nil
}

func translateTask(b *taskBlock) *config.Task {
	return &config.Task{
		Name:        b.Name,
		Description: b.Description,
		DependsOn:   b.DependsOn,
		Args:        b.Args,
		Run:         b.Run,
		Env:         b.Env,
	}
}

// objectAttributes splits an object or map value into its attributes. An
// absent attribute decodes as the null value.
func objectAttributes(attr string, v cty.Value) (map[string]cty.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", attr, ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%s must be known when the build file is loaded", attr)
	}
	return v.AsValueMap(), nil
}
