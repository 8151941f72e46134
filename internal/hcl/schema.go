package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. The top level of a file is the root project.
type fileRoot struct {
	Compile   *compileBlock   `hcl:"compile,block"`
	Resources *resourcesBlock `hcl:"resources,block"`
	Tasks     []*taskBlock    `hcl:"task,block"`
	Projects  []*projectBlock `hcl:"project,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

// projectBlock represents a `project` block. Projects nest.
type projectBlock struct {
	Name        string          `hcl:"name,label"`
	Dir         string          `hcl:"dir,optional"`
	Description string          `hcl:"description,optional"`
	Compile     *compileBlock   `hcl:"compile,block"`
	Resources   *resourcesBlock `hcl:"resources,block"`
	Tasks       []*taskBlock    `hcl:"task,block"`
	Projects    []*projectBlock `hcl:"project,block"`
}

type compileBlock struct {
	Using   string    `hcl:"using,optional"`
	From    []string  `hcl:"from,optional"`
	Into    string    `hcl:"into,optional"`
	With    []string  `hcl:"with,optional"`
	Options cty.Value `hcl:"options,optional"`
}

type resourcesBlock struct {
	From      []string  `hcl:"from,optional"`
	Into      string    `hcl:"into,optional"`
	Include   []string  `hcl:"include,optional"`
	Exclude   []string  `hcl:"exclude,optional"`
	Variables cty.Value `hcl:"variables,optional"`
}

type taskBlock struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	DependsOn   []string          `hcl:"depends_on,optional"`
	Args        []string          `hcl:"args,optional"`
	Run         []string          `hcl:"run,optional"`
	Env         map[string]string `hcl:"env,optional"`
}
