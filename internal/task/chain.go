package task

import "strings"

// Chain is the stack of task names currently being invoked. It is immutable:
// Append returns a new chain sharing its tail with the receiver, so a chain
// can be handed to concurrent invocations freely. The nil *Chain is the
// empty chain.
type Chain struct {
	parent *Chain
	name   string
	depth  int
}

// Append pushes name, failing with a *CycleError if it is already present.
func (c *Chain) Append(name string) (*Chain, error) {
	if c.Contains(name) {
		return nil, &CycleError{Task: name, Chain: c.Names()}
	}
	return &Chain{parent: c, name: name, depth: c.Len() + 1}, nil
}

// Contains reports whether name is on the chain.
func (c *Chain) Contains(name string) bool {
	for n := c; n != nil; n = n.parent {
		if n.name == name {
			return true
		}
	}
	return false
}

// Len returns the number of names on the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return c.depth
}

// Last returns the innermost name, or "" for the empty chain.
func (c *Chain) Last() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Names returns the chain outermost first.
func (c *Chain) Names() []string {
	names := make([]string, c.Len())
	i := len(names) - 1
	for n := c; n != nil; n = n.parent {
		names[i] = n.name
		i--
	}
	return names
}

func (c *Chain) String() string {
	return strings.Join(c.Names(), " => ")
}
