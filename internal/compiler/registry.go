package compiler

import (
	"fmt"
	"sync"
)

// Module is implemented by packages that contribute compilers.
type Module interface {
	Register(r *Registry)
}

// Registry holds the known compilers in priority order. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	compilers []Compiler
	index     map[string]int
}

// NewRegistry creates a registry and registers the given modules in order.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Add registers c. A compiler with the same name is replaced in place and
// keeps its priority.
func (r *Registry) Add(c Compiler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[c.Name()]; ok {
		r.compilers[i] = c
		return
	}
	r.index[c.Name()] = len(r.compilers)
	r.compilers = append(r.compilers, c)
}

// Identify returns the first registered compiler that recognises the
// criteria, or nil.
func (r *Registry) Identify(c Criteria) Compiler {
	for _, comp := range r.all() {
		if comp.Identify(c) {
			return comp
		}
	}
	return nil
}

// Select returns the compiler registered under name.
func (r *Registry) Select(name string) (Compiler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCompiler, name)
	}
	return r.compilers[i], nil
}

// Names lists the registered compilers in priority order.
func (r *Registry) Names() []string {
	all := r.all()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name()
	}
	return names
}

func (r *Registry) all() []Compiler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Compiler(nil), r.compilers...)
}
