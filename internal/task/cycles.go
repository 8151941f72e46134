package task

import "fmt"

// DetectCycles checks the declared graph for dependency cycles and
// unresolvable prerequisites without invoking anything. Invocation catches
// the same cycles lazily; this lets a build fail before doing any work.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three sets of tasks:
	// permanent: fully visited and not part of a cycle.
	// onPath: currently on the recursion stack.
	// unvisited: all other tasks.
	permanent := make(map[*Task]bool)
	onPath := make(map[*Task]bool)
	var path []string

	var visit func(t *Task) error
	visit = func(t *Task) error {
		if permanent[t] {
			return nil
		}
		if onPath[t] {
			return &CycleError{Task: t.name, Chain: append([]string(nil), path...)}
		}

		onPath[t] = true
		path = append(path, t.name)
		for _, name := range t.Prerequisites() {
			prereq, err := g.Resolve(t.Scope(), name)
			if err != nil {
				return fmt.Errorf("resolving prerequisite of %q: %w", t.name, err)
			}
			if err := visit(prereq); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, t)
		permanent[t] = true
		return nil
	}

	for _, t := range g.Tasks() {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}
