package task

import "strings"

// Args binds the positional values given to an invocation to the argument
// names a task declares. Names without a value bind to "".
type Args struct {
	names  []string
	values map[string]string
	extras []string
}

// NewArgs binds values to names in order. Values beyond the declared names
// are kept as extras.
func NewArgs(names []string, values []string) Args {
	a := Args{
		names:  append([]string(nil), names...),
		values: make(map[string]string, len(names)),
	}
	for i, name := range names {
		if i < len(values) {
			a.values[name] = values[i]
		} else {
			a.values[name] = ""
		}
	}
	if len(values) > len(names) {
		a.extras = append([]string(nil), values[len(names):]...)
	}
	return a
}

// Get returns the value bound to name.
func (a Args) Get(name string) string { return a.values[name] }

// Names returns the declared argument names.
func (a Args) Names() []string { return append([]string(nil), a.names...) }

// Extras returns the positional values that had no declared name.
func (a Args) Extras() []string { return append([]string(nil), a.extras...) }

// scoped rebinds the values of a to another task's argument names, which is
// how arguments flow from a dependent into its prerequisites.
func (a Args) scoped(names []string) Args {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = a.values[name]
	}
	return NewArgs(names, values)
}

// Target is a task reference with invocation arguments, as written on a
// command line: "name" or "name[arg1,arg2]".
type Target struct {
	Name string
	Args []string
}

// ParseTarget parses the "name[arg1,arg2]" notation.
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return Target{Name: s}
	}
	inner := s[open+1 : len(s)-1]
	var args []string
	if inner != "" {
		for _, v := range strings.Split(inner, ",") {
			args = append(args, strings.TrimSpace(v))
		}
	}
	return Target{Name: s[:open], Args: args}
}

func (t Target) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "[" + strings.Join(t.Args, ",") + "]"
}
