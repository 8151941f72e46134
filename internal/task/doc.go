// Package task is the execution core of gridbuild: a graph of named build
// steps that is walked lazily, depth first and dependency first, running each
// task's actions at most once per build run.
//
// # Model
//
// A Graph owns every Task of a build. Tasks are defined by name (Define is
// lookup-or-create, so several declaration sites may contribute to one
// logical task) and reference their prerequisites by name only. Names are
// resolved through the Graph when a task is invoked, relative to the
// dependent's namespace first ("app:core:compile" looking for "resources"
// tries "app:core:resources", "app:resources" and then "resources").
//
// # Invocation
//
// A Run is one top-level build request. It remembers which tasks it has
// already invoked, which is what collapses diamond shaped graphs into a single
// execution of every shared node. Within a run, the current Chain (the stack
// of task names being invoked) travels in the context.Context handed to every
// action, so tasks invoked ad hoc from inside an action see the right chain
// and a task reappearing in its own chain fails with a CycleError before any
// of its actions run.
//
// Each Task owns a mutex held for the whole of its invocation, so concurrent
// runs sharing one Graph never execute the actions of the same task at the
// same time. Unrelated tasks of concurrent runs may execute in parallel.
//
// # Staleness
//
// A task runs its actions only if its Needer says so. Plain tasks are always
// needed; file nodes (Graph.File) and the compile and resources tasks built on
// top of this package install their own filesystem based predicates.
package task
