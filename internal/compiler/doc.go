// Package compiler defines the strategy interface implemented by language
// compilers and the Registry that selects one for a compile task.
//
// A Compiler is stateless with respect to any single task: it identifies
// whether a set of source directories is written in its language, fills in
// a task's default source and target directories, maps source files to the
// files they compile into, and finally compiles. Concrete compilers usually
// embed Spec, which implements everything but Compile and Options.
//
// Registration order is a priority order. When several compilers could
// handle the same sources, the first one registered wins.
package compiler
