// Package compile implements the incremental compile task.
//
// A CompileTask is a task that turns the files of its source directories
// into files of its target directory using a compiler.Compiler. The
// compiler is picked lazily from a compiler.Registry the first time it is
// needed, unless one was chosen explicitly with Using. The task only runs
// when its target is stale: a target file is missing or older than its
// source, or a dependency artifact is newer than the oldest target file.
//
//	javac, _ := compile.Define(g, reg, "core:compile", nil)
//	javac.From("src/main/java").WithFiles("lib/api.jar")
//	javac.Into("target/classes")
//
// After a successful compile the target directory's modification time is
// refreshed, so file tasks depending on it see it as updated.
package compile
