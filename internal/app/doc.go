// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle: load the build files,
// turn them into a task graph, and invoke the requested targets. It is
// decoupled from any specific entrypoint like a CLI.
package app
