// Package config defines the format-agnostic model of a build description,
// along with the Loader interface for reading it from build files.
//
// The Model is what the app turns into a task graph. Concrete loaders, such
// as the HCL one, are provided in separate packages.
package config
