package config

import "context"

// Loader is the interface for a format-specific build file loader.
type Loader interface {
	// Load reads the build files found at paths and translates them into
	// the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
