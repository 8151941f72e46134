package app

import "errors"

// DefaultTarget is invoked when no target is given.
const DefaultTarget = "build"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildPath string // build file or directory of build files
	Targets   []string

	LogFormat string
	LogLevel  string
	// EventsURL, when set, streams build events to a socket.io server.
	EventsURL string
	// List prints the tasks instead of running targets.
	List bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildPath == "" {
		return nil, errors.New("BuildPath is a required configuration field and cannot be empty")
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{DefaultTarget}
	}
	return &cfg, nil
}
