package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A build file with a syntax error fails inside app.NewApp().
	invalidHCL := `
		task "broken" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "build.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	args := []string{"-f", filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup failed")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_ListsTasks(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	build := `
		task "hello" {
		  description = "Prints a greeting."
		  run         = ["echo", "hello"]
		}
	`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "build.hcl"), []byte(build), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-f", tempDir, "--log-level", "error", "--list"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "hello")
	require.Contains(t, out.String(), "# Prints a greeting.")
}

func TestRun_InvokesTarget(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	build := `
		task "touch" {
		  run = ["sh", "-c", "echo done > marker"]
		}
	`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "build.hcl"), []byte(build), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-f", tempDir, "--log-level", "error", "touch"})

	require.NoError(t, err)
	require.FileExists(t, filepath.Join(tempDir, "marker"))
}
