// Package fsutil provides file system utility functions shared by the build
// file loader, the compilers and the incremental checks.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths in
// lexical order. A root that is itself a matching file is returned as is.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ContainsExtension reports whether rootPath is, or contains, a file ending
// with extension. Unreadable paths count as not containing one.
func ContainsExtension(rootPath string, extension string) bool {
	found := false
	_ = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// NewestModTime returns the latest modification time of rootPath and
// everything beneath it.
func NewestModTime(rootPath string) (time.Time, error) {
	var newest time.Time
	err := filepath.WalkDir(rootPath, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return newest, nil
}

// Exists reports whether path exists. Errors other than fs.ErrNotExist are
// returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
