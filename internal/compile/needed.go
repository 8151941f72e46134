package compile

import (
	"context"
	"os"
	"time"

	"github.com/vk/gridbuild/internal/ctxlog"
)

// Needed reports whether the task must compile. The checks run in order
// and the first one that applies decides:
//
//   - no sources: false
//   - no compiler or no target: true, so the action reports the problem
//   - no source file found: false
//   - target directory missing: true
//   - a target file missing or older than its source: true
//   - a dependency newer than the oldest target file: true
//   - otherwise: false
func (ct *CompileTask) Needed(ctx context.Context) bool {
	logger := ctxlog.FromContext(ctx)

	c := ct.Compiler()
	if len(ct.Sources()) == 0 {
		return false
	}
	target := ct.Target()
	if c == nil || target == "" {
		return true
	}

	m, err := ct.CompileMap()
	if err != nil {
		logger.Debug("Compile map failed, forcing compilation.", "error", err)
		return true
	}
	if len(m) == 0 {
		return false
	}

	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return true
	}

	var oldest time.Time
	for src, dst := range m {
		dstInfo, err := os.Stat(dst)
		if err != nil {
			logger.Debug("Target file missing.", "target", dst)
			return true
		}
		srcInfo, err := os.Stat(src)
		if err != nil {
			return true
		}
		if dstInfo.ModTime().Before(srcInfo.ModTime()) {
			logger.Debug("Source is newer than its target.", "source", src)
			return true
		}
		if oldest.IsZero() || dstInfo.ModTime().Before(oldest) {
			oldest = dstInfo.ModTime()
		}
	}

	for _, dep := range ct.Dependencies() {
		ts, err := dep.Timestamp()
		if err != nil {
			logger.Debug("Dependency has no timestamp.", "dependency", dep.Path(), "error", err)
			continue
		}
		if ts.After(oldest) {
			logger.Debug("Dependency is newer than the oldest target.", "dependency", dep.Path())
			return true
		}
	}
	return false
}
