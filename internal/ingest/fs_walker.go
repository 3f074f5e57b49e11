package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// FSWalker feeds the matching files under a root to a handler, one at a time.
type FSWalker struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> snapshots only
	SkipHidden  bool
	logger      *slog.Logger
}

func NewFSWalker(exts map[string]struct{}, skipHidden bool, logger *slog.Logger) *FSWalker {
	if logger == nil {
		logger = slog.Default()
	}
	if exts == nil {
		exts = DefaultExts(false)
	}
	return &FSWalker{AllowedExts: exts, SkipHidden: skipHidden, logger: logger}
}

// IngestDirectory walks root in lexical order and calls handle for each
// matching file. Handler and walk errors are counted and logged, never
// returned; only a cancelled context or an empty root stop the walk early.
func (w *FSWalker) IngestDirectory(ctx context.Context, root string, handle FileHandler) (DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return DirStats{}, errors.New("root path is required")
	}

	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			w.logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if w.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(path, w.AllowedExts) {
			return nil
		}
		stats.Matched++

		if err := handle(ctx, path); err != nil {
			w.logger.Warn("file failed", "file", path, "error", err)
			stats.Failed++
			return nil
		}
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walk: %w", err)
	}
	w.logger.Info("directory walked",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return stats, nil
}
