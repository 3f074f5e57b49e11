package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/quotes-importer/constants"
)

// DirStats summarizes a directory import.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// FileHandler processes one discovered file. An error marks the file failed;
// the walk goes on.
type FileHandler func(ctx context.Context, path string) error

// DefaultExts returns the extensions imported by default: snapshots, plus
// documents when withDocs is set.
func DefaultExts(withDocs bool) map[string]struct{} {
	exts := make(map[string]struct{}, len(constants.SnapshotExtensions)+len(constants.DocumentExtensions))
	for e := range constants.SnapshotExtensions {
		exts[e] = struct{}{}
	}
	if withDocs {
		for e := range constants.DocumentExtensions {
			exts[e] = struct{}{}
		}
	}
	return exts
}

// AllowedExt reports whether path has one of the extensions in exts.
func AllowedExt(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
