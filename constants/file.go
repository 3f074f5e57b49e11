package constants

import "strings"

// Source formats accepted by the import pipeline.
const (
	PDF      = "PDF"
	TXT      = "TXT"
	SNAPSHOT = "SNAPSHOT"
)

// DocumentExtensions holds the file extensions routed through text extraction.
var DocumentExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// SnapshotExtensions holds the file extensions loaded as persisted record snapshots.
var SnapshotExtensions = map[string]struct{}{
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the source format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	case "json":
		return SNAPSHOT
	default:
		return ""
	}
}
