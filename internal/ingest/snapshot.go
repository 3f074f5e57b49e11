package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
)

// BuildSnapshotJSONSchema returns the accepted top-level shape of a snapshot
// file as a generic map. Record contents are checked later by the normalizer.
func BuildSnapshotJSONSchema() map[string]any {
	record := map[string]any{"type": []any{"object", "null"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Campaigns": record,
			"Clients":   record,
			"Contacts":  record,
			"Logs":      map[string]any{"type": []any{"object", "array", "null"}},
			"Products": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "object"},
			},
		},
	}
}

// SnapshotLoader reads persisted record snapshot files.
type SnapshotLoader struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewSnapshotLoader(logger *slog.Logger) (*SnapshotLoader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := json.Marshal(BuildSnapshotJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("snapshot.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("snapshot.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SnapshotLoader{schema: schema, logger: logger}, nil
}

// Load reads and decodes the snapshot at path.
func (l *SnapshotLoader) Load(path string) (entity.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Unit{}, common.DecodeError(path, err)
	}
	return l.Decode(path, data)
}

// Decode validates data against the snapshot shape and converts it into a
// unit. Any failure is a decode error for source.
func (l *SnapshotLoader) Decode(source string, data []byte) (entity.Unit, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return entity.Unit{}, common.DecodeError(source, fmt.Errorf("unmarshal data: %w", err))
	}
	if err := l.schema.Validate(v); err != nil {
		return entity.Unit{}, common.DecodeError(source, fmt.Errorf("json does not match schema: %w", err))
	}
	var u entity.Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return entity.Unit{}, common.DecodeError(source, err)
	}
	if u.Dropped > 0 {
		l.logger.Warn("skipping invalid log entries", "file", source, "count", u.Dropped)
	}
	return u, nil
}
