package pipeline

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/ingest"
)

// ImportDirectory imports every file the walker yields under root, one unit
// at a time. Unit failures are reported in the results, never returned.
func (p *Processor) ImportDirectory(ctx context.Context, walker *ingest.FSWalker, root string) ([]UnitResult, ingest.DirStats, error) {
	var results []UnitResult
	stats, err := walker.IngestDirectory(ctx, root, func(ctx context.Context, path string) error {
		r := p.ProcessFile(ctx, path)
		results = append(results, r)
		return unitError(r)
	})
	return results, stats, err
}

// unitError turns a non-imported unit into an error for walker accounting.
func unitError(r UnitResult) error {
	switch r.Status {
	case constants.UnitImported:
		return nil
	case constants.UnitPartial:
		return fmt.Errorf("%d of %d records not persisted", r.Failed, r.Records)
	default:
		return r.Err
	}
}
