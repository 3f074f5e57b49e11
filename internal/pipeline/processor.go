package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/assemble"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/entity"
	"github.com/joseph-ayodele/quotes-importer/internal/extract"
	"github.com/joseph-ayodele/quotes-importer/internal/ingest"
	"github.com/joseph-ayodele/quotes-importer/internal/normalize"
)

// Persister is the part of the persistence gateway the pipeline needs.
type Persister interface {
	Upsert(ctx context.Context, table constants.Table, rec entity.Record) error
}

// Processor runs import units through extraction, assembly, normalization and
// persistence. Units are independent: a failing unit never affects the next.
type Processor struct {
	logger     *slog.Logger
	text       extract.TextExtractor
	fields     extract.FieldExtractor
	assembler  *assemble.Assembler
	normalizer *normalize.Normalizer
	snapshots  *ingest.SnapshotLoader
	gateway    Persister
}

type Deps struct {
	Text       extract.TextExtractor  // required for documents
	Fields     extract.FieldExtractor // default extract.NewRuleExtractor()
	Assembler  *assemble.Assembler    // default assemble.New(nil, logger)
	Normalizer *normalize.Normalizer  // default normalize.New()
	Snapshots  *ingest.SnapshotLoader // required for snapshot files
	Gateway    Persister              // required to import
}

func NewProcessor(logger *slog.Logger, deps Deps) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Fields == nil {
		deps.Fields = extract.NewRuleExtractor()
	}
	if deps.Assembler == nil {
		deps.Assembler = assemble.New(nil, logger)
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalize.New()
	}
	return &Processor{
		logger:     logger,
		text:       deps.Text,
		fields:     deps.Fields,
		assembler:  deps.Assembler,
		normalizer: deps.Normalizer,
		snapshots:  deps.Snapshots,
		gateway:    deps.Gateway,
	}
}

func (p *Processor) log(ctx context.Context) *slog.Logger {
	l := p.logger
	if id := common.RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if src := common.SourceFromContext(ctx); src != "" {
		l = l.With("source", src)
	}
	return l
}

// ParseText runs field extraction and assembly over text.
func (p *Processor) ParseText(text string) entity.Bundle {
	return p.assembler.Assemble(p.fields.ExtractFields(text))
}

// ParseDocument extracts the text of the document at path and assembles it.
// It does not persist anything.
func (p *Processor) ParseDocument(ctx context.Context, path string) (entity.Bundle, extract.TextExtractionResult, error) {
	if p.text == nil {
		return entity.Bundle{}, extract.TextExtractionResult{}, errors.New("no text extractor configured")
	}
	res, err := p.text.Extract(ctx, path)
	if err != nil {
		return entity.Bundle{}, res, err
	}
	return p.ParseText(res.Text), res, nil
}

// ProcessFile imports one file, dispatching on its extension.
func (p *Processor) ProcessFile(ctx context.Context, path string) UnitResult {
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.SNAPSHOT:
		return p.ProcessSnapshot(ctx, path)
	case constants.PDF, constants.TXT:
		return p.ProcessDocument(ctx, path)
	default:
		return p.skipped(ctx, UnitResult{Source: path},
			common.DecodeError(path, fmt.Errorf("unsupported extension %q", filepath.Ext(path))))
	}
}

// ProcessDocument imports a quote document.
func (p *Processor) ProcessDocument(ctx context.Context, path string) UnitResult {
	start := time.Now()
	ctx = common.WithSource(ctx, path)
	r := UnitResult{Source: path, Format: constants.MapExtToFormat(filepath.Ext(path))}

	b, _, err := p.ParseDocument(ctx, path)
	if err != nil {
		r.Duration = time.Since(start)
		return p.skipped(ctx, r, err)
	}
	r = p.ImportBundle(ctx, path, b)
	r.Format = constants.MapExtToFormat(filepath.Ext(path))
	r.Duration = time.Since(start)
	return r
}

// ProcessText imports the quote contained in already extracted text.
func (p *Processor) ProcessText(ctx context.Context, source, text string) UnitResult {
	start := time.Now()
	r := p.ImportBundle(ctx, source, p.ParseText(text))
	r.Format = constants.TXT
	r.Duration = time.Since(start)
	return r
}

// ProcessSnapshot imports a persisted record snapshot file.
func (p *Processor) ProcessSnapshot(ctx context.Context, path string) UnitResult {
	start := time.Now()
	ctx = common.WithSource(ctx, path)
	r := UnitResult{Source: path, Format: constants.SNAPSHOT}
	if p.snapshots == nil {
		return p.skipped(ctx, r, errors.New("no snapshot loader configured"))
	}

	u, err := p.snapshots.Load(path)
	if err != nil {
		r.Duration = time.Since(start)
		return p.skipped(ctx, r, err)
	}
	r = p.ImportUnit(ctx, path, u)
	r.Format = constants.SNAPSHOT
	r.Duration = time.Since(start)
	return r
}

// ImportBundle normalizes and persists an assembled bundle.
func (p *Processor) ImportBundle(ctx context.Context, source string, b entity.Bundle) UnitResult {
	u, err := b.Unit()
	if err != nil {
		return p.skipped(ctx, UnitResult{Source: source}, common.DecodeError(source, err))
	}
	return p.ImportUnit(ctx, source, u)
}

// ImportUnit normalizes the whole unit first; a coercion failure rejects it
// before any record reaches the gateway. Records are then persisted one by
// one in table order, and a failing record does not stop its siblings.
func (p *Processor) ImportUnit(ctx context.Context, source string, u entity.Unit) UnitResult {
	if common.SourceFromContext(ctx) == "" {
		ctx = common.WithSource(ctx, source)
	}
	logger := p.log(ctx)
	r := UnitResult{Source: source, Dropped: u.Dropped}

	if p.gateway == nil {
		return p.skipped(ctx, r, errors.New("no persistence gateway configured"))
	}

	norm, err := p.normalizer.NormalizeUnit(u)
	if err != nil {
		r.Status = constants.UnitRejected
		r.Err = err
		logger.Warn("unit rejected", "error", err)
		return r
	}
	if id, ok := norm.Campaigns["id"].(int64); ok {
		r.QuoteID = &id
	}

	for _, table := range constants.PersistOrder {
		for _, rec := range norm.Rows(table) {
			r.Records++
			if err := p.gateway.Upsert(ctx, table, rec); err != nil {
				r.Failed++
				logger.Error("record not persisted",
					"table", table.String(),
					"key", rec[table.KeyColumn()],
					"error", common.PersistenceError(table.String(), err),
				)
				continue
			}
			r.Persisted++
		}
	}

	r.Status = constants.UnitImported
	if r.Failed > 0 {
		r.Status = constants.UnitPartial
	}
	logger.Info("unit imported",
		"status", r.Status,
		"records", r.Records,
		"persisted", r.Persisted,
		"failed", r.Failed,
	)
	return r
}

func (p *Processor) skipped(ctx context.Context, r UnitResult, err error) UnitResult {
	r.Status = constants.UnitSkipped
	r.Err = err
	p.log(ctx).Warn("unit skipped", "file", r.Source, "error", err)
	return r
}
