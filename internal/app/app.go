package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/quotes-importer/internal/assemble"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/ingest"
	"github.com/joseph-ayodele/quotes-importer/internal/lookup"
	"github.com/joseph-ayodele/quotes-importer/internal/normalize"
	"github.com/joseph-ayodele/quotes-importer/internal/ocr"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
	"github.com/joseph-ayodele/quotes-importer/internal/repository"
)

// App is the wired import pipeline shared by the binaries.
type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	Gateway   repository.Gateway // nil when built without persistence
	Lookup    *lookup.Table
	Processor *pipeline.Processor
}

// NewLogger returns the JSON logger used by every binary and makes it the default.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Build wires extraction, lookup, normalization and, when persist is set, the
// configured gateway.
func Build(ctx context.Context, cfg *common.Config, persist bool, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if cfg.Lookup.Path != "" {
		t, err := lookup.Load(cfg.Lookup.Path)
		if err != nil {
			logger.Error("failed to load campaign lookup", "path", cfg.Lookup.Path, "error", err)
			return nil, err
		}
		logger.Info("campaign lookup loaded", "path", cfg.Lookup.Path, "entries", t.Len())
		a.Lookup = t
	}

	snaps, err := ingest.NewSnapshotLoader(logger)
	if err != nil {
		logger.Error("failed to compile snapshot schema", "error", err)
		return nil, err
	}

	deps := pipeline.Deps{
		Text: ocr.NewExtractor(ocr.Config{
			Pdftotext:     cfg.OCR.Pdftotext,
			Pdftoppm:      cfg.OCR.Pdftoppm,
			Tesseract:     cfg.OCR.Tesseract,
			TesseractLang: cfg.OCR.TesseractLang,
		}, logger),
		Normalizer: normalize.New(),
		Snapshots:  snaps,
	}
	if a.Lookup != nil {
		deps.Assembler = assemble.New(a.Lookup, logger)
	}

	if persist {
		gw, err := repository.Open(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to open gateway", "kind", cfg.Gateway.Kind, "error", err)
			return nil, err
		}
		a.Gateway = gw
		deps.Gateway = gw
	}

	a.Processor = pipeline.NewProcessor(logger, deps)
	return a, nil
}

// Close releases the gateway, if any.
func (a *App) Close() {
	if a.Gateway == nil {
		return
	}
	if err := a.Gateway.Close(); err != nil {
		a.Logger.Error("failed to close gateway", "error", err)
	}
}
