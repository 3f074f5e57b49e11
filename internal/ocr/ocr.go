package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
	"github.com/joseph-ayodele/quotes-importer/internal/extract"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "nld"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit

	// MinTextChars is the amount of non-space text below which a PDF is
	// treated as scanned and rasterized for OCR. Default 20.
	MinTextChars int
}

// Extractor turns quote documents into text. It implements extract.TextExtractor.
type Extractor struct {
	cfg       Config
	runner    Runner
	pageCount PageCounter
	logger    *slog.Logger
}

// NewExtractor runs the poppler and tesseract binaries named in cfg. PDFs are
// checked with pdfcpu first.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{logger: logger}, logger).WithPageCounter(pdfcpuPageCount)
}

// NewExtractorWithRunner is NewExtractor with a custom command runner and no
// PDF inspection.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "nld"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 20
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract picks a strategy based on file extension. Every failure is a
// decode error for the document.
func (e *Extractor) Extract(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res extract.TextExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported document extension", "extension", ext)
		err = fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, common.DecodeError(path, err)
	}
	res.Text = Normalize(res.Text)
	e.logger.Info("text extracted",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	res := extract.TextExtractionResult{SourceType: constants.PDF, Method: "pdf-text"}

	declared, err := e.inspectPDF(path)
	if err != nil {
		return res, err
	}

	text, pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, fmt.Errorf("pdftotext: %w", err)
	}
	if countNonSpace(text) >= e.cfg.MinTextChars {
		res.Text, res.Pages = text, pages
		return res, nil
	}

	e.logger.Info("pdf has no text layer, running ocr", "path", path, "pages", pages)
	res.Warnings = append(res.Warnings, "no text layer; used ocr")
	text, pages, warns, err = e.pdfToOCR(ctx, path, declared)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, fmt.Errorf("pdf ocr: %w", err)
	}
	res.Text, res.Pages, res.Method = text, pages, "pdf-ocr"
	return res, nil
}

func (e *Extractor) extractPlain(path string) (extract.TextExtractionResult, error) {
	res := extract.TextExtractionResult{SourceType: constants.TXT, Method: "plain-text", Pages: 1}
	b, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	if !utf8.Valid(b) {
		return res, fmt.Errorf("%s is not valid UTF-8", filepath.Base(path))
	}
	res.Text = string(b)
	res.Pages += strings.Count(res.Text, "\f")
	return res, nil
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && r != '\f' && r != '\r' {
			n++
		}
	}
	return n
}
