package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: document -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TXT
	Method     string // "pdf-text" | "pdf-ocr" | "plain-text"
	Duration   time.Duration
	Warnings   []string
}

// FieldExtractor is Stage 2: text -> fields. Implementations never fail; a
// field they cannot find is left absent.
type FieldExtractor interface {
	ExtractFields(text string) Fields
}
