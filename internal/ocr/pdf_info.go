package ocr

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCounter reads the page count of a PDF, failing when the file is not a
// readable PDF.
type PageCounter func(path string) (int, error)

func pdfcpuPageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("not a readable pdf: %w", err)
	}
	return n, nil
}

// WithPageCounter replaces the PDF page inspection; nil disables it.
func (e *Extractor) WithPageCounter(fn PageCounter) *Extractor {
	e.pageCount = fn
	return e
}

// inspectPDF validates the document before any external tool runs. It
// returns 0 when inspection is disabled.
func (e *Extractor) inspectPDF(path string) (int, error) {
	if e.pageCount == nil {
		return 0, nil
	}
	n, err := e.pageCount(path)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}
