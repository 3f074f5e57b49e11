package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

const (
	SheetImports = "Imports"
	SheetSummary = "Summary"
)

var importHeaders = []string{
	"Source",
	"Format",
	"Quote ID",
	"Status",
	"Records",
	"Persisted",
	"Failed",
	"Dropped",
	"Duration (ms)",
	"Error",
}

// Service renders import outcomes as an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ImportReportXLSX returns a workbook with one row per unit and a per-status summary.
func (s *Service) ImportReportXLSX(results []pipeline.UnitResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes the per-unit sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetImports); err != nil {
		return nil, err
	}
	for i, h := range importHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetImports, cell, h)
	}

	counts := map[constants.UnitStatus]int{}
	for i, r := range results {
		row := i + 2
		counts[r.Status]++

		var quoteID any = ""
		if r.QuoteID != nil {
			quoteID = *r.QuoteID
		}
		values := []any{
			r.Source,
			r.Format,
			quoteID,
			string(r.Status),
			r.Records,
			r.Persisted,
			r.Failed,
			r.Dropped,
			r.Duration.Milliseconds(),
			truncate(r.ErrString(), 240),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetImports, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(SheetImports, "A", "A", 48) // source
	_ = f.SetColWidth(SheetImports, "B", "D", 12)
	_ = f.SetColWidth(SheetImports, "E", "I", 11)
	_ = f.SetColWidth(SheetImports, "J", "J", 60) // error

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	_ = f.SetSheetRow(SheetSummary, "A1", &[]any{"Status", "Units"})
	row := 2
	for _, st := range []constants.UnitStatus{constants.UnitImported, constants.UnitPartial, constants.UnitRejected, constants.UnitSkipped} {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetSheetRow(SheetSummary, cell, &[]any{string(st), counts[st]})
		row++
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(SheetSummary, cell, &[]any{"TOTAL", len(results)})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteImportReport writes the workbook to path.
func (s *Service) WriteImportReport(path string, results []pipeline.UnitResult) error {
	b, err := s.ImportReportXLSX(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
