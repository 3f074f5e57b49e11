package export

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func sampleResults() []pipeline.UnitResult {
	id := int64(482)
	return []pipeline.UnitResult{
		{Source: "q482.pdf", Format: constants.PDF, QuoteID: &id, Status: constants.UnitImported, Records: 6, Persisted: 6, Duration: 40 * time.Millisecond},
		{Source: "bad.json", Format: constants.SNAPSHOT, Status: constants.UnitSkipped, Err: errors.New("decode failed")},
		{Source: "q483.txt", Format: constants.TXT, Status: constants.UnitPartial, Records: 5, Persisted: 4, Failed: 1},
	}
}

func TestImportReportXLSX(t *testing.T) {
	b, err := NewService(quietLogger()).ImportReportXLSX(sampleResults())
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetImports)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Source" || rows[0][3] != "Status" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "q482.pdf" || rows[1][2] != "482" || rows[1][3] != "IMPORTED" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[2][2] != "" || rows[2][3] != "SKIPPED" || rows[2][9] != "decode failed" {
		t.Fatalf("row 2 = %v", rows[2])
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, r := range summary[1:] {
		got[r[0]] = r[1]
	}
	if got["IMPORTED"] != "1" || got["PARTIAL"] != "1" || got["SKIPPED"] != "1" || got["REJECTED"] != "0" || got["TOTAL"] != "3" {
		t.Fatalf("summary = %v", got)
	}
}

func TestWriteImportReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := NewService(quietLogger()).WriteImportReport(path, nil); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetImports)
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
}
