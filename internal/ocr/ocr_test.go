package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
)

type call struct {
	name string
	args []string
}

// stubRunner answers by binary name and records every call.
type stubRunner struct {
	calls     []call
	pdftotext string
	pdfErr    error
	pages     int
	tesseract string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	switch name {
	case "pdftotext":
		if s.pdfErr != nil {
			return nil, []byte("Syntax Error: broken"), s.pdfErr
		}
		return []byte(s.pdftotext), nil, nil
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(s.tesseract), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestExtractPDFTextLayer(t *testing.T) {
	r := &stubRunner{pdftotext: "Offertenummer: 482\r\nDigital Signage  Brussel  Scherm  2  25,00  € 50,00   \n\f"}
	e := NewExtractorWithRunner(Config{}, r, quietLogger())

	res, err := e.Extract(context.Background(), "quote.PDF")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "pdf-text" || res.SourceType != constants.PDF || res.Pages != 1 {
		t.Errorf("result = %+v", res)
	}
	want := "Offertenummer: 482\nDigital Signage  Brussel  Scherm  2  25,00  € 50,00"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if len(r.calls) != 1 {
		t.Fatalf("calls = %+v, want only pdftotext", r.calls)
	}
	if got := strings.Join(r.calls[0].args, " "); got != "-layout -enc UTF-8 -eol unix quote.PDF -" {
		t.Errorf("pdftotext args = %q", got)
	}
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	r := &stubRunner{pdftotext: "\f\f", pages: 2, tesseract: "Eindtotaal: € 121,00\n"}
	e := NewExtractorWithRunner(Config{TesseractLang: "nld"}, r, quietLogger())

	res, err := e.Extract(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "pdf-ocr" || res.Pages != 2 {
		t.Errorf("result = %+v", res)
	}
	if strings.Count(res.Text, "Eindtotaal") != 2 {
		t.Errorf("Text = %q", res.Text)
	}
	var tess int
	for _, c := range r.calls {
		if c.name == "tesseract" {
			tess++
			if c.args[1] != "stdout" || c.args[3] != "nld" {
				t.Errorf("tesseract args = %v", c.args)
			}
		}
	}
	if tess != 2 {
		t.Errorf("tesseract calls = %d, want 2", tess)
	}
}

func TestExtractFailuresAreDecodeErrors(t *testing.T) {
	r := &stubRunner{pdfErr: errors.New("exit status 1")}
	e := NewExtractorWithRunner(Config{}, r, quietLogger())

	_, err := e.Extract(context.Background(), "broken.pdf")
	if !errors.Is(err, common.ErrDecode) {
		t.Fatalf("Extract(broken.pdf) error = %v, want ErrDecode", err)
	}
	_, err = e.Extract(context.Background(), "quote.docx")
	if !errors.Is(err, common.ErrDecode) {
		t.Fatalf("Extract(docx) error = %v, want ErrDecode", err)
	}
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quote.txt")
	if err := os.WriteFile(path, []byte("Offertenummer: 7\n\n\n\nEindtotaal: € 1,00\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}

	e := NewExtractorWithRunner(Config{}, &stubRunner{}, quietLogger())
	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "plain-text" || res.Text != "Offertenummer: 7\n\nEindtotaal: € 1,00" {
		t.Errorf("result = %+v", res)
	}
	if _, err := e.Extract(context.Background(), bad); !errors.Is(err, common.ErrDecode) {
		t.Errorf("Extract(bad.txt) error = %v, want ErrDecode", err)
	}
}

func TestNormalizeKeepsColumnGaps(t *testing.T) {
	in := "Radio Spot\tVlaanderen  Audio  1  50,00  € 50,00\r\n-----\nnext"
	got := Normalize(in)
	want := "Radio Spot\tVlaanderen  Audio  1  50,00  € 50,00\n\nnext"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestExtractPDFInspectionRejectsBeforeRunningTools(t *testing.T) {
	r := &stubRunner{pdftotext: "unused"}
	e := NewExtractorWithRunner(Config{}, r, quietLogger()).
		WithPageCounter(func(string) (int, error) { return 0, errors.New("xref table not found") })

	_, err := e.Extract(context.Background(), "corrupt.pdf")
	if !errors.Is(err, common.ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("calls = %+v, want none", r.calls)
	}
}

func TestExtractPDFOCRHonorsMaxPages(t *testing.T) {
	r := &stubRunner{pdftotext: "\f", pages: 2, tesseract: "Offertenummer: 9\n"}
	e := NewExtractorWithRunner(Config{MaxPages: 2}, r, quietLogger()).
		WithPageCounter(func(string) (int, error) { return 5, nil })

	res, err := e.Extract(context.Background(), "long.pdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	for _, c := range r.calls {
		if c.name == "pdftoppm" {
			if got := strings.Join(c.args[:5], " "); got != "-r 300 -png -l 2" {
				t.Errorf("pdftoppm args = %v", c.args)
			}
		}
	}
}

func TestPdfcpuPageCountRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := pdfcpuPageCount(path); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}
