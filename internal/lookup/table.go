package lookup

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
)

// Header names the lookup file must carry.
const (
	ColumnCampaignID = "campaign_id"
	ColumnCampaign   = "campaign"
)

// Table maps campaign ids to display names. It is read-only once loaded.
type Table struct {
	names map[int64]string
}

// New builds a table from an id -> name map.
func New(names map[int64]string) *Table {
	t := &Table{names: make(map[int64]string, len(names))}
	for id, name := range names {
		t.names[id] = name
	}
	return t
}

// CampaignName returns the display name for id, if known.
func (t *Table) CampaignName(id int64) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[id]
	return name, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Load reads a CSV or XLSX lookup file, picked by extension.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read lookup "+path)
	}
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "csv":
		return ReadCSV(bytes.NewReader(b))
	case "xlsx":
		return ReadXLSX(bytes.NewReader(b))
	default:
		return nil, common.NewAppError("LOOKUP_FORMAT", "unsupported lookup file "+path, common.ErrInvalidInput)
	}
}

// ReadCSV parses a comma separated lookup with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv lookup: %w", err)
	}
	return fromRows(rows)
}

// ReadXLSX parses the first sheet of a workbook with a header row.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx lookup: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("LOOKUP_FORMAT", "workbook has no sheets", common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return fromRows(rows)
}

// fromRows keeps the first name seen for each id. Rows whose id is not an
// integer are ignored.
func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, common.NewAppError("LOOKUP_FORMAT", "lookup has no header row", common.ErrInvalidInput)
	}
	idCol, nameCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case ColumnCampaignID:
			idCol = i
		case ColumnCampaign:
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, common.NewAppError("LOOKUP_FORMAT",
			fmt.Sprintf("lookup header must contain %q and %q", ColumnCampaignID, ColumnCampaign),
			common.ErrInvalidInput)
	}

	t := &Table{names: make(map[int64]string)}
	for _, row := range rows[1:] {
		if idCol >= len(row) || nameCol >= len(row) {
			continue
		}
		id, ok := parseID(row[idCol])
		if !ok {
			continue
		}
		if _, seen := t.names[id]; seen {
			continue
		}
		t.names[id] = strings.TrimSpace(row[nameCol])
	}
	return t, nil
}

// parseID accepts "482" as well as spreadsheet renderings like "482.0".
func parseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
