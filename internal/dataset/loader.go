package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when a path's extension is not one of
// the recognized tabular formats. No parse is attempted in that case.
var ErrUnsupportedFormat = errors.New("unsupported file format (use CSV or Excel files)")

// LoadError wraps a parse failure from the underlying reader.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a tabular file into a Table. Supported extensions are .csv,
// .xlsx and .xls.
func Load(path string) (*Table, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xls":
		records, err = readExcel(path)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	table, err := tableFromRecords(records)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	// Excel rows may be ragged; pad to the header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := range rows {
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
			rows[i] = rows[i][:width]
		}
	}
	return rows, nil
}

// tableFromRecords builds a typed table from raw records. The first
// record is the header. Per-column typing is inferred over the non-empty
// cells: all numeric parses -> numeric, all boolean literals -> bool,
// anything else -> text. Empty cells are missing.
func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	header := records[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("file has no columns")
	}
	body := records[1:]

	cols := make([]Column, len(header))
	for ci, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", ci+1)
		}
		kind := inferColumnKind(body, ci)
		cells := make([]Cell, len(body))
		for ri, record := range body {
			raw := ""
			if ci < len(record) {
				raw = strings.TrimSpace(record[ci])
			}
			cells[ri] = parseCell(raw, kind)
		}
		cols[ci] = Column{Name: name, Kind: kind, Cells: cells}
	}

	return NewTable(cols)
}

func inferColumnKind(body [][]string, ci int) ColumnKind {
	sawValue := false
	allNumeric := true
	allBool := true

	for _, record := range body {
		if ci >= len(record) {
			continue
		}
		raw := strings.TrimSpace(record[ci])
		if raw == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			allNumeric = false
		}
		if !isBoolLiteral(raw) {
			allBool = false
		}
		if !allNumeric && !allBool {
			return KindText
		}
	}

	if !sawValue {
		return KindText
	}
	if allNumeric {
		return KindNumeric
	}
	if allBool {
		return KindBool
	}
	return KindText
}

func isBoolLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func parseCell(raw string, kind ColumnKind) Cell {
	if raw == "" {
		return Cell{Kind: CellMissing}
	}
	switch kind {
	case KindNumeric:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Cell{Kind: CellMissing}
		}
		return Cell{Kind: CellNumber, Number: v}
	case KindBool:
		return Cell{Kind: CellBool, Bool: strings.EqualFold(raw, "true")}
	default:
		return Cell{Kind: CellText, Text: raw}
	}
}
