package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFileType is returned for extensions other than .csv, .xlsx
// and .xls.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Table is a parsed upload: one header row plus data rows. Rows may be
// ragged; Cell absorbs out-of-range access.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ParseFile reads a CSV or Excel upload into a Table. The first row is
// treated as the header.
func ParseFile(r io.Reader, filename string) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = parseCSV(r)
	case ".xlsx":
		records, err = parseXLSX(r)
	case ".xls":
		records, err = parseXLS(r)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header row", filename)
	}

	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

func parseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func parseXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}

func parseXLS(r io.Reader) ([][]string, error) {
	// extrame/xls needs a ReadSeeker, so buffer the upload first.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	return wb.ReadAllCells(100000), nil
}

// Cell returns the value at (row, header) or "" when the header is unknown or
// the row is shorter than the header list.
func (t *Table) Cell(row []string, header string) string {
	for i, h := range t.Headers {
		if h == header {
			if i < len(row) {
				return row[i]
			}
			return ""
		}
	}
	return ""
}

// HasHeader reports whether the table carries the given column.
func (t *Table) HasHeader(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// Preview returns up to n data rows for the pre-commit preview.
func (t *Table) Preview(n int) [][]string {
	if len(t.Rows) <= n {
		return t.Rows
	}
	return t.Rows[:n]
}
