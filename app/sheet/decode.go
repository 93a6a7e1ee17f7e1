package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrParse marks a document that could not be decoded into rows.
var ErrParse = errors.New("sheet parse failed")

// Format is the export format of the spreadsheet.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func (f Format) IsValid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// Decode reads a document in the given format into rows.
func Decode(r io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(r)
	case FormatXLSX:
		return DecodeXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrParse, format)
	}
}

// DecodeCSV reads a CSV document whose first record is the header row.
// Records with only blank cells are skipped; short records simply lack the
// trailing columns. Any syntax error fails the whole document.
func DecodeCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	// Allow variable number of fields per record; spreadsheet exports trim trailing empties
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rowsFromRecords(records), nil
}

// DecodeXLSX reads the first worksheet of an xlsx workbook; its first row is
// the header row.
func DecodeXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrParse)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrParse, sheets[0], err)
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return []Row{}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		n := min(len(rec), len(header))
		row := make(Row, n)
		for i := 0; i < n; i++ {
			row[i] = Cell{Header: header[i], Value: rec[i]}
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
