// Package excel parses Excel workbooks into the rectangular
// headers-plus-rows shape the conversion pipeline consumes. The first
// row of a sheet is the header row; columns without a header name are
// spreadsheet artifacts and are dropped entirely.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sheetflow/sheetflow/internal/core"
)

// Parsed is one sheet read into pipeline form.
type Parsed struct {
	Headers    []string
	Rows       []core.Row
	SheetNames []string
}

// cellDateLayouts are the display formats a date cell commonly renders
// to. Cells matching one of these surface as time.Time so column type
// inference can see native dates. A heuristic; ambiguous digit-only
// formats are deliberately absent.
var cellDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/06 15:04",
}

// ParseFile opens a workbook from disk and parses its first sheet.
func ParseFile(path string) (*Parsed, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return parseFirstSheet(f)
}

// ParseReader parses the first sheet of a workbook read from r,
// typically a multipart upload.
func ParseReader(r io.Reader) (*Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return parseFirstSheet(f)
}

func parseFirstSheet(f *excelize.File) (*Parsed, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return ParseSheet(f, sheets[0])
}

// ParseSheet reads one sheet into headers and rows. It fails if the
// sheet does not exist or has no data rows below the header.
func ParseSheet(f *excelize.File, sheetName string) (*Parsed, error) {
	cells, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheetName)
	}

	// Keep only columns with a named header.
	type column struct {
		index  int
		header string
	}
	var columns []column
	for i, h := range cells[0] {
		h = strings.TrimSpace(h)
		if h != "" {
			columns = append(columns, column{index: i, header: h})
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, c.header)
	}

	rows := make([]core.Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(core.Row, len(columns))
		for _, c := range columns {
			var raw string
			if c.index < len(line) {
				raw = line[c.index]
			}
			row[c.header] = typeCell(raw)
		}
		rows = append(rows, row)
	}

	return &Parsed{
		Headers:    headers,
		Rows:       rows,
		SheetNames: f.GetSheetList(),
	}, nil
}

// typeCell promotes a formatted cell string to a native value: numbers
// become float64, recognizable date renderings become time.Time, and
// everything else stays a string. Empty cells stay empty strings.
func typeCell(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t
		}
	}

	return s
}
