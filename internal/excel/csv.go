package excel

// csv.go reads delimited text files into the same headers-plus-rows
// shape as the workbook reader, with identical cell typing.

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sheetflow/sheetflow/internal/core"
)

// ParseCSV reads comma-separated data from r. The first record is the
// header row; columns without a header name are dropped. Records with
// fewer fields than the header pad out with empty cells.
func ParseCSV(r io.Reader) (*Parsed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	type column struct {
		index  int
		header string
	}
	var columns []column
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h != "" {
			columns = append(columns, column{index: i, header: h})
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, c.header)
	}

	rows := make([]core.Row, 0, len(records)-1)
	for _, line := range records[1:] {
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

	return &Parsed{Headers: headers, Rows: rows}, nil
}

// IsCSV reports whether filename looks like delimited text rather than a
// workbook.
func IsCSV(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}
