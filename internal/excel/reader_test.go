package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds an xlsx file in a temp dir from string cell rows.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]any{
		{"name", "age", "joined"},
		{"Alice", 30, "2023-01-15"},
		{"Bob", 25, "2023-02-20"},
	})

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantHeaders := []string{"name", "age", "joined"}
	if len(parsed.Headers) != 3 {
		t.Fatalf("headers = %v; want %v", parsed.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if parsed.Headers[i] != h {
			t.Errorf("header[%d] = %q; want %q", i, parsed.Headers[i], h)
		}
	}

	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(parsed.Rows))
	}
	if parsed.Rows[0]["name"] != "Alice" {
		t.Errorf("name = %v; want Alice", parsed.Rows[0]["name"])
	}
	if parsed.Rows[0]["age"] != float64(30) {
		t.Errorf("age = %v (%T); want float64 30", parsed.Rows[0]["age"], parsed.Rows[0]["age"])
	}
	joined, ok := parsed.Rows[0]["joined"].(time.Time)
	if !ok {
		t.Fatalf("joined = %v (%T); want time.Time", parsed.Rows[0]["joined"], parsed.Rows[0]["joined"])
	}
	if joined.Year() != 2023 || joined.Month() != time.January || joined.Day() != 15 {
		t.Errorf("joined = %v; want 2023-01-15", joined)
	}

	if len(parsed.SheetNames) != 1 || parsed.SheetNames[0] != "Data" {
		t.Errorf("sheet names = %v; want [Data]", parsed.SheetNames)
	}
}

func TestParseReader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"id"},
		{"x1"},
	})

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	parsed, err := ParseReader(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 1 || parsed.Rows[0]["id"] != "x1" {
		t.Errorf("rows = %v; want one row with id x1", parsed.Rows)
	}
}

func TestParseSheetDropsUnnamedColumns(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"name", "", "age"},
		{"Alice", "stray", 30},
	})

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Headers) != 2 {
		t.Fatalf("headers = %v; want unnamed column dropped", parsed.Headers)
	}
	if _, exists := parsed.Rows[0][""]; exists {
		t.Error("row carries a value for the unnamed column")
	}
	if parsed.Rows[0]["age"] != float64(30) {
		t.Errorf("age = %v; want value from original column position", parsed.Rows[0]["age"])
	}
}

func TestParseSheetShortRows(t *testing.T) {
	// Trailing empty cells are omitted by the sheet reader; missing cells
	// surface as empty strings.
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"a", "b", "c"},
		{"only"},
	})

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Rows[0]["b"] != "" || parsed.Rows[0]["c"] != "" {
		t.Errorf("row = %v; want empty strings for missing cells", parsed.Rows[0])
	}
}

func TestParseSheetErrors(t *testing.T) {
	t.Run("no data rows", func(t *testing.T) {
		path := writeWorkbook(t, "Sheet1", [][]any{{"name", "age"}})
		if _, err := ParseFile(path); err == nil {
			t.Error("header-only sheet parsed; want error")
		}
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := writeWorkbook(t, "Sheet1", [][]any{{"a"}, {"1"}})
		f, err := excelize.OpenFile(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		if _, err := ParseSheet(f, "Nope"); err == nil {
			t.Error("nonexistent sheet parsed; want error")
		}
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bogus.xlsx")
		if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ParseFile(path); err == nil {
			t.Error("bogus file parsed; want error")
		}
	})
}

func TestTypeCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"integer", "42", float64(42)},
		{"decimal", "3.14", 3.14},
		{"iso date", "2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"datetime", "2023-01-15 08:30:00", time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"slash date", "2023/01/15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"plain text", "hello", "hello"},
		{"digit-ish text", "v1.2.3", "v1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeCell(tt.input)
			if got != tt.want {
				t.Errorf("typeCell(%q) = %v (%T); want %v", tt.input, got, got, tt.want)
			}
		})
	}
}
