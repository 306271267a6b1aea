package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	t.Run("reads the first sheet as raw strings", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			{"SKU", "Precio", "Stock"},
			{"A-1", 12.5, 3},
		})

		rows, err := ReadWorkbook(data)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0][0] != "SKU" {
			t.Errorf("rows[0][0] = %q", rows[0][0])
		}
		if rows[1][1] != "12.5" {
			t.Errorf("numeric cell should come back raw, got %q", rows[1][1])
		}
	})

	t.Run("rejects garbage bytes", func(t *testing.T) {
		if _, err := ReadWorkbook([]byte("not an xlsx")); err == nil {
			t.Fatal("expected error for non-xlsx input")
		}
	})

	t.Run("rejects an empty sheet", func(t *testing.T) {
		data := buildWorkbook(t, nil)
		if _, err := ReadWorkbook(data); err != ErrEmptySpreadsheet {
			t.Fatalf("expected ErrEmptySpreadsheet, got %v", err)
		}
	})

	t.Run("full pipeline over a generated file", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			{"Lista agosto", "", "", ""},
			{"SKU", "Descripcion", "Precio", "Stock"},
			{"A-1", "Teclado", 10, 5},
		})

		rows, err := ReadWorkbook(data)
		if err != nil {
			t.Fatal(err)
		}
		headerRow, err := DetectHeaderRow(rows)
		if err != nil {
			t.Fatal(err)
		}
		if headerRow != 1 {
			t.Fatalf("header at %d", headerRow)
		}

		labels := HeaderLabels(rows[headerRow])
		mapping := AutoMap(labels)
		if err := ValidateMapping(mapping, labels); err != nil {
			t.Fatalf("auto-mapping should validate: %v", err)
		}

		result, err := Import("acme", mapping, labels, rows[headerRow+1:])
		if err != nil {
			t.Fatal(err)
		}
		if result.Imported != 1 {
			t.Fatalf("imported = %d", result.Imported)
		}
		if result.Products[0].Name != "Teclado" {
			t.Errorf("name = %q", result.Products[0].Name)
		}
	})
}
