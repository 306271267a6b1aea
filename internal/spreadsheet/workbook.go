package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook decodes an uploaded .xlsx file in memory and returns the raw
// cell grid of its first sheet. Cell values come back as raw strings; all
// typing happens later in the import pipeline.
func ReadWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySpreadsheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySpreadsheet
	}

	return rows, nil
}
