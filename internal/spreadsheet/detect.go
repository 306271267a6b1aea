package spreadsheet

import "strings"

// headerScanWindow is how many leading rows are inspected for a header.
const headerScanWindow = 10

// minKeywordMatches is the score a row needs to be accepted as the header.
const minKeywordMatches = 2

// minNonEmptyCells is the fallback threshold when no row scores enough.
const minNonEmptyCells = 3

// HeaderScore counts how many header keywords appear in the row. Cells are
// trimmed, lower-cased and joined so multi-cell labels still match.
func HeaderScore(row []string) int {
	if len(row) == 0 {
		return 0
	}
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		parts = append(parts, strings.ToLower(strings.TrimSpace(cell)))
	}
	text := strings.Join(parts, " ")

	score := 0
	for _, kw := range headerKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

// DetectHeaderRow locates the most likely header row inside the first ten
// rows of the sheet. It never fails for a non-empty sheet: if no row scores
// enough keyword matches it falls back to the first row with at least three
// non-empty cells, and finally to row 0.
func DetectHeaderRow(rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptySpreadsheet
	}

	window := len(rows)
	if window > headerScanWindow {
		window = headerScanWindow
	}

	for i := 0; i < window; i++ {
		if HeaderScore(rows[i]) >= minKeywordMatches {
			return i, nil
		}
	}

	for i := 0; i < window; i++ {
		if countNonEmpty(rows[i]) >= minNonEmptyCells {
			return i, nil
		}
	}

	return 0, nil
}

func countNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
