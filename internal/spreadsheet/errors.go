package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySpreadsheet means the uploaded file contains no rows at all.
	ErrEmptySpreadsheet = errors.New("spreadsheet is empty")

	// ErrNoMappingConfigured means the supplier has no column mapping yet.
	ErrNoMappingConfigured = errors.New("supplier has no column mapping configured")
)

// MissingRequiredMappingError reports required fields left unmapped at
// confirmation time.
type MissingRequiredMappingError struct {
	Fields []string
}

func (e *MissingRequiredMappingError) Error() string {
	return fmt.Sprintf("required fields not mapped: %s", strings.Join(e.Fields, ", "))
}

// InvalidMappingReferenceError reports mapped labels that do not exist in the
// current header set, as "field -> label" pairs.
type InvalidMappingReferenceError struct {
	Fields []string
}

func (e *InvalidMappingReferenceError) Error() string {
	return fmt.Sprintf("mapping references unknown columns: %s", strings.Join(e.Fields, ", "))
}

// MissingMappedColumnsError is the import-time variant: the confirmed mapping
// points at columns absent from the uploaded file's headers.
type MissingMappedColumnsError struct {
	Fields []string
}

func (e *MissingMappedColumnsError) Error() string {
	return fmt.Sprintf("mapped columns not found in spreadsheet: %s", strings.Join(e.Fields, ", "))
}
