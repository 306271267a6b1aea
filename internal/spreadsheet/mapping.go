package spreadsheet

import (
	"fmt"
	"strings"

	"distris-api/internal/domain"
)

// HeaderLabels turns a raw header row into addressable column labels. Blank
// cells get a positional placeholder ("Columna A" … "Columna Z", then
// "Columna <n>"). A header row that is entirely blank, or that contains
// duplicate labels, degrades to fully positional labels ("Columna 1" …) so
// every column stays uniquely addressable.
func HeaderLabels(row []string) []string {
	labels := make([]string, len(row))
	allBlank := true
	for i, cell := range row {
		text := strings.TrimSpace(cell)
		if text == "" {
			labels[i] = positionalLabel(i)
			continue
		}
		allBlank = false
		labels[i] = text
	}

	if allBlank || hasDuplicates(labels) {
		for i := range labels {
			labels[i] = fmt.Sprintf("Columna %d", i+1)
		}
	}
	return labels
}

func positionalLabel(idx int) string {
	if idx < 26 {
		return fmt.Sprintf("Columna %c", 'A'+rune(idx))
	}
	return fmt.Sprintf("Columna %d", idx+1)
}

func hasDuplicates(labels []string) bool {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return true
		}
		seen[l] = struct{}{}
	}
	return false
}

// AutoMap proposes a column mapping for the given header labels: for each
// target field, the first label whose normalized text equals, contains or is
// contained in the field key, its human label or one of its aliases wins.
// Unmatched fields are left out of the proposal.
func AutoMap(labels []string) domain.ColumnMapping {
	mapping := make(domain.ColumnMapping)

	for _, field := range TargetSchema {
		candidates := append([]string{field.Key, field.Label}, field.Aliases...)
		for _, label := range labels {
			if matchesAny(label, candidates) {
				mapping[field.Key] = label
				break
			}
		}
	}
	return mapping
}

func matchesAny(label string, candidates []string) bool {
	norm := strings.ToLower(strings.TrimSpace(label))
	if norm == "" {
		return false
	}
	for _, c := range candidates {
		cn := strings.ToLower(strings.TrimSpace(c))
		if cn == "" {
			continue
		}
		if norm == cn || strings.Contains(norm, cn) || strings.Contains(cn, norm) {
			return true
		}
	}
	return false
}

// ValidateMapping is the confirmation gate: every required field must be
// mapped to a non-empty label, and every mapped label must exist in the
// current header set. Extra keys beyond the target schema are tolerated but
// still checked for label existence.
func ValidateMapping(mapping domain.ColumnMapping, labels []string) error {
	if len(mapping) == 0 {
		return ErrNoMappingConfigured
	}

	labelSet := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		labelSet[l] = struct{}{}
	}

	var missing []string
	for _, key := range RequiredFields() {
		if strings.TrimSpace(mapping[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingRequiredMappingError{Fields: missing}
	}

	var invalid []string
	for key, label := range mapping {
		if label == "" {
			continue
		}
		if _, ok := labelSet[label]; !ok {
			invalid = append(invalid, fmt.Sprintf("%s -> %q", key, label))
		}
	}
	if len(invalid) > 0 {
		return &InvalidMappingReferenceError{Fields: invalid}
	}

	return nil
}

// RevalidateMapping drops entries whose label no longer exists in the headers
// of a newly uploaded sheet. Stale references are removed, never re-guessed.
func RevalidateMapping(mapping domain.ColumnMapping, labels []string) domain.ColumnMapping {
	labelSet := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		labelSet[l] = struct{}{}
	}

	out := make(domain.ColumnMapping, len(mapping))
	for key, label := range mapping {
		if label == "" {
			continue
		}
		if _, ok := labelSet[label]; ok {
			out[key] = label
		}
	}
	return out
}

// MergeMapping applies a human override on top of an auto-mapping proposal.
// Empty override values clear the field.
func MergeMapping(proposal, override domain.ColumnMapping) domain.ColumnMapping {
	merged := proposal.Clone()
	for key, label := range override {
		if strings.TrimSpace(label) == "" {
			delete(merged, key)
			continue
		}
		merged[key] = label
	}
	return merged
}
