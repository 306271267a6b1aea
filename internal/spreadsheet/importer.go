package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"distris-api/internal/domain"
)

// ImportResult summarizes one import run. Partial success is expected: rows
// that coerce to an empty SKU or name are dropped, not treated as a batch
// failure.
type ImportResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skipped  int              `json:"skipped"`
	Dropped  int              `json:"dropped"`
	Imported int              `json:"imported"`
}

// Import turns the data rows beneath a detected header into canonical product
// records using a confirmed column mapping. The mapping is re-checked against
// the header labels even though the confirmation gate already validated it;
// a supplier's stored mapping can predate the file being imported.
func Import(supplierID string, mapping domain.ColumnMapping, labels []string, rows [][]string) (*ImportResult, error) {
	if len(mapping) == 0 {
		return nil, ErrNoMappingConfigured
	}

	colIndex := make(map[string]int, len(labels))
	for i, l := range labels {
		colIndex[l] = i
	}

	var missing []string
	for key, label := range mapping {
		if label == "" {
			continue
		}
		if _, ok := colIndex[label]; !ok {
			missing = append(missing, fmt.Sprintf("%s -> %q", key, label))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingMappedColumnsError{Fields: missing}
	}

	result := &ImportResult{Total: len(rows)}

	idx := 0
	for _, row := range rows {
		if countNonEmpty(row) == 0 {
			result.Skipped++
			continue
		}

		cell := func(field string) string {
			label := mapping[field]
			if label == "" {
				return ""
			}
			pos, ok := colIndex[label]
			if !ok || pos >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos])
		}

		sku := cell(domain.FieldSKU)
		name := cell(domain.FieldName)

		// A row whose mapped SKU and name cells are both blank carries no
		// identity at all; it is dropped rather than fabricated.
		if sku == "" && name == "" {
			result.Dropped++
			idx++
			continue
		}
		if sku == "" {
			sku = fmt.Sprintf("SKU-%s-%d", supplierID, idx)
		}
		if name == "" {
			name = domain.FallbackName
		}

		product := domain.Product{
			ID:          fmt.Sprintf("%s-%s-%d", supplierID, sku, idx),
			SKU:         sku,
			Name:        name,
			Description: cell(domain.FieldDescription),
			Price:       parsePrice(cell(domain.FieldPrice)),
			Stock:       parseStock(cell(domain.FieldStock)),
			Category:    cell(domain.FieldCategory),
			Brand:       cell(domain.FieldBrand),
			ImageURL:    cell(domain.FieldImageURL),
			SupplierID:  supplierID,
		}
		if vat := cell(domain.FieldVAT); vat != "" {
			if v, err := strconv.ParseFloat(vat, 64); err == nil {
				product.VAT = &v
			}
		}

		idx++

		result.Products = append(result.Products, product)
		result.Imported++
	}

	return result, nil
}

// parsePrice coerces a price cell to a decimal; anything non-numeric becomes
// 0. Negative values are carried as-is so bad sheet data stays visible.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseStock coerces a stock cell to a non-negative integer; anything
// non-numeric becomes 0. Fractional quantities are truncated.
func parseStock(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}
