package domain

import "time"

// Canonical field keys a spreadsheet column can be mapped to.
const (
	FieldSKU         = "sku"
	FieldName        = "name"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldCategory    = "category"
	FieldBrand       = "brand"
	FieldImageURL    = "imageUrl"
	FieldVAT         = "vat"
	FieldDescription = "description"
)

// ColumnMapping assigns spreadsheet column labels to canonical field keys.
// It is persisted per supplier as a flat key→label record; unknown extra keys
// are tolerated and passed through untouched.
type ColumnMapping map[string]string

// Clone returns a copy so callers can mutate a proposal without aliasing the
// stored mapping.
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Supplier is a spreadsheet-based product source owned by an administrator.
// It holds at most one column mapping. Deleting a supplier does not delete
// products already imported from it.
type Supplier struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Active    bool          `json:"active" db:"active"`
	Mapping   ColumnMapping `json:"columnMapping,omitempty" db:"column_mapping"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}
