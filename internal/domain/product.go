package domain

// Known distributor identifiers. Pricing policies key off these; any other
// supplier ID gets the default policy.
const (
	SupplierNewBytes    = "newbytes"
	SupplierGrupoNucleo = "gruponucleo"
	SupplierElit        = "elit"
	SupplierTGS         = "tgs"
	SupplierGamingCity  = "gamingcity"
)

// FallbackName is used when a supplier row or payload carries no product name.
const FallbackName = "Sin nombre"

// GenericPlaceholder is shown for products without a category or brand.
const GenericPlaceholder = "Genérico"

// Product is the canonical, supplier-independent representation of an offer.
// Price is always a pre-tax base cost in USD; any local-currency conversion
// has already been backed out during normalization. VAT is carried as
// metadata and resolved entirely by the pricing engine.
type Product struct {
	ID          string   `json:"id" db:"id"`
	SKU         string   `json:"sku" db:"sku"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description,omitempty" db:"description"`
	Price       float64  `json:"price" db:"price"`
	Stock       int      `json:"stock" db:"stock"`
	Category    string   `json:"category,omitempty" db:"category"`
	Brand       string   `json:"brand,omitempty" db:"brand"`
	ImageURL    string   `json:"imageUrl,omitempty" db:"image_url"`
	SupplierID  string   `json:"supplierId" db:"supplier_id"`
	VAT         *float64 `json:"vat,omitempty" db:"vat"`
}

// Valid reports whether the record satisfies the catalog invariant:
// non-empty SKU and name, non-negative stock. Price is deliberately not
// constrained; negative upstream prices are carried through unmodified.
func (p *Product) Valid() bool {
	return p.SKU != "" && p.Name != "" && p.Stock >= 0
}
