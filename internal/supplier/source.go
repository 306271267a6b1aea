package supplier

import "distris-api/internal/domain"

// Source describes how one supplier's API payload is shaped: whether its
// prices arrive in local currency (and must be divided by the exchange rate
// to recover the USD base), and whether its items carry a live exchange-rate
// hint under some key.
type Source struct {
	SupplierID    string
	LocalCurrency bool
	RateHintKey   string
}

// sources is the closed set of API-backed distributors. Spreadsheet-only
// suppliers are not listed here; they enter the catalog through imports.
var sources = map[string]Source{
	domain.SupplierNewBytes:    {SupplierID: domain.SupplierNewBytes},
	domain.SupplierGrupoNucleo: {SupplierID: domain.SupplierGrupoNucleo},
	domain.SupplierElit:        {SupplierID: domain.SupplierElit, LocalCurrency: true, RateHintKey: "cotizacion"},
	domain.SupplierTGS:         {SupplierID: domain.SupplierTGS, LocalCurrency: true},
	domain.SupplierGamingCity:  {SupplierID: domain.SupplierGamingCity},
}

// SourceFor returns the source descriptor for a supplier. Unknown suppliers
// get a plain USD source with no rate hint.
func SourceFor(supplierID string) Source {
	if s, ok := sources[supplierID]; ok {
		return s
	}
	return Source{SupplierID: supplierID}
}

// fieldAliases maps each canonical field to the key names it may arrive
// under in a supplier payload. First present alias wins.
var fieldAliases = map[string][]string{
	domain.FieldSKU:         {"sku", "codigo"},
	domain.FieldName:        {"name", "nombre", "detalle"},
	domain.FieldPrice:       {"price", "precio"},
	domain.FieldStock:       {"stock", "cantidad"},
	domain.FieldVAT:         {"vat", "iva"},
	domain.FieldBrand:       {"brand", "marca"},
	domain.FieldCategory:    {"category", "categoria", "rubro"},
	domain.FieldImageURL:    {"imageUrl", "imagen", "image_url"},
	domain.FieldDescription: {"description", "descripcion"},
}
