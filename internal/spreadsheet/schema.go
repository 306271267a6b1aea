package spreadsheet

import "distris-api/internal/domain"

// Field describes one canonical target field a spreadsheet column can feed.
type Field struct {
	Key      string
	Label    string
	Aliases  []string
	Required bool
}

// TargetSchema is the fixed set of canonical fields, in display order.
// Required: sku, name, price, stock.
var TargetSchema = []Field{
	{Key: domain.FieldSKU, Label: "SKU", Aliases: []string{"codigo", "código", "cod"}, Required: true},
	{Key: domain.FieldName, Label: "Nombre", Aliases: []string{"descripcion", "descripción", "detalle", "producto"}, Required: true},
	{Key: domain.FieldPrice, Label: "Precio", Aliases: []string{"precio", "costo", "importe"}, Required: true},
	{Key: domain.FieldStock, Label: "Stock", Aliases: []string{"cantidad", "existencia", "disponible"}, Required: true},
	{Key: domain.FieldCategory, Label: "Categoria", Aliases: []string{"categoría", "rubro"}},
	{Key: domain.FieldBrand, Label: "Marca", Aliases: []string{"fabricante"}},
	{Key: domain.FieldImageURL, Label: "Imagen", Aliases: []string{"imagen", "foto", "url"}},
	{Key: domain.FieldVAT, Label: "IVA", Aliases: []string{"iva", "impuesto"}},
	{Key: domain.FieldDescription, Label: "Descripcion larga", Aliases: []string{"observaciones", "comentario"}},
}

// headerKeywords drives header-row detection. A row containing at least two
// of these is taken to be the header. Matches the vocabulary suppliers
// actually use in their price lists.
var headerKeywords = []string{
	"sku",
	"descripcion",
	"descripción",
	"cantidad",
	"precio",
	"stock",
	"marca",
	"categoria",
	"rubro",
	"iva",
}

// RequiredFields returns the keys of all required target fields.
func RequiredFields() []string {
	var keys []string
	for _, f := range TargetSchema {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
