package pricing

import "distris-api/internal/domain"

// HalfVATRule selects how a supplier behaves in half-vat display mode.
type HalfVATRule int

const (
	// HalfVATHalf charges VAT at half the effective rate, plus any surcharge.
	HalfVATHalf HalfVATRule = iota
	// HalfVATPromo shows the full-VAT price with a flat promotional discount.
	HalfVATPromo
	// HalfVATNet shows the net price with no VAT at all.
	HalfVATNet
	// HalfVATFull shows the full-VAT price with no discount.
	HalfVATFull
)

// PromoDiscount is the flat discount applied by HalfVATPromo (5% off).
const PromoDiscount = 0.05

// Policy describes how one supplier's prices are treated. The set of special
// cases is closed; adding a supplier is a data change here, not a code change
// in the engine.
type Policy struct {
	// VATInclusive marks suppliers whose canonical price still includes the
	// default VAT and must be backed out before anything else.
	VATInclusive bool
	// SurchargeRate is a jurisdictional add-on applied on net price in every
	// display mode (IIBB for newbytes).
	SurchargeRate float64
	// HalfVAT is the supplier's behavior in half-vat mode.
	HalfVAT HalfVATRule
}

// defaultPolicy applies to any supplier without a dedicated entry.
var defaultPolicy = Policy{}

// policies is the per-supplier policy table.
var policies = map[string]Policy{
	domain.SupplierNewBytes:    {SurchargeRate: 0.03},
	domain.SupplierGamingCity:  {VATInclusive: true, HalfVAT: HalfVATPromo},
	domain.SupplierTGS:         {VATInclusive: true},
	domain.SupplierGrupoNucleo: {HalfVAT: HalfVATNet},
	domain.SupplierElit:        {HalfVAT: HalfVATFull},
}

// PolicyFor returns the pricing policy for a supplier.
func PolicyFor(supplierID string) Policy {
	if p, ok := policies[supplierID]; ok {
		return p
	}
	return defaultPolicy
}
