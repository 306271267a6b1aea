package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"distris-api/internal/domain"
)

// DisplayMode governs how tax and surcharge components are computed and
// presented.
type DisplayMode string

const (
	ModeFinal     DisplayMode = "final"
	ModeBreakdown DisplayMode = "breakdown"
	ModeHalfVAT   DisplayMode = "half-vat"
)

// Currency is the requested display currency. USD is the reference currency
// canonical prices are denominated in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyARS Currency = "ARS"
)

// Context carries the caller-supplied pricing parameters. It is ephemeral;
// the engine is a pure function of (product, context).
type Context struct {
	Mode         DisplayMode
	Currency     Currency
	ExchangeRate float64
	DefaultVAT   float64
	// VATSet marks DefaultVAT as explicitly chosen by the caller. An
	// explicit zero must not be replaced with a configured default.
	VATSet bool
}

// Component is one labeled part of a price breakdown.
type Component struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

// Quote is the displayed price for one product under one context.
type Quote struct {
	Amount    float64     `json:"amount"`
	Display   string      `json:"display"`
	Breakdown []Component `json:"breakdown,omitempty"`
}

// Compute derives the displayed price for a canonical product. It never
// errors for a well-formed product: missing optional fields default rather
// than fail, and unknown display modes fall back to final pricing.
// Computation keeps full float precision; rounding to two decimals happens
// only when formatting for display.
func Compute(p *domain.Product, ctx Context) Quote {
	policy := PolicyFor(p.SupplierID)

	// Step 1: supplier-specific VAT back-out at the base-currency level.
	net := p.Price
	if policy.VATInclusive {
		net /= 1 + ctx.DefaultVAT/100
	}

	// Step 2: currency conversion into the requested display currency.
	if ctx.Currency != "" && ctx.Currency != CurrencyUSD {
		net *= ctx.ExchangeRate
	}

	// Step 3: jurisdictional surcharge on net, independent of display mode.
	surcharge := net * policy.SurchargeRate

	vatRate := ctx.DefaultVAT
	if p.VAT != nil {
		vatRate = *p.VAT
	}
	vatAmount := net * vatRate / 100

	switch ctx.Mode {
	case ModeBreakdown:
		total := net + vatAmount + surcharge
		components := []Component{
			{Label: "Neto", Amount: net, Display: FormatAmount(net)},
			{Label: fmt.Sprintf("IVA (%g%%)", vatRate), Amount: vatAmount, Display: FormatAmount(vatAmount)},
			{Label: fmt.Sprintf("IIBB (%g%%)", policy.SurchargeRate*100), Amount: surcharge, Display: FormatAmount(surcharge)},
		}
		return Quote{Amount: total, Display: FormatAmount(total), Breakdown: components}

	case ModeHalfVAT:
		var total float64
		switch policy.HalfVAT {
		case HalfVATPromo:
			total = net * (1 + vatRate/100) * (1 - PromoDiscount)
		case HalfVATNet:
			total = net
		case HalfVATFull:
			total = net * (1 + vatRate/100)
		default:
			total = net*(1+vatRate/200) + surcharge
		}
		return Quote{Amount: total, Display: FormatAmount(total)}

	default:
		total := net + vatAmount + surcharge
		return Quote{Amount: total, Display: FormatAmount(total)}
	}
}

// FormatAmount renders an amount with exactly two decimal digits using
// half-up rounding. This is the only place rounding happens.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
