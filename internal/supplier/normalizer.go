package supplier

import (
	"fmt"
	"strconv"
	"strings"

	"distris-api/internal/domain"
)

// Item is one raw payload entry as decoded from a supplier endpoint. Key
// names vary per supplier; alias resolution happens here.
type Item map[string]any

// Normalize reconciles one supplier's payload into canonical product records.
// It adjusts currency basis only, dividing local-currency prices by the
// exchange rate. Tax basis is never touched here; VAT is carried through as
// metadata for the pricing engine. Prices are carried as reported, negative
// values included, so bad upstream data stays visible downstream.
func Normalize(src Source, items []Item, exchangeRate float64) []domain.Product {
	products := make([]domain.Product, 0, len(items))

	for i, item := range items {
		sku := stringField(item, domain.FieldSKU)
		name := stringField(item, domain.FieldName)
		if sku == "" && name == "" {
			continue
		}
		if sku == "" {
			sku = fmt.Sprintf("SKU-%s-%d", src.SupplierID, i)
		}
		if name == "" {
			name = domain.FallbackName
		}

		price := floatField(item, domain.FieldPrice)
		if src.LocalCurrency && exchangeRate > 0 {
			price /= exchangeRate
		}

		stock := int(floatField(item, domain.FieldStock))
		if stock < 0 {
			stock = 0
		}

		id := stringAt(item, "id")
		if id == "" {
			id = fmt.Sprintf("%s-%s", src.SupplierID, sku)
		}

		p := domain.Product{
			ID:          id,
			SKU:         sku,
			Name:        name,
			Description: stringField(item, domain.FieldDescription),
			Price:       price,
			Stock:       stock,
			Category:    stringField(item, domain.FieldCategory),
			Brand:       stringField(item, domain.FieldBrand),
			ImageURL:    stringField(item, domain.FieldImageURL),
			SupplierID:  src.SupplierID,
		}
		if raw, ok := lookup(item, domain.FieldVAT); ok {
			if v, ok := toFloat(raw); ok {
				p.VAT = &v
			}
		}

		products = append(products, p)
	}

	return products
}

// RateHint extracts a live exchange-rate hint from the payload, if this
// source carries one. The first item with a positive value under the hint
// key wins.
func RateHint(src Source, items []Item) (float64, bool) {
	if src.RateHintKey == "" {
		return 0, false
	}
	for _, item := range items {
		if raw, ok := item[src.RateHintKey]; ok {
			if v, ok := toFloat(raw); ok && v > 0 {
				return v, true
			}
		}
	}
	return 0, false
}

func lookup(item Item, field string) (any, bool) {
	for _, alias := range fieldAliases[field] {
		if v, ok := item[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(item Item, field string) string {
	raw, ok := lookup(item, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(raw))
}

func floatField(item Item, field string) float64 {
	raw, ok := lookup(item, field)
	if !ok {
		return 0
	}
	v, _ := toFloat(raw)
	return v
}

func stringAt(item Item, key string) string {
	if raw, ok := item[key]; ok {
		return strings.TrimSpace(toString(raw))
	}
	return ""
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
