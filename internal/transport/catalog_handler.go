package transport

import (
	"net/http"
	"strconv"

	"distris-api/internal/middleware"
	"distris-api/internal/pricing"
	"distris-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// PricedListResponse is the paginated priced catalog payload
type PricedListResponse struct {
	Products []service.PricedProduct `json:"products"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

// CatalogHandler serves the priced product listing
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
	})
}

// List returns catalog products priced according to the query parameters:
// mode (final|breakdown|half-vat), currency (USD|ARS), rate, vat, supplier,
// q, page and pageSize.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pctx, ok := pricingContextFromQuery(query.Get("mode"), query.Get("currency"), query.Get("rate"), query.Get("vat"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid pricing parameters")
		return
	}

	page := parsePositiveInt(query.Get("page"), 1)
	pageSize := parsePositiveInt(query.Get("pageSize"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	products, total, err := h.catalogService.ListPriced(
		r.Context(),
		query.Get("supplier"),
		query.Get("q"),
		page,
		pageSize,
		pctx,
	)
	if err != nil {
		h.logger.Error("Failed to list priced products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PricedListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func pricingContextFromQuery(mode, currency, rate, vat string) (pricing.Context, bool) {
	var pctx pricing.Context

	switch pricing.DisplayMode(mode) {
	case "", pricing.ModeFinal, pricing.ModeBreakdown, pricing.ModeHalfVAT:
		pctx.Mode = pricing.DisplayMode(mode)
	default:
		return pctx, false
	}

	switch pricing.Currency(currency) {
	case "", pricing.CurrencyUSD, pricing.CurrencyARS:
		pctx.Currency = pricing.Currency(currency)
	default:
		return pctx, false
	}

	if rate != "" {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil || v <= 0 {
			return pctx, false
		}
		pctx.ExchangeRate = v
	}

	if vat != "" {
		v, err := strconv.ParseFloat(vat, 64)
		if err != nil || v < 0 {
			return pctx, false
		}
		pctx.DefaultVAT = v
		// vat=0 means "price without VAT", not "use the default".
		pctx.VATSet = true
	}

	return pctx, true
}

func parsePositiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
