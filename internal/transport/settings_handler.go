package transport

import (
	"net/http"

	"distris-api/internal/middleware"
	"distris-api/internal/supplier"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsResponse exposes the current pricing defaults.
type SettingsResponse struct {
	ExchangeRate float64 `json:"exchangeRate"`
	DefaultVAT   float64 `json:"defaultVat"`
}

type ExchangeRateRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

// SettingsHandler reads and updates the shared pricing settings. The
// exchange rate it writes is the same one sync rate discovery updates.
type SettingsHandler struct {
	rates      *supplier.RateHolder
	defaultVAT float64
	logger     *zap.Logger
}

func NewSettingsHandler(rates *supplier.RateHolder, defaultVAT float64, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		rates:      rates,
		defaultVAT: defaultVAT,
		logger:     logger,
	}
}

func (h *SettingsHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/settings", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Put("/exchange-rate", h.SetExchangeRate)
		})
	})
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, SettingsResponse{
		ExchangeRate: h.rates.Rate(),
		DefaultVAT:   h.defaultVAT,
	})
}

func (h *SettingsHandler) SetExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req ExchangeRateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.rates.Set(req.Rate)
	h.logger.Info("Exchange rate updated", zap.Float64("rate", req.Rate))
	middleware.RespondWithJSON(w, http.StatusOK, SettingsResponse{
		ExchangeRate: h.rates.Rate(),
		DefaultVAT:   h.defaultVAT,
	})
}
