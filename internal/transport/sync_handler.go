package transport

import (
	"errors"
	"net/http"

	"distris-api/internal/middleware"
	"distris-api/internal/service"
	"distris-api/internal/supplier"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SyncResult is the per-supplier outcome of a sync run
type SyncResult struct {
	SupplierID string `json:"supplierId"`
	Total      int    `json:"total"`
	Error      string `json:"error,omitempty"`
}

// SyncResponse aggregates a full sync run
type SyncResponse struct {
	Results   []SyncResult `json:"results"`
	Processed int          `json:"processed"`
	Imported  int          `json:"imported"`
	Failed    int          `json:"failed"`
}

// SyncHandler triggers API synchronization against the configured supplier
// endpoints. Sync routes are admin-only and rate limited.
type SyncHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(catalogService service.CatalogService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all sync routes
func (h *SyncHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware, rateLimitMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/sync", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Use(rateLimitMiddleware)

		r.Post("/", h.SyncAll)
		r.Post("/{supplierID}", h.SyncOne)
	})
}

// SyncAll fetches every configured supplier concurrently; per-supplier
// failures are reported in the response without failing the run.
func (h *SyncHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.SyncAll(r.Context())
	if err != nil {
		h.logger.Error("Sync run failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	response := SyncResponse{
		Results:   make([]SyncResult, 0, len(results)),
		Processed: len(results),
	}
	for _, res := range results {
		out := SyncResult{SupplierID: res.SupplierID, Total: res.Total}
		if res.Err != nil {
			out.Error = res.Err.Error()
			response.Failed++
		} else {
			response.Imported += res.Total
		}
		response.Results = append(response.Results, out)
	}

	h.logger.Info("Sync run completed",
		zap.Int("imported", response.Imported),
		zap.Int("failed", response.Failed),
	)
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// SyncOne fetches a single supplier
func (h *SyncHandler) SyncOne(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierID")

	res, err := h.catalogService.SyncOne(r.Context(), supplierID)
	if err != nil {
		if errors.Is(err, supplier.ErrUnknownSupplier) {
			middleware.RespondWithError(w, http.StatusNotFound, "no API endpoint configured for supplier")
			return
		}
		h.logger.Error("Supplier sync failed",
			zap.String("supplier_id", supplierID),
			zap.Error(err),
		)
		var malformed *supplier.MalformedPayloadError
		if errors.As(err, &malformed) {
			middleware.RespondWithError(w, http.StatusBadGateway, "supplier returned a malformed payload")
			return
		}
		middleware.RespondWithError(w, http.StatusBadGateway, "supplier sync failed")
		return
	}

	h.logger.Info("Supplier synced",
		zap.String("supplier_id", supplierID),
		zap.Int("total", res.Total),
	)
	middleware.RespondWithJSON(w, http.StatusOK, SyncResult{SupplierID: res.SupplierID, Total: res.Total})
}
