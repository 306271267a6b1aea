package transport

import (
	"errors"
	"io"
	"net/http"

	"distris-api/internal/domain"
	"distris-api/internal/middleware"
	"distris-api/internal/repository"
	"distris-api/internal/service"
	"distris-api/internal/spreadsheet"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes caps uploaded spreadsheet size (16 MiB).
const maxUploadBytes = 16 << 20

// SupplierRequest represents the create/update supplier payload
type SupplierRequest struct {
	Name   string `json:"name" validate:"required"`
	Active bool   `json:"active"`
}

// ConfirmMappingRequest carries a human-confirmed mapping together with the
// column labels of the previewed file the mapping must be validated against.
type ConfirmMappingRequest struct {
	Mapping domain.ColumnMapping `json:"mapping" validate:"required"`
	Columns []string             `json:"columns" validate:"required,min=1"`
}

// SupplierHandler handles HTTP requests for the supplier registry and the
// spreadsheet mapping/import flow. All routes are admin-only.
type SupplierHandler struct {
	supplierService service.SupplierService
	catalogService  service.CatalogService
	logger          *zap.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService service.SupplierService, catalogService service.CatalogService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		catalogService:  catalogService,
		logger:          logger,
	}
}

// RegisterRoutes registers all supplier routes
func (h *SupplierHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/suppliers", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)

		r.Post("/{id}/preview", h.Preview)
		r.Post("/{id}/mapping", h.ConfirmMapping)
		r.Post("/{id}/import", h.Import)
	})
}

// List returns all registered suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list suppliers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, suppliers)
}

// Create registers a new supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), req.Name, req.Active)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNameRequired) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create supplier")
		return
	}

	h.logger.Info("Supplier created", zap.String("supplier_id", supplier.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, supplier)
}

// Get returns one supplier
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	supplier, err := h.supplierService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to get supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

// Update edits a supplier's name and activity flag
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SupplierRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), id, req.Name, req.Active)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		if errors.Is(err, service.ErrSupplierNameRequired) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to update supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, supplier)
}

// Delete removes a supplier; its already-imported products stay in the catalog
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.supplierService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
			return
		}
		h.logger.Error("Failed to delete supplier", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete supplier")
		return
	}

	h.logger.Info("Supplier deleted", zap.String("supplier_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}

// Preview uploads a spreadsheet and returns the detected header, column
// labels, mapping proposal and sample rows.
func (h *SupplierHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, err := readUpload(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	preview, err := h.catalogService.PreviewSpreadsheet(r.Context(), id, file)
	if err != nil {
		h.respondImportError(w, id, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, preview)
}

// ConfirmMapping validates and persists a column mapping for a supplier
func (h *SupplierHandler) ConfirmMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ConfirmMappingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogService.ConfirmMapping(r.Context(), id, req.Mapping, req.Columns); err != nil {
		h.respondImportError(w, id, err)
		return
	}

	h.logger.Info("Column mapping confirmed", zap.String("supplier_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "mapping saved"})
}

// Import runs the spreadsheet import pipeline for a supplier
func (h *SupplierHandler) Import(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, err := readUpload(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalogService.ImportFromSpreadsheet(r.Context(), id, file)
	if err != nil {
		h.respondImportError(w, id, err)
		return
	}

	h.logger.Info("Spreadsheet imported",
		zap.String("supplier_id", id),
		zap.Int("imported", result.Imported),
		zap.Int("dropped", result.Dropped),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// respondImportError maps mapping/import failures onto structured responses
// carrying the error kind and the offending fields.
func (h *SupplierHandler) respondImportError(w http.ResponseWriter, supplierID string, err error) {
	var missingRequired *spreadsheet.MissingRequiredMappingError
	var invalidRef *spreadsheet.InvalidMappingReferenceError
	var missingCols *spreadsheet.MissingMappedColumnsError

	switch {
	case errors.Is(err, repository.ErrSupplierNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "supplier not found")
	case errors.Is(err, spreadsheet.ErrEmptySpreadsheet):
		middleware.RespondWithError(w, http.StatusBadRequest, "spreadsheet is empty")
	case errors.Is(err, spreadsheet.ErrNoMappingConfigured):
		middleware.RespondWithError(w, http.StatusConflict, "supplier has no column mapping configured")
	case errors.As(err, &missingRequired):
		middleware.RespondWithFieldErrors(w, http.StatusBadRequest, "missing_required_mapping", err.Error(), missingRequired.Fields)
	case errors.As(err, &invalidRef):
		middleware.RespondWithFieldErrors(w, http.StatusBadRequest, "invalid_mapping_reference", err.Error(), invalidRef.Fields)
	case errors.As(err, &missingCols):
		middleware.RespondWithFieldErrors(w, http.StatusBadRequest, "missing_mapped_columns", err.Error(), missingCols.Fields)
	default:
		h.logger.Error("Import operation failed",
			zap.String("supplier_id", supplierID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "import operation failed")
	}
}

// readUpload extracts the uploaded file from a multipart form, falling back
// to the raw request body for direct uploads.
func readUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		file, _, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			return io.ReadAll(file)
		}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return nil, errors.New("missing spreadsheet file")
	}
	return data, nil
}
