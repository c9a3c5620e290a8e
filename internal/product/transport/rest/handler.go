// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	producterrors "github.com/oldwares/curio/internal/product/errors"
	"github.com/oldwares/curio/internal/product/service"
	"github.com/oldwares/curio/pkg/web"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog. Mutating routes
// are wrapped with the admin middleware.
func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(next http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.With(admin).Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.With(admin).Put("/", h.Update)
			r.With(admin).Delete("/", h.DeleteByID)
		})
	})
	r.Get("/api/featured", h.FindFeatured)

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves the full product list, newest first.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to list products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Title", found.Title)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindFeatured retrieves the bounded featured subset.
func (h *Handler) FindFeatured(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to list featured products")
	list, err := h.service.FindFeatured(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving featured products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch featured products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "Title", productCreateDto.Title)
	if !h.validateBody(w, r, mLogger, productCreateDto) {
		return
	}
	if productCreateDto.Price.IsNegative() {
		mLogger.WarnContext(r.Context(), "Rejected negative price", "Price", productCreateDto.Price)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Price must not be negative")
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Title", newProduct.Title)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Update applies a partial update to a product. Unset fields are retained.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productUpdateDto service.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&productUpdateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateBody(w, r, mLogger, productUpdateDto) {
		return
	}
	if productUpdateDto.Price != nil && productUpdateDto.Price.IsNegative() {
		mLogger.WarnContext(r.Context(), "Rejected negative price", "Price", productUpdateDto.Price)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Price must not be negative")
		return
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Title", updated.Title)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	deletedID, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", deletedID)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{"success": true, "deleted_id": deletedID})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateBody validates a decoded DTO and writes a per-field error map on failure.
// Returns false if a response has already been written.
func (h *Handler) validateBody(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
