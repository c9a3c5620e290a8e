// Package rest serves product image blobs over HTTP.
package rest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oldwares/curio/internal/image/store"
	"github.com/oldwares/curio/pkg/web"
)

// maxUploadBytes caps admin image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type Handler struct {
	store  store.ImageStore
	logger *slog.Logger
}

// NewHandler creates a new image handler backed by the given blob store.
func NewHandler(store store.ImageStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("component", "images"),
	}
}

// RegisterRoutes registers the image routes. Upload is admin-only.
func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(next http.Handler) http.Handler) {
	r.Get("/api/images/{key}", h.Get)
	r.With(admin).Post("/api/images", h.Upload)
}

// Get serves a stored image with a content type inferred from the key's extension.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	key := r.PathValue("key")
	if key == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Image key required")
		return
	}

	data, err := h.store.FindByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrImageNotFound) {
			mLogger.WarnContext(r.Context(), "Image not found", "key", key)
			web.RespondError(w, mLogger, http.StatusNotFound, "Image not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving image", "key", key, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve image")
		return
	}

	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Upload stores a raw image body and returns the generated blob key. The
// original file extension is kept so that retrieval can infer a content type.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "filename url parameter is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error reading upload body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Failed to read image data")
		return
	}
	if len(data) == 0 {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Image data required")
		return
	}
	if len(data) > maxUploadBytes {
		web.RespondError(w, mLogger, http.StatusRequestEntityTooLarge, "Image exceeds maximum size")
		return
	}

	key := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if err := h.store.Save(r.Context(), key, data); err != nil {
		mLogger.ErrorContext(r.Context(), "Error saving image", "key", key, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to save image")
		return
	}
	mLogger.InfoContext(r.Context(), "Image uploaded", "key", key, "bytes", len(data))
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]string{"key": key, "url": fmt.Sprintf("/api/images/%s", key)})
}

// contentTypeForKey infers a content type from the blob key's file extension.
// JPEG is the default for unrecognized extensions.
func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
