package preview

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gitstack/internal/service"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	branch := r.URL.Query().Get("branch")
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	previewData, err := h.service.GetOrGeneratePreview(r.Context(), projectID, branch, path)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileNotFound):
			http.Error(w, "File not found", http.StatusNotFound)
		case errors.Is(err, ErrUnsupportedType):
			http.Error(w, "Preview is not supported for this file type", http.StatusUnsupportedMediaType)
		default:
			log.Printf("Failed to generate preview for %q: %v", path, err)
			http.Error(w, "Failed to generate preview", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(previewData)
}
