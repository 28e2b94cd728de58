package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gitstack/internal/auth"
	"gitstack/internal/service"
)

type ReadmeHandler struct {
	readmeService *service.ReadmeService
}

type upsertReadmeRequest struct {
	Branch  string  `json:"branch,omitempty"`
	Content *string `json:"content"`
}

func NewReadmeHandler(readmeService *service.ReadmeService) *ReadmeHandler {
	return &ReadmeHandler{readmeService: readmeService}
}

func (h *ReadmeHandler) GetReadme(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	readme, err := h.readmeService.GetReadme(r.Context(), projectID, r.URL.Query().Get("branch"))
	if err != nil {
		log.Printf("Failed to get readme for project %s: %v", projectID, err)
		http.Error(w, "Failed to get readme", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(readme)
}

func (h *ReadmeHandler) UpsertReadme(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req upsertReadmeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// Контент обязан быть строкой; отсутствие поля — ошибка клиента
	if req.Content == nil {
		http.Error(w, "Content must be a string", http.StatusBadRequest)
		return
	}

	readme, err := h.readmeService.UpsertReadme(r.Context(), projectID, req.Branch, *req.Content, userID)
	if err != nil {
		log.Printf("Failed to upsert readme for project %s: %v", projectID, err)
		http.Error(w, "Failed to update readme", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(readme)
}
