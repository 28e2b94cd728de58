package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gitstack/internal/service"
)

// CodeHandler обслуживает браузер кода: ветки, дерево, содержимое файлов
type CodeHandler struct {
	branchService *service.BranchService
	codeService   *service.CodeService
}

func NewCodeHandler(branchService *service.BranchService, codeService *service.CodeService) *CodeHandler {
	return &CodeHandler{
		branchService: branchService,
		codeService:   codeService,
	}
}

func (h *CodeHandler) GetBranches(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	branches, err := h.branchService.GetBranches(r.Context(), projectID)
	if err != nil {
		log.Printf("Failed to get branches for project %s: %v", projectID, err)
		http.Error(w, "Failed to get branches", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(branches)
}

// GetTree отдает один уровень дерева. Пустой проект и несуществующая
// директория — оба случая дают пустой массив, не ошибку.
func (h *CodeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	branch := r.URL.Query().Get("branch")
	path := r.URL.Query().Get("path")

	entries, err := h.codeService.ListDirectory(r.Context(), projectID, branch, path)
	if err != nil {
		log.Printf("Failed to list directory %q for project %s: %v", path, projectID, err)
		http.Error(w, "Failed to list directory", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetBlob отдает метаданные и содержимое файла. 404 только при отсутствии
// метаданных; отсутствие байтов в хранилище — это 200 с content: null.
func (h *CodeHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
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

	content, err := h.codeService.GetBlob(r.Context(), projectID, branch, path)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "file not found",
				"path":  path,
			})
			return
		}
		log.Printf("Failed to get blob %q for project %s: %v", path, projectID, err)
		http.Error(w, "Failed to get file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(content)
}
