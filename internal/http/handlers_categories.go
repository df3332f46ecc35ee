package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pacer/internal/core"
	"pacer/internal/ledger"
)

type categoryJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

type createCategoryRequest struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{
			ID:      c.ID,
			Name:    c.Name,
			Color:   c.Color,
			Context: string(c.Context),
			Type:    string(c.Type),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := core.Category{
		ID:      s.newID(),
		Name:    sanitizeInput(req.Name),
		Color:   sanitizeInput(req.Color),
		Context: core.Context(req.Context),
		Type:    core.TransactionType(req.Type),
	}

	if err := cat.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.AddCategory(r.Context(), cat); err != nil {
		slog.ErrorContext(r.Context(), "Add category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save category")
		return
	}

	// Breakdown colors join on category metadata.
	s.reportCache.Purge()

	writeJSON(w, http.StatusCreated, categoryJSON{
		ID:      cat.ID,
		Name:    cat.Name,
		Color:   cat.Color,
		Context: string(cat.Context),
		Type:    string(cat.Type),
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete category failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	s.reportCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
