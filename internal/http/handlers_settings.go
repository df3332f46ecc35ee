package http

import (
	"log/slog"
	"net/http"

	"pacer/internal/core"
)

type settingsJSON struct {
	Currency      string `json:"currency"`
	DateFormat    string `json:"date_format"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Get settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, settingsJSON{
		Currency:      settings.Currency,
		DateFormat:    settings.DateFormat,
		Theme:         settings.Theme,
		Notifications: settings.Notifications,
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsJSON
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := core.Settings{
		Currency:      sanitizeInput(req.Currency),
		DateFormat:    sanitizeInput(req.DateFormat),
		Theme:         sanitizeInput(req.Theme),
		Notifications: req.Notifications,
	}

	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		slog.ErrorContext(r.Context(), "Save settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, req)
}
