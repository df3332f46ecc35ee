package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pacer/internal/analytics"
	"pacer/internal/core"
	"pacer/internal/ledger"
)

type goalJSON struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TargetCents    int64   `json:"target_cents"`
	CurrentCents   int64   `json:"current_cents"`
	Deadline       string  `json:"deadline"`
	Color          string  `json:"color"`
	Percent        float64 `json:"percent"`
	RemainingCents int64   `json:"remaining_cents"`
	DaysRemaining  int     `json:"days_remaining"`
}

type createGoalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Current  string `json:"current"`
	Deadline string `json:"deadline"`
	Color    string `json:"color"`
}

type contributeRequest struct {
	// Amount is a signed decimal; negative values withdraw.
	Amount string `json:"amount"`
}

func toGoalJSON(g core.SavingsGoal, now time.Time) goalJSON {
	p := analytics.ProgressForGoal(g, now)
	return goalJSON{
		ID:             g.ID,
		Name:           g.Name,
		TargetCents:    g.Target.Cents,
		CurrentCents:   g.Current.Cents,
		Deadline:       g.Deadline.ISO(),
		Color:          g.Color,
		Percent:        p.Percent,
		RemainingCents: p.Remaining.Cents,
		DaysRemaining:  p.DaysRemaining,
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List goals failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}

	now := time.Now()
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	targetCents, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target: "+err.Error())
		return
	}

	var currentCents int64
	if req.Current != "" {
		currentCents, err = core.ParseDecimalToCents(req.Current)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid current amount: "+err.Error())
			return
		}
	}

	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deadline: want YYYY-MM-DD")
		return
	}

	goal := core.SavingsGoal{
		ID:       s.newID(),
		Name:     sanitizeInput(req.Name),
		Target:   core.Money{Cents: targetCents},
		Current:  core.Money{Cents: currentCents},
		Deadline: deadline,
		Color:    sanitizeInput(req.Color),
	}

	if err := goal.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.AddGoal(r.Context(), goal); err != nil {
		slog.ErrorContext(r.Context(), "Add goal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save goal")
		return
	}

	writeJSON(w, http.StatusCreated, toGoalJSON(goal, time.Now()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete goal failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContributeToGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req contributeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deltaCents, err := core.ParseSignedDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	if err := s.store.ContributeToGoal(r.Context(), id, deltaCents); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		slog.ErrorContext(r.Context(), "Contribute to goal failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}

	goals, err := s.store.ListGoals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read goal")
		return
	}
	now := time.Now()
	for _, g := range goals {
		if g.ID == id {
			writeJSON(w, http.StatusOK, toGoalJSON(g, now))
			return
		}
	}
	writeError(w, http.StatusNotFound, "goal not found")
}
