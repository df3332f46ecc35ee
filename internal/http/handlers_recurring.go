package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pacer/internal/core"
	"pacer/internal/ledger"
)

type recurringJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	AmountCents   int64  `json:"amount_cents"`
	Amount        string `json:"amount"`
	Frequency     string `json:"frequency"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Context       string `json:"context"`
	LastProcessed string `json:"last_processed,omitempty"`
}

type createRecurringRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Context   string `json:"context"`
}

func toRecurringJSON(rec core.RecurringTransaction) recurringJSON {
	out := recurringJSON{
		ID:          rec.ID,
		Name:        rec.Name,
		Type:        string(rec.Type),
		Category:    rec.Category,
		AmountCents: rec.Amount.Cents,
		Amount:      rec.Amount.Decimal(),
		Frequency:   string(rec.Frequency),
		StartDate:   rec.StartDate.ISO(),
		Context:     string(rec.Context),
	}
	if !rec.EndDate.IsEmpty() {
		out.EndDate = rec.EndDate.ISO()
	}
	if !rec.LastProcessed.IsZero() {
		out.LastProcessed = rec.LastProcessed.Format(time.RFC3339)
	}
	return out
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListRecurring(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recurring transactions")
		return
	}

	out := make([]recurringJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecurringJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date: want YYYY-MM-DD")
		return
	}

	var endDate core.Date
	if req.EndDate != "" {
		endDate, err = core.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date: want YYYY-MM-DD")
			return
		}
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	rec := core.RecurringTransaction{
		ID:        s.newID(),
		Name:      sanitizeInput(req.Name),
		Type:      core.TransactionType(req.Type),
		Category:  sanitizeInput(req.Category),
		Amount:    core.Money{Cents: cents},
		Frequency: core.Frequency(req.Frequency),
		StartDate: startDate,
		EndDate:   endDate,
		Context:   core.Context(req.Context),
	}

	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.AddRecurring(r.Context(), rec); err != nil {
		slog.ErrorContext(r.Context(), "Add recurring failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save recurring transaction")
		return
	}

	writeJSON(w, http.StatusCreated, toRecurringJSON(rec))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteRecurring(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recurring transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete recurring failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recurring transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
