package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pacer/internal/core"
	"pacer/internal/ledger"
)

type transactionJSON struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Context     string `json:"context"`
	RecurringID string `json:"recurring_id,omitempty"`
}

type createTransactionRequest struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Date:        t.Date.ISO(),
		Type:        string(t.Type),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.Decimal(),
		Description: t.Description,
		Context:     string(t.Context),
		RecurringID: t.RecurringID,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: want YYYY-MM-DD")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	tx := core.Transaction{
		ID:          s.newID(),
		Date:        date,
		Type:        core.TransactionType(req.Type),
		Category:    sanitizeInput(req.Category),
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(req.Description),
		Context:     core.Context(req.Context),
	}

	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.AddTransaction(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Add transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.reportCache.Purge()

	if s.events != nil {
		if err := s.events.PublishTransactionSync(r.Context(), tx.ID); err != nil {
			// The transaction is saved; export lag is acceptable.
			slog.WarnContext(r.Context(), "Publish transaction sync failed", "id", tx.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.reportCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
