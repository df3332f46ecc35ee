package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pacer/internal/analytics"
	"pacer/internal/core"
)

type balanceResponse struct {
	Context  core.Context `json:"context"`
	Income   int64        `json:"income_cents"`
	Expenses int64        `json:"expenses_cents"`
	Net      int64        `json:"net_cents"`
}

type breakdownEntry struct {
	Category   string  `json:"category"`
	Amount     int64   `json:"amount_cents"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type monthlyEntry struct {
	Month    string `json:"month"`
	Income   int64  `json:"income_cents"`
	Expenses int64  `json:"expenses_cents"`
}

// serveCachedReport answers from the report cache when possible, otherwise
// builds the payload and stores it under the full request URI.
func (s *Server) serveCachedReport(w http.ResponseWriter, r *http.Request, build func() (any, error)) {
	key := r.URL.RequestURI()

	if payload, ok := s.reportCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	v, err := build()
	if err != nil {
		slog.ErrorContext(r.Context(), "Report build failed", "url", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}
	s.reportCache.Set(key, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	scope, err := parseContextParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveCachedReport(w, r, func() (any, error) {
		txs, err := s.store.ListTransactions(r.Context())
		if err != nil {
			return nil, err
		}
		b := analytics.CalculateBalance(txs, scope)
		return balanceResponse{
			Context:  scope,
			Income:   b.Income.Cents,
			Expenses: b.Expenses.Cents,
			Net:      b.Net.Cents,
		}, nil
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	scope, err := parseContextParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	typ, err := parseTypeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveCachedReport(w, r, func() (any, error) {
		txs, err := s.store.ListTransactions(r.Context())
		if err != nil {
			return nil, err
		}
		cats, err := s.store.ListCategories(r.Context())
		if err != nil {
			return nil, err
		}

		scoped := txs[:0:0]
		for _, t := range txs {
			if t.Context == scope {
				scoped = append(scoped, t)
			}
		}

		shares := analytics.CategoryBreakdown(scoped, cats, typ)
		out := make([]breakdownEntry, 0, len(shares))
		for _, sh := range shares {
			out = append(out, breakdownEntry{
				Category:   sh.Category,
				Amount:     sh.Amount.Cents,
				Percentage: sh.Percentage,
				Color:      sh.Color,
			})
		}
		return out, nil
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	scope, err := parseContextParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveCachedReport(w, r, func() (any, error) {
		txs, err := s.store.ListTransactions(r.Context())
		if err != nil {
			return nil, err
		}

		scoped := txs[:0:0]
		for _, t := range txs {
			if t.Context == scope {
				scoped = append(scoped, t)
			}
		}

		points := analytics.MonthlyData(scoped)
		out := make([]monthlyEntry, 0, len(points))
		for _, p := range points {
			out = append(out, monthlyEntry{
				Month:    p.Month,
				Income:   p.Income.Cents,
				Expenses: p.Expenses.Cents,
			})
		}
		return out, nil
	})
}
