package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"pacer/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// readJSON decodes a request body, capped at 1 MiB.
func readJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseContextParam reads the ?context= query parameter. An empty value
// falls back to personal, matching the default dashboard scope.
func parseContextParam(r *http.Request) (core.Context, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("context"))
	if raw == "" {
		return core.Personal, nil
	}
	scope := core.Context(raw)
	if !scope.Valid() {
		return "", fmt.Errorf("invalid context %q: want personal or business", raw)
	}
	return scope, nil
}

// parseTypeParam reads the ?type= query parameter, defaulting to expense.
func parseTypeParam(r *http.Request) (core.TransactionType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		return core.Expense, nil
	}
	typ := core.TransactionType(raw)
	if typ != core.Income && typ != core.Expense {
		return "", fmt.Errorf("invalid type %q: want income or expense", raw)
	}
	return typ, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
