package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pacer/internal/ledger/memory"
)

type capturingPublisher struct {
	ids []string
}

func (p *capturingPublisher) PublishTransactionSync(_ context.Context, id string) error {
	p.ids = append(p.ids, id)
	return nil
}

func newTestServer(t *testing.T) (*Server, *capturingPublisher) {
	t.Helper()
	pub := &capturingPublisher{}
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("test-id-%d", n)
	}
	srv := NewServer(":0", memory.New(), newID, pub)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, pub
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func createTransaction(t *testing.T, srv *Server, typ, category, amount, scope string) {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"date":        "2024-01-15",
		"type":        typ,
		"category":    category,
		"amount":      amount,
		"description": "test entry",
		"context":     scope,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/readyz status = %d", rec.Code)
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv, pub := newTestServer(t)

	createTransaction(t, srv, "income", "Salary", "1000.00", "personal")
	createTransaction(t, srv, "expense", "Food & Dining", "300.00", "personal")

	if len(pub.ids) != 2 {
		t.Errorf("published %d sync messages, want 2", len(pub.ids))
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var txs []transactionJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].AmountCents != 100000 || txs[0].Amount != "1000.00" {
		t.Errorf("first transaction = %+v", txs[0])
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "bad date", body: map[string]any{"date": "01/15/2024", "type": "expense", "category": "Food", "amount": "10", "context": "personal"}},
		{name: "bad amount", body: map[string]any{"date": "2024-01-15", "type": "expense", "category": "Food", "amount": "-10", "context": "personal"}},
		{name: "bad type", body: map[string]any{"date": "2024-01-15", "type": "loan", "category": "Food", "amount": "10", "context": "personal"}},
		{name: "bad context", body: map[string]any{"date": "2024-01-15", "type": "expense", "category": "Food", "amount": "10", "context": "family"}},
		{name: "empty category", body: map[string]any{"date": "2024-01-15", "type": "expense", "category": " ", "amount": "10", "context": "personal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, _ := newTestServer(t)
	createTransaction(t, srv, "expense", "Food & Dining", "10.00", "personal")

	rec := doJSON(t, srv, http.MethodDelete, "/api/transactions/test-id-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/test-id-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestBalanceReport(t *testing.T) {
	srv, _ := newTestServer(t)
	createTransaction(t, srv, "income", "Salary", "1000.00", "personal")
	createTransaction(t, srv, "expense", "Food & Dining", "300.00", "personal")
	createTransaction(t, srv, "income", "Business Revenue", "5000.00", "business")

	rec := doJSON(t, srv, http.MethodGet, "/api/balance?context=personal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance status = %d", rec.Code)
	}

	var got balanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Income != 100000 || got.Expenses != 30000 || got.Net != 70000 {
		t.Errorf("balance = %+v", got)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/balance?context=castle", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid context status = %d, want 400", rec.Code)
	}
}

func TestBalanceReportCacheInvalidation(t *testing.T) {
	srv, _ := newTestServer(t)
	createTransaction(t, srv, "income", "Salary", "100.00", "personal")

	first := doJSON(t, srv, http.MethodGet, "/api/balance?context=personal", nil)
	if first.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first call X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}

	second := doJSON(t, srv, http.MethodGet, "/api/balance?context=personal", nil)
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second call X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}

	// A write must invalidate the memoized report.
	createTransaction(t, srv, "expense", "Food & Dining", "40.00", "personal")

	third := doJSON(t, srv, http.MethodGet, "/api/balance?context=personal", nil)
	if third.Header().Get("X-Cache") != "MISS" {
		t.Errorf("post-write call X-Cache = %q, want MISS", third.Header().Get("X-Cache"))
	}

	var got balanceResponse
	if err := json.Unmarshal(third.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Net != 6000 {
		t.Errorf("Net after write = %d, want 6000", got.Net)
	}
}

func TestBreakdownReport(t *testing.T) {
	srv, _ := newTestServer(t)
	createTransaction(t, srv, "expense", "Food & Dining", "0.60", "personal")
	createTransaction(t, srv, "expense", "Food & Dining", "0.40", "personal")
	createTransaction(t, srv, "expense", "Housing", "1.00", "personal")

	rec := doJSON(t, srv, http.MethodGet, "/api/breakdown?type=expense&context=personal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown status = %d", rec.Code)
	}

	var got []breakdownEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got), got)
	}
	for _, entry := range got {
		if entry.Amount != 100 || entry.Percentage != 50 {
			t.Errorf("entry = %+v, want amount 100 and 50%%", entry)
		}
	}
	// Default categories carry the colors the entries resolve to.
	if got[0].Category == "Food & Dining" && got[0].Color != "#ef4444" {
		t.Errorf("Food color = %q, want #ef4444", got[0].Color)
	}
}

func TestMonthlyReport(t *testing.T) {
	srv, _ := newTestServer(t)
	createTransaction(t, srv, "income", "Salary", "10.00", "personal")

	rec := doJSON(t, srv, http.MethodGet, "/api/monthly?context=personal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("monthly status = %d", rec.Code)
	}

	var got []monthlyEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Month != "Jan 2024" || got[0].Income != 1000 {
		t.Errorf("monthly = %+v", got)
	}
}

func TestGoalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"name":     "Vacation",
		"target":   "1000.00",
		"current":  "250.00",
		"deadline": "2030-06-01",
		"color":    "#3b82f6",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d, body %s", rec.Code, rec.Body.String())
	}

	var goal goalJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatal(err)
	}
	if goal.Percent != 25 {
		t.Errorf("Percent = %f, want 25", goal.Percent)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/goals/"+goal.ID+"/contribute", map[string]any{
		"amount": "-500.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("contribute status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatal(err)
	}
	// Withdrawal larger than the saved amount clamps at zero.
	if goal.CurrentCents != 0 {
		t.Errorf("CurrentCents = %d, want 0", goal.CurrentCents)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/goals/missing/contribute", map[string]any{"amount": "5"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("contribute to missing goal status = %d, want 404", rec.Code)
	}
}

func TestRecurringEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/recurring", map[string]any{
		"name":       "Rent",
		"type":       "expense",
		"category":   "Housing",
		"amount":     "1200.00",
		"frequency":  "monthly",
		"start_date": "2024-01-01",
		"context":    "personal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recurring status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/recurring", map[string]any{
		"name":       "Bad",
		"type":       "expense",
		"category":   "Housing",
		"amount":     "10.00",
		"frequency":  "fortnightly",
		"start_date": "2024-01-01",
		"context":    "personal",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid frequency status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/recurring", nil)
	var recs []recurringJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Name != "Rent" {
		t.Errorf("recurring list = %+v", recs)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	var got settingsJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Currency != "USD" {
		t.Errorf("default currency = %q, want USD", got.Currency)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/settings", settingsJSON{
		Currency:      "EUR",
		DateFormat:    "DD/MM/YYYY",
		Theme:         "dark",
		Notifications: false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save settings status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Currency != "EUR" || got.Theme != "dark" {
		t.Errorf("settings after save = %+v", got)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/settings", settingsJSON{
		Currency:   "EUR",
		DateFormat: "YYYY-MM-DD",
		Theme:      "dark",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date format status = %d, want 400", rec.Code)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv, _ := newTestServer(t)

	var limited bool
	for i := 0; i < 70; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
			"date":     "2024-01-15",
			"type":     "expense",
			"category": "Food & Dining",
			"amount":   "1.00",
			"context":  "personal",
		})
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected a 429 after exceeding the write rate limit")
	}
}
