// Package http serves the ledger and its derived reports as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pacer/internal/cache"
	"pacer/internal/identity"
	"pacer/internal/ledger"
	"pacer/internal/services"
)

type Server struct {
	http.Server
	store       ledger.Store
	newID       identity.Generator
	events      services.SyncPublisher // nil when AMQP is not configured
	rateLimiter *rateLimiter

	// reportCache memoizes serialized report payloads. Entries are
	// purged on every write so reports always reflect the raw ledger.
	reportCache  *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store ledger.Store, newID identity.Generator, events services.SyncPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        store,
		newID:        newID,
		events:       events,
		rateLimiter:  newRateLimiter(),
		reportCache:  cache.NewLRUCache[[]byte](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.withSecurityHeaders(s.handleReady))

	mux.HandleFunc("GET /api/balance", s.withSecurityHeaders(s.handleBalance))
	mux.HandleFunc("GET /api/breakdown", s.withSecurityHeaders(s.handleBreakdown))
	mux.HandleFunc("GET /api/monthly", s.withSecurityHeaders(s.handleMonthly))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/recurring", s.withSecurityHeaders(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.withSecurityHeaders(s.handleCreateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.withSecurityHeaders(s.handleDeleteRecurring))

	mux.HandleFunc("GET /api/goals", s.withSecurityHeaders(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withSecurityHeaders(s.handleCreateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withSecurityHeaders(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.withSecurityHeaders(s.handleContributeToGoal))

	mux.HandleFunc("GET /api/settings", s.withSecurityHeaders(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.withSecurityHeaders(s.handleSaveSettings))

	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on writes, and
// request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// A cheap read proves the backing store answers.
	if _, err := s.store.GetSettings(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
