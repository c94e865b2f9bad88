// Package http exposes the expense tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/services"
)

type Server struct {
	http.Server
	service      *services.ExpenseService
	analyzer     Analyzer
	parser       ExpenseParser
	geminiAPIKey string
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// geminiAPIKey is the fallback key used when a request carries none.
func NewServer(addr string, service *services.ExpenseService, analyzer Analyzer, parser ExpenseParser, geminiAPIKey string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		service:      service,
		analyzer:     analyzer,
		parser:       parser,
		geminiAPIKey: geminiAPIKey,
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("DELETE /api/expenses", s.withMiddleware(s.handleClearExpenses))
	mux.HandleFunc("POST /api/expenses/parse", s.withMiddleware(s.handleParseExpense))
	mux.HandleFunc("POST /api/analyze", s.withMiddleware(s.handleAnalyze))
	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleSummary))

	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// apiKeyFor resolves the Gemini key for a request. A per-request header wins
// over the configured fallback.
func (s *Server) apiKeyFor(r *http.Request) string {
	if key := r.Header.Get("X-Gemini-Key"); key != "" {
		return key
	}
	return s.geminiAPIKey
}
