package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/middleware/security"
	"bilancio/internal/middleware/trace"
)

// ReadinessChecker reports whether the backing store is reachable.
// Implemented by storage.SQLiteRepository.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server wires the JSON API: finance writes, dashboard reads, and the
// middleware chain (trace, security headers, write rate limiting).
type Server struct {
	http.Server

	finance   FinanceAPI
	snapshots SnapshotAPI
	readiness ReadinessChecker

	limiter      *ratelimit.Limiter
	clientIP     *security.ClientIPExtractor
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, finance FinanceAPI, snapshots SnapshotAPI, readiness ReadinessChecker) *Server {
	mux := http.NewServeMux()

	s := &Server{
		finance:   finance,
		snapshots: snapshots,
		readiness: readiness,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		clientIP:  security.NewClientIPExtractor(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("PUT /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/progress", s.handleAddGoalProgress)
	mux.HandleFunc("POST /api/goals/{id}/next", s.handleRecreateGoal)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/bills", s.handleBills)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("GET /api/health-score", s.handleHealthScore)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.clientIP.ExtractClientIP)
	limited := s.limiter.Middleware(s.clientIP.ExtractClientIP, nil)

	var handler http.Handler = mux
	handler = s.writeOnly(limited)(handler)
	handler = headers.Handler(handler)
	handler = tracer.Handler(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// writeOnly applies mw to mutating requests only; reads are served by the
// snapshot cache and do not need rate limiting.
func (s *Server) writeOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				wrapped.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Shutdown gracefully shuts down the server and stops background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readiness.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
