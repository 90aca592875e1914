// Package http exposes the dashboard as a JSON API: the local ledger
// aggregate, session endpoints, CSV import/export, insights, and the
// proxied collaborator screens (portfolio, predictions).
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"wealthify/internal/api"
	"wealthify/internal/cache"
	"wealthify/internal/core"
	"wealthify/internal/ledger"
	"wealthify/internal/middleware/ratelimit"
	"wealthify/internal/middleware/security"
	"wealthify/internal/middleware/trace"
	"wealthify/internal/services"
	"wealthify/internal/session"
)

// SheetsExporter mirrors the CSV export into a spreadsheet. Optional.
type SheetsExporter interface {
	AppendTransactions(ctx context.Context, transactions []core.Transaction) error
}

// Options carries the server's collaborators. Service may be the REST
// client or the in-memory backend; Sheets may be nil.
type Options struct {
	Addr      string
	Ledger    *ledger.Ledger
	Session   *session.Manager
	Service   api.Service
	Importer  *services.ImportService
	Sheets    SheetsExporter
	CacheTTL  time.Duration
	CacheSize int
}

type Server struct {
	http.Server

	ledger   *ledger.Ledger
	session  *session.Manager
	svc      api.Service
	importer *services.ImportService
	sheets   SheetsExporter

	limiter *ratelimit.Limiter
	caches  *cache.Manager

	// Collaborator fetch plumbing: per-key dedup via singleflight, a
	// sequence counter so only the most recent dashboard request may
	// replace the aggregate, and TTL caches in front of both screens.
	fetchGroup     singleflight.Group
	dashSeq        atomic.Uint64
	dashCache      *cache.LRUCache[api.DashboardData]
	portfolioCache *cache.LRUCache[api.PortfolioOverview]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}

	mux := http.NewServeMux()
	s := &Server{
		ledger:         opts.Ledger,
		session:        opts.Session,
		svc:            opts.Service,
		importer:       opts.Importer,
		sheets:         opts.Sheets,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		caches:         cache.NewManager(),
		dashCache:      cache.NewLRUCache[api.DashboardData](opts.CacheSize, opts.CacheTTL),
		portfolioCache: cache.NewLRUCache[api.PortfolioOverview](opts.CacheSize, opts.CacheTTL),
	}
	s.caches.Register(s.dashCache)
	s.caches.Register(s.portfolioCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/savings", s.handleUpdateSavings)
	mux.HandleFunc("PUT /api/savings-goal", s.handleUpdateSavingsGoal)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/insights", s.handleInsights)

	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/assets", s.handleAssets)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleAddExpenses)
	mux.HandleFunc("POST /api/predictions", s.handlePredict)

	mux.HandleFunc("GET /api/export", s.handleExportCSV)
	mux.HandleFunc("POST /api/export/sheets", s.handleExportSheets)
	mux.HandleFunc("POST /api/import", s.handleImportCSV)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	detector := security.NewDetector()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(detector.ExtractClientIP)
	limited := s.limiter.Middleware(detector.ExtractClientIP, nil)
	guard := suspiciousRequestLogger(detector)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: tracer.Middleware(headers.Middleware(guard(limited(mux)))),
	}
	return s
}

// suspiciousRequestLogger flags probe-looking requests in the log. It
// never blocks; a false positive must not cost a real user a request.
func suspiciousRequestLogger(detector *security.Detector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if detector.DetectSuspiciousRequest(r) {
				slog.WarnContext(r.Context(), "Suspicious request pattern",
					"request_id", trace.RequestID(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
					"client_ip", detector.ExtractClientIP(r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Shutdown stops the background cleanup goroutines before closing the
// listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// currentUserID resolves the numeric collaborator user id from the
// session. A non-numeric subject maps to 0, the anonymous id.
func (s *Server) currentUserID(ctx context.Context) (int64, error) {
	id, err := s.session.UserID(ctx)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// flushCaches drops cached collaborator views. Called whenever the
// session changes so one user's data never leaks into another's view.
func (s *Server) flushCaches() {
	s.dashCache.Flush()
	s.portfolioCache.Flush()
}
