// Package http exposes the expense and analytics services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"artha/internal/core"
	"artha/internal/log"
	"artha/internal/middleware/ratelimit"
	"artha/internal/middleware/security"
	"artha/internal/middleware/trace"
	"artha/internal/services"
)

const defaultMaxBodyBytes = 1 << 20

// ExpenseService is the day-level read/write surface the handlers need.
type ExpenseService interface {
	ExpensesForDate(ctx context.Context, date core.Date) ([]core.Expense, error)
	ReplaceDay(ctx context.Context, date core.Date, expenses []core.Expense) error
}

// AnalyticsService is the reporting surface the handlers need.
type AnalyticsService interface {
	GetBreakdown(ctx context.Context, start, end core.Date) (core.CategoryBreakdown, error)
	GetMonthlyBreakdown(ctx context.Context) ([]core.MonthlyTotal, error)
	PlanSavings(ctx context.Context, req core.SavingsRequest) (core.SavingsAdvice, error)
	Insights(ctx context.Context, start, end core.Date) (services.Insights, error)
	Wisdom(ctx core.WisdomContext) core.Wisdom
}

// ServerConfig tunes the HTTP server. Zero values get defaults.
type ServerConfig struct {
	Addr            string
	RateLimitPerMin int
	// StoreTimeout bounds every handler's call into the services.
	StoreTimeout time.Duration
	MaxBodyBytes int64
	// Ready backs /readyz. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	expenses  ExpenseService
	analytics AnalyticsService

	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector

	storeTimeout time.Duration
	maxBodyBytes int64
	ready        func(ctx context.Context) error
	logger       *log.Logger

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg ServerConfig, expenses ExpenseService, analytics AnalyticsService) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	s := &Server{
		expenses:     expenses,
		analytics:    analytics,
		detector:     security.NewDetector(),
		storeTimeout: cfg.StoreTimeout,
		maxBodyBytes: cfg.MaxBodyBytes,
		ready:        cfg.Ready,
		logger:       cfg.Logger.WithComponent(log.ComponentHTTP),
	}
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMin,
		Methods:           []string{http.MethodPost},
	})
	s.tracer = trace.NewMiddleware(s.logger.Logger, s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /expenses/{date}", s.handleGetExpenses)
	mux.HandleFunc("POST /expenses/{date}", s.handleReplaceExpenses)

	mux.HandleFunc("POST /analytics", s.handleBreakdown)
	mux.HandleFunc("GET /analytics/monthly", s.handleMonthly)
	mux.HandleFunc("POST /savings_plan", s.handleSavingsPlan)
	mux.HandleFunc("POST /insights", s.handleInsights)
	mux.HandleFunc("GET /wisdom", s.handleWisdom)

	var h http.Handler = mux
	h = log.Middleware(cfg.Logger, func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(h)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(cfg.Logger.WithComponent(log.ComponentSecurity).Logger)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).ToSlice()...)
	writeDetail(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// storeContext bounds a handler's service calls by the configured timeout.
func (s *Server) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.storeTimeout)
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
