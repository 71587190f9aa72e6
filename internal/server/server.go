// Package server exposes polynomial multiplication over HTTP: POST /multiply
// plus listings, a health probe and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/polymul/internal/config"
	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/service"
)

// Server is the multiplication API bound to one port.
type Server struct {
	cfg      config.AppConfig
	svc      service.Service
	hs       *http.Server
	log      logging.Logger
	security SecurityConfig
	timeouts Timeouts
	metrics  *Metrics

	limiter    *RateLimiter
	ownLimiter bool
}

// NewServer builds a Server listening on cfg.Port. Without options it
// multiplies with cfg's thresholds, caps operands at cfg.MaxTerms and
// creates (and later stops) its own rate limiter.
func NewServer(cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		log:      logging.NewLogger(os.Stdout, "server"),
		security: DefaultSecurityConfig(),
		timeouts: DefaultServerTimeouts(),
		metrics:  NewMetrics(),
	}
	if cfg.MaxTerms > 0 {
		s.security.MaxTerms = cfg.MaxTerms
	}
	for _, apply := range opts {
		apply(s)
	}
	if s.svc == nil {
		s.svc = service.NewMultiplyService(s.cfg, s.security.MaxTerms)
	}
	if s.limiter == nil {
		s.limiter, s.ownLimiter = NewRateLimiter(DefaultRateLimiterConfig()), true
	}

	routes := map[string]http.HandlerFunc{
		"/multiply":   s.handleMultiply,
		"/rings":      s.handleRings,
		"/algorithms": s.handleAlgorithms,
		"/health":     s.handleHealth,
		"/metrics":    s.handleMetrics,
	}
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, s.chain(h))
	}

	s.hs = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed mux with every middleware applied.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// chain runs security, rate limiting, logging and metrics, outermost first.
func (s *Server) chain(h http.HandlerFunc) http.HandlerFunc {
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = RateLimitMiddleware(s.limiter, h)
	return SecurityMiddleware(s.security, h)
}

// Start serves until SIGINT, SIGTERM or the end of ctx, then drains
// in-flight requests within ShutdownTimeout. A failure to listen is returned
// as a ServerError. Start releases the server's own resources on return.
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("starting server",
		logging.String("addr", s.hs.Addr),
		logging.Int("threshold", s.cfg.Threshold),
		logging.Int("parallel_threshold", s.cfg.ParallelThreshold),
		logging.Int("max_terms", s.security.MaxTerms),
	)
	s.log.Println("endpoints: POST /multiply, GET /rings /algorithms /health /metrics")

	listenErr := make(chan error, 1)
	go func() { listenErr <- s.hs.ListenAndServe() }()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return apperrors.NewServerError("listen on "+s.hs.Addr, err)
	case <-stopCtx.Done():
	}

	if ctx.Err() != nil {
		s.log.Info("context done, shutting down")
	} else {
		s.log.Info("signal received, shutting down")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.hs.Shutdown(drainCtx); err != nil {
		return apperrors.NewServerError("graceful shutdown", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Close stops the rate limiter if the server created it. Repeated calls are
// no-ops.
func (s *Server) Close() {
	if s.ownLimiter {
		s.limiter.Stop()
		s.ownLimiter = false
	}
}
