package server

import (
	"log"
	"time"

	"github.com/agbru/polymul/internal/logging"
	"github.com/agbru/polymul/internal/service"
)

// Option customizes a Server built by NewServer.
type Option func(*Server)

// WithLogger replaces the default console logger. nil is ignored.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStdLogger logs through a *log.Logger. nil is ignored.
func WithStdLogger(l *log.Logger) Option {
	if l == nil {
		return func(*Server) {}
	}
	return WithLogger(logging.NewStdLoggerAdapter(l))
}

// WithService replaces the multiplication backend, typically with a fake in
// tests. nil is ignored.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.svc = svc
		}
	}
}

// WithTimeouts overrides every timeout at once.
func WithTimeouts(t Timeouts) Option {
	return func(s *Server) { s.timeouts = t }
}

// WithRateLimiter shares rl with the server. The caller keeps ownership and
// must Stop it; Close leaves it running.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// WithSecurityConfig replaces the header, CORS and size policy.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithMaxTerms caps the coefficients accepted per operand, overriding the
// -max-terms flag.
func WithMaxTerms(n int) Option {
	return func(s *Server) { s.security.MaxTerms = n }
}

// Timeouts bounds each phase of the HTTP exchange. RequestTimeout applies to
// the multiplication itself; the other three are passed to http.Server.
type Timeouts struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts leaves a schoolbook product at the default term
// limit comfortably inside RequestTimeout.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  time.Minute,
		ShutdownTimeout: 15 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    2 * time.Minute,
		IdleTimeout:     90 * time.Second,
	}
}
