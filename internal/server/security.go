package server

import (
	"net/http"
	"slices"
	"strings"
)

// SecurityConfig is the policy SecurityMiddleware enforces.
type SecurityConfig struct {
	// EnableCORS turns on Access-Control-* headers for AllowedOrigins.
	// "*" in AllowedOrigins admits any origin.
	EnableCORS     bool
	AllowedOrigins []string
	AllowedMethods []string
	// MaxTerms caps the coefficients per operand. Schoolbook is quadratic,
	// so this bounds the work of a single request.
	MaxTerms int
	// MaxBodyBytes caps a request body; 0 disables the cap.
	MaxBodyBytes int64
}

// DefaultSecurityConfig admits any origin, 65536 terms per operand and
// 64 MiB bodies.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		MaxTerms:       1 << 16,
		MaxBodyBytes:   64 << 20,
	}
}

// staticHeaders are set on every response. The API serves JSON only, so the
// content policy forbids everything.
var staticHeaders = [][2]string{
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
}

// SecurityMiddleware sets the hardening headers, answers CORS preflight
// requests with 204 and caps the request body before calling next.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range staticHeaders {
			h.Set(kv[0], kv[1])
		}

		if cfg.EnableCORS {
			if origin, ok := matchOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				h.Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if cfg.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		}
		next(w, r)
	}
}

// matchOrigin returns the Access-Control-Allow-Origin value for origin:
// "*" when the wildcard is allowed, origin itself when listed.
func matchOrigin(allowed []string, origin string) (string, bool) {
	if slices.Contains(allowed, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin, true
	}
	return "", false
}
