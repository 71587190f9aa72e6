package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. A bucket holds a
// minute's worth of requests and refills continuously, so a client that
// exhausts it regains one request every minute/RequestsPerMinute.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	sweep   time.Duration
	done    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig sizes a RateLimiter. Zero fields take the defaults.
type RateLimiterConfig struct {
	RequestsPerMinute int
	// CleanupInterval is how often buckets of idle clients are dropped.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 120 requests per minute per client.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{RequestsPerMinute: 120, CleanupInterval: 5 * time.Minute}
}

// NewRateLimiter starts a limiter and its sweeper goroutine; Stop ends it.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	perMinute := cmpOr(cfg.RequestsPerMinute, def.RequestsPerMinute)

	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		idleTTL: 2 * time.Minute,
		sweep:   time.Duration(cmpOr(int64(cfg.CleanupInterval), int64(def.CleanupInterval))),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go rl.sweepLoop()
	return rl
}

// cmpOr returns v if it is positive, else def.
func cmpOr[T int | int64](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// bucketFor returns ip's bucket, creating a full one on first sight.
// rl.mu must be held.
func (rl *RateLimiter) bucketFor(ip string, now time.Time) *bucket {
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[ip] = b
	}
	b.lastSeen = now
	return b
}

// Allow takes one token from ip's bucket and reports whether one was there.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	return rl.bucketFor(ip, now).lim.AllowN(now, 1)
}

// retryAfter is the whole number of seconds, at least one, before ip's
// bucket holds a token again. Unknown clients get 0.
func (rl *RateLimiter) retryAfter(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		return 0
	}
	missing := 1 - b.lim.TokensAt(rl.now())
	if missing <= 0 {
		return 1
	}
	wait := time.Duration(missing / float64(rl.limit) * float64(time.Second)).Round(time.Millisecond)
	return max(int((wait+time.Second-1)/time.Second), 1)
}

func (rl *RateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// evictIdle forgets clients unseen for idleTTL. Their buckets have refilled
// by then, so a returning client is treated exactly as before.
func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for ip, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

func (rl *RateLimiter) sweepLoop() {
	t := time.NewTicker(rl.sweep)
	defer t.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-t.C:
			rl.evictIdle()
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

var rateLimitedBody = []byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`)

// RateLimitMiddleware answers 429 with a Retry-After header once the
// caller's bucket is empty.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if rl.Allow(ip) {
			next(w, r)
			return
		}
		h := w.Header()
		h.Set("Content-Type", "application/json")
		h.Set("Retry-After", strconv.Itoa(rl.retryAfter(ip)))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write(rateLimitedBody)
	}
}

// proxyHeaders name the caller when polymul sits behind a proxy, in order
// of preference. Only the first X-Forwarded-For hop is used.
var proxyHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// clientIP identifies the caller for rate limiting and access logs.
func clientIP(r *http.Request) string {
	for _, name := range proxyHeaders {
		if v := r.Header.Get(name); v != "" {
			first, _, _ := strings.Cut(v, ",")
			return strings.TrimSpace(first)
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.Trim(r.RemoteAddr, "[]")
}
