package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
)

// Outcome label values of polymul_multiplications_total.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// labelInvalid replaces a ring or algorithm label the API does not serve.
const labelInvalid = "invalid"

// The collectors live in the default registry so that every Server in the
// process, tests included, shares one set of series.
var (
	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polymul_active_requests",
		Help: "Requests currently being served.",
	})
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymul_requests_total",
		Help: "Requests received on any endpoint.",
	})
	multiplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polymul_multiplications_total",
		Help: "Multiplications served, by ring, algorithm and outcome.",
	}, []string{"ring", "algorithm", "outcome"})
	// 1µs to about 4s in steps of 4x.
	multiplicationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polymul_multiplication_duration_seconds",
		Help:    "Wall time of successful multiplications.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"ring", "algorithm"})
)

// Metrics records request and multiplication series and serves them in the
// Prometheus text format.
type Metrics struct {
	exposition http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{exposition: promhttp.Handler()}
}

// requestStarted counts a request and marks it in flight until the returned
// func is called.
func (m *Metrics) requestStarted() (finished func()) {
	requestsTotal.Inc()
	inFlight.Inc()
	return inFlight.Dec
}

// knownLabel returns name if it is one of known, else labelInvalid, so that
// request bodies cannot add series.
func knownLabel(name string, known []string) string {
	if slices.Contains(known, name) {
		return name
	}
	return labelInvalid
}

// ObserveMultiplication counts one multiplication. Only successful ones feed
// the duration histogram. Unknown ring or algorithm names are recorded as
// "invalid".
func (m *Metrics) ObserveMultiplication(ringName, algorithm, outcome string, d time.Duration) {
	ringName = knownLabel(ringName, ring.Names())
	algorithm = knownLabel(algorithm, polymul.Names())
	multiplications.WithLabelValues(ringName, algorithm, outcome).Inc()
	if outcome == outcomeOK {
		multiplicationSeconds.WithLabelValues(ringName, algorithm).Observe(d.Seconds())
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.exposition.ServeHTTP(w, r)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.metrics.requestStarted()()
		next(w, r)
	}
}
