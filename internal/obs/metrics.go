package obs

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks application metrics using atomic counters.
// A nil *Metrics is valid and discards every update.
type Metrics struct {
	requests        atomic.Int64
	cacheHits       atomic.Int64
	pollAttempts    atomic.Int64
	transportErrors atomic.Int64
	logger          *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	if m == nil {
		return
	}
	m.requests.Add(1)
}

// IncCacheHits increments the cache hits counter.
func (m *Metrics) IncCacheHits() {
	if m == nil {
		return
	}
	m.cacheHits.Add(1)
}

// IncPollAttempts increments the price poll attempts counter.
func (m *Metrics) IncPollAttempts() {
	if m == nil {
		return
	}
	m.pollAttempts.Add(1)
}

// IncTransportErrors increments the transport errors counter.
func (m *Metrics) IncTransportErrors() {
	if m == nil {
		return
	}
	m.transportErrors.Add(1)
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Requests:        m.requests.Load(),
		CacheHits:       m.cacheHits.Load(),
		PollAttempts:    m.pollAttempts.Load(),
		TransportErrors: m.transportErrors.Load(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Requests        int64
	CacheHits       int64
	PollAttempts    int64
	TransportErrors int64
}

// LogValue renders the snapshot as a slog group.
func (s MetricsSnapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("requests", s.Requests),
		slog.Int64("cache_hits", s.CacheHits),
		slog.Int64("poll_attempts", s.PollAttempts),
		slog.Int64("transport_errors", s.TransportErrors),
	)
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

type counter struct {
	name  string
	help  string
	value int64
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()
		counters := []counter{
			{"requests_total", "Total number of requests", snapshot.Requests},
			{"cache_hits_total", "Total number of cache hits", snapshot.CacheHits},
			{"poll_attempts_total", "Total number of price poll attempts", snapshot.PollAttempts},
			{"transport_errors_total", "Total number of transport errors", snapshot.TransportErrors},
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		for _, c := range counters {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
				c.name, c.help, c.name, c.name, c.value); err != nil {
				m.logger.Error("failed to write metrics", "error", err)
				return
			}
		}
	}
}
