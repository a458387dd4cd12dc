package mockapi

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Chaos makes the API behave like a slow, flaky upstream: every request is
// delayed by Latency plus up to Jitter, and a FailureRate share of them is
// answered with 503.
type Chaos struct {
	latency     time.Duration
	jitter      time.Duration
	failureRate float64
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewChaos creates a Chaos. The seed makes failures reproducible.
func NewChaos(latency, jitter time.Duration, failureRate float64, seed uint64, logger *slog.Logger) *Chaos {
	return &Chaos{
		latency:     max(latency, 0),
		jitter:      max(jitter, 0),
		failureRate: min(max(failureRate, 0), 1),
		logger:      logger,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Enabled reports whether the middleware changes anything.
func (ch *Chaos) Enabled() bool {
	return ch.latency > 0 || ch.jitter > 0 || ch.failureRate > 0
}

// Middleware applies the delay and failures.
func (ch *Chaos) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		delay, fail := ch.roll()

		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-c.Request.Context().Done():
				t.Stop()
				c.Abort()
				return
			}
		}

		if fail {
			ch.logger.Debug("injected failure", "request_id", RequestID(c), "path", c.Request.URL.Path)
			writeError(c, http.StatusServiceUnavailable, "provider unavailable")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (ch *Chaos) roll() (time.Duration, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	delay := ch.latency
	if ch.jitter > 0 {
		delay += time.Duration(ch.rng.Int64N(int64(ch.jitter)))
	}
	return delay, ch.failureRate > 0 && ch.rng.Float64() < ch.failureRate
}
