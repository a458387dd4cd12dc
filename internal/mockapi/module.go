package mockapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/alex-user-go/hotelview/internal/config"
	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/ratelimit"
)

// Module provides the mock API server and starts it with the application.
var Module = fx.Module("mockapi",
	fx.Provide(
		config.LoadMockAPI,
		NewLogger,
		obs.NewMetrics,
		LoadFixtures,
		newLimiter,
		newHandler,
		newChaos,
		newEngine,
	),
	fx.Invoke(startServer),
)

// NewLogger logs JSON to stdout at the configured level.
func NewLogger(cfg config.MockAPI) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func newLimiter(lc fx.Lifecycle, cfg config.MockAPI) *ratelimit.Limiter {
	l := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	lc.Append(fx.StopHook(l.Close))
	return l
}

func newHandler(f *Fixtures, cfg config.MockAPI, metrics *obs.Metrics, logger *slog.Logger) *Handler {
	return NewHandler(f, cfg.PendingRounds, metrics, logger)
}

func newChaos(cfg config.MockAPI, logger *slog.Logger) *Chaos {
	return NewChaos(cfg.Latency, cfg.Jitter, cfg.FailureRate, uint64(time.Now().UnixNano()), logger)
}

func newEngine(
	h *Handler,
	l *ratelimit.Limiter,
	chaos *Chaos,
	cfg config.MockAPI,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *gin.Engine {
	var extra []gin.HandlerFunc
	if chaos.Enabled() {
		logger.Info("chaos enabled", "latency", cfg.Latency, "jitter", cfg.Jitter, "failure_rate", cfg.FailureRate)
		extra = append(extra, chaos.Middleware())
	}
	return NewRouter(h, l, cfg.AllowOrigins, metrics, logger, extra...)
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.MockAPI, metrics *obs.Metrics, logger *slog.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := new(net.ListenConfig).Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting booking api",
				"addr", ln.Addr().String(),
				"pending_rounds", cfg.PendingRounds,
				"mode", gin.Mode(),
			)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down booking api", "metrics", metrics.Snapshot())
			return srv.Shutdown(ctx)
		},
	})
}
