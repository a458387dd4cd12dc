package mockapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/ratelimit"
)

// NewRouter wires the API routes. Rate limiting, then extra, apply to the
// hotel and price routes only.
func NewRouter(
	h *Handler,
	limiter *ratelimit.Limiter,
	allowOrigins []string,
	metrics *obs.Metrics,
	logger *slog.Logger,
	extra ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestLogging(logger),
		Recovery(logger),
		CORS(allowOrigins),
	)

	r.GET("/healthz", gin.WrapF(obs.HealthHandler(logger)))
	r.GET("/metrics", gin.WrapF(metrics.MetricsHandler()))

	r.POST("/admin/reset", h.ResetRounds)

	limited := append([]gin.HandlerFunc{limiter.Middleware(logger)}, extra...)

	api := r.Group("/api", limited...)
	api.GET("/hotels", h.ListHotels)
	api.GET("/hotels/:id", h.GetHotel)

	prices := r.Group("/hotels", limited...)
	prices.GET("/:id/prices", h.GetPrice)

	return r
}
