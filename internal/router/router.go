package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/foodcourt-table-reservation/internal/config"
	"github.com/iliyamo/foodcourt-table-reservation/internal/handler"
	"github.com/iliyamo/foodcourt-table-reservation/internal/middleware"
)

// RegisterRoutes registers operational endpoints on the provided Echo
// instance: the health check used by load balancers and the Prometheus
// metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterReservations registers the reservation API under /api/reservations.
// All routes run the optional identity middleware so authenticated bookings
// are attributed to their account while guests pass through untouched.  The
// create endpoint is rate limited per client; the read endpoints are served
// from the Redis response cache when available.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/api/reservations")
	g.Use(middleware.OptionalIdentity(jwtSecret))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Book a table for a party, date and time slot.
	g.POST("", h.Create, limiter)
	// The shared booking sheet: all Active reservations, visible to everyone.
	g.GET("/all", h.ListAll, cache)
	// Find reservations by public handle or guest name, any status.
	g.GET("/search", h.Search, cache)
	// Cancel by public handle; knowing the code is the authorization.
	g.PUT("/:id/cancel", h.Cancel)
}
