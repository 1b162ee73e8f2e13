// Package router registers the stats API routes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/movie-catalog-browser/internal/handler"
)

// RegisterRoutes registers the health check and the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterStats registers the read-only stats endpoints under /v1, all
// behind limit. cache wraps the analytics routes only; the favorites file
// is read fresh.
func RegisterStats(e *echo.Echo, h *handler.StatsHandler, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", limit)
	g.GET("/stats/top", h.Top, cache)
	g.GET("/stats/recent", h.Recent, cache)
	g.GET("/favorites", h.ListFavorites)
}
