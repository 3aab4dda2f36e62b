package http

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bookreview/catalog-service/internal/infrastructure/http/handlers"
)

const rootGreeting = "hello world...!"

// RegisterOperational mounts the routes that sit outside the catalog API:
// the root greeting, health probes and the Prometheus scrape endpoint.
func RegisterOperational(e *echo.Echo, gatherer prometheus.Gatherer, checks ...handlers.Check) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks...)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, rootGreeting)
	})
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
}
