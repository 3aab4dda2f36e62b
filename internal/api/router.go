package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bookreview/catalog-service/internal/api/handler"
	"github.com/bookreview/catalog-service/internal/api/middleware"
	"github.com/bookreview/catalog-service/internal/core/ports"
	"github.com/bookreview/catalog-service/internal/core/service"
	infrahttp "github.com/bookreview/catalog-service/internal/infrastructure/http"
	"github.com/bookreview/catalog-service/internal/infrastructure/http/handlers"
	"github.com/bookreview/catalog-service/internal/pkg/config"
)

// Dependencies are the storage adapters the router wires into the services.
type Dependencies struct {
	Users    ports.UserRepository
	Books    ports.BookRepository
	Reviews  ports.ReviewRepository
	Denylist ports.TokenDenylist
	Checks   []handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
// HTTP metrics go to the default Prometheus registry. log must not carry a
// component field; the router tags each child logger itself.
func NewRouter(deps Dependencies, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	return newRouter(deps, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newRouter(
	deps Dependencies,
	cfg *config.Config,
	log zerolog.Logger,
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
) *echo.Echo {
	httpLog := component(log, "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(httpLog)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(httpLog))
	e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	authService := service.NewAuthService(deps.Users, deps.Denylist, tokens, cfg.Auth.BcryptCost,
		component(log, "auth"))
	aggregator := service.NewReviewAggregator(deps.Reviews)
	bookService := service.NewBookService(deps.Books, aggregator,
		component(log, "books"))
	reviewService := service.NewReviewService(deps.Reviews, deps.Books,
		component(log, "reviews"))

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	requireAuth := middleware.Auth(authService)

	// --- Identity routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout, requireAuth)

	// --- Catalog routes ---
	e.GET("/books", bookHandler.List)
	e.POST("/books", bookHandler.Create, requireAuth)
	e.GET("/books/:id", bookHandler.Get)
	e.GET("/search", bookHandler.Search)

	// --- Review routes ---
	e.POST("/books/:id/reviews", reviewHandler.Create, requireAuth)
	e.PUT("/reviews/:id", reviewHandler.Update, requireAuth)
	e.DELETE("/reviews/:id", reviewHandler.Delete, requireAuth)

	infrahttp.RegisterOperational(e, gatherer, deps.Checks...)

	return e
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

