// routes.go - Route registration helpers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Source     RegistrySource
	Logger     *logrus.Logger
	FeedBuffer int
	Version    string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Intern InternHandler
	Feed   FeedHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Source),
		Intern: NewHandler(deps.Source, deps.Logger),
		Feed:   NewWebSocketHandler(deps.Source, deps.FeedBuffer, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance. A nil
// metrics handler leaves /metrics unrouted.
func RegisterRoutes(e *echo.Echo, handlers *Handlers, metrics http.Handler) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Registry diagnostics
	apiGroup.GET("/stats", handlers.Intern.HandleStats)
	apiGroup.GET("/snapshot", handlers.Intern.HandleSnapshot)
	apiGroup.GET("/snapshot/msgpack", handlers.Intern.HandleSnapshotMsgpack)
	apiGroup.POST("/intern", handlers.Intern.HandleIntern)
	apiGroup.GET("/resolve/:id", handlers.Intern.HandleResolve)
	apiGroup.GET("/interned", handlers.Intern.HandleInterned)

	// WebSocket feed
	apiGroup.GET("/ws/feed", handlers.Feed.HandleFeed)

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// MiddlewareOptions selects optional middleware
type MiddlewareOptions struct {
	RequestLogging bool
	EnableCORS     bool
	AllowOrigins   string
	BodyLimit      string
	Timeout        time.Duration
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !opts.RequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" || path == "/metrics"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if opts.Timeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: opts.Timeout,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
			},
			ErrorMessage: "Request timeout",
		}))
	}

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	if opts.EnableCORS {
		origins := strings.Split(opts.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 1 && origins[0] == "" {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
