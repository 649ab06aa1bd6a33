package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vanchuyen/logistics-api/internal/api/handler"
	"github.com/vanchuyen/logistics-api/internal/api/middleware"
	"github.com/vanchuyen/logistics-api/pkg/logger"

	_ "github.com/vanchuyen/logistics-api/docs"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Orders *handler.OrderHandler
	Stats  *handler.StatsHandler
	Prices *handler.PriceHandler
	Teams  *handler.TeamHandler
	Users  *handler.UserHandler
	Health *handler.HealthHandler
}

// Metrics selects where HTTP metrics are registered and which registry /metrics
// exposes. The custom metrics live on the prometheus default registry.
type Metrics struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// DefaultMetrics uses the prometheus default registry.
func DefaultMetrics() Metrics {
	return Metrics{Registerer: prometheus.DefaultRegisterer, Gatherer: prometheus.DefaultGatherer}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, jwtSecret string, log zerolog.Logger, m Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "logistics",
		Registerer: m.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(jwtSecret)
	admin := middleware.AdminOnly()

	apiGroup := e.Group("/api")

	// --- Orders ---
	orders := apiGroup.Group("/orders", auth)
	orders.POST("/estimate", h.Orders.Estimate)
	orders.POST("", h.Orders.Create)
	orders.GET("", h.Orders.ListMine)
	orders.GET("/all", h.Orders.ListAll, admin)

	stats := orders.Group("/stats", admin)
	stats.GET("/revenue", h.Stats.Revenue)
	stats.GET("/orders", h.Stats.Orders)
	stats.GET("/all", h.Stats.DayParts)
	stats.GET("/revenue-buckets", h.Stats.RevenueBuckets)
	stats.GET("/order-buckets", h.Stats.OrderCountBuckets)

	orders.GET("/:id", h.Orders.Get)
	orders.GET("/:id/qr", h.Orders.QR)
	orders.GET("/:id/invoice", h.Orders.Invoice)
	orders.PUT("/:id/pay", h.Orders.Pay)
	orders.PUT("/:id/cancel", h.Orders.Cancel)
	orders.PUT("/:id/status", h.Orders.UpdateStatus, admin)
	orders.POST("/:id/send-invoice", h.Orders.SendInvoice, admin)
	orders.DELETE("/:id", h.Orders.Delete, admin)

	// --- Price table ---
	prices := apiGroup.Group("/prices")
	prices.GET("", h.Prices.Current)
	prices.GET("/latest", h.Prices.Latest)
	prices.GET("/timeline", h.Prices.Timeline)
	prices.PUT("", h.Prices.Update, auth, admin)

	// --- Transport teams ---
	teams := apiGroup.Group("/teams", auth)
	teams.POST("/register", h.Teams.Register)
	teams.GET("", h.Teams.List, admin)
	teams.GET("/:id", h.Teams.Get, admin)
	teams.PUT("/approve/:id", h.Teams.Approve, admin)
	teams.PUT("/reject/:id", h.Teams.Reject, admin)
	teams.DELETE("/:id", h.Teams.Delete)

	// --- Account administration ---
	users := apiGroup.Group("/admin/users", auth, admin)
	users.GET("", h.Users.List)
	users.PUT("/:id", h.Users.UpdateStatus)
	users.DELETE("/:id", h.Users.Delete)

	return e
}
