package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/campusdeals/marketplace-api/internal/api/handler"
	"github.com/campusdeals/marketplace-api/internal/api/metrics"
	"github.com/campusdeals/marketplace-api/internal/api/middleware"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
	"github.com/campusdeals/marketplace-api/internal/core/service"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Log         zerolog.Logger
	Development bool
	CORSOrigins []string

	Gate  *service.Gate
	Guard *service.Guard
	Audit ports.AuditSink

	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService
	Carts    ports.CartService
	Orders   ports.OrderService

	// Checks are pinged by the readiness probe.
	Checks []handler.DependencyCheck
	// QueueDepth reports the audit backlog; nil when auditing is off.
	QueueDepth func() int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authn := middleware.Auth(d.Gate)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	buyGuard := middleware.Guard(d.Guard, domain.OperationBuy, d.Audit)
	sellGuard := middleware.Guard(d.Guard, domain.OperationSell, d.Audit)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Guard, d.Audit)
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/register", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authn)
	auth.POST("/validate-transaction", authHandler.ValidateTransaction, authn)

	// --- User administration ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/api/users", authn)
	users.GET("", userHandler.List, adminOnly)
	users.PUT("/:id", userHandler.UpdateProfile)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Products ---
	productHandler := handler.NewProductHandler(d.Products)
	products := e.Group("/api/products")
	products.GET("", productHandler.List)
	products.GET("/filter", productHandler.Filter)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, sellGuard)
	products.PUT("/:id", productHandler.Update, sellGuard)
	products.DELETE("/:id", productHandler.Delete, authn, adminOnly)

	// --- Cart ---
	cartHandler := handler.NewCartHandler(d.Carts)
	cart := e.Group("/api/cart")
	cart.POST("", cartHandler.Add, buyGuard)
	cart.GET("", cartHandler.List, buyGuard)
	cart.PUT("/:id", cartHandler.UpdateQuantity, authn)
	cart.DELETE("/:id", cartHandler.Remove, authn)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(d.Orders)
	orders := e.Group("/api/orders")
	orders.POST("", orderHandler.Create, buyGuard)
	orders.GET("", orderHandler.ListMine, buyGuard)
	orders.GET("/all", orderHandler.ListAll, authn, adminOnly)
	orders.PUT("/:id", orderHandler.UpdateStatus, authn)
	orders.DELETE("/:id", orderHandler.Delete, authn, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	promHandler := promhttp.Handler()
	e.GET("/metrics", func(c echo.Context) error {
		if d.QueueDepth != nil {
			metrics.AuditQueueDepth.Set(float64(d.QueueDepth()))
		}
		promHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
