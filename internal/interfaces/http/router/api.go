package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the storefront's HTTP handlers
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminCatalog *handler.AdminCatalogHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminUser    *handler.AdminUserHandler
	Report       *handler.ReportHandler
}

// Options configure the engine's middleware stack
type Options struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// AuthRateLimiter throttles login and registration per client IP; nil disables it
	AuthRateLimiter *middleware.RateLimiter
	CORS            middleware.CORSConfig
	// Security overrides the default security headers when set
	Security        *middleware.SecurityConfig
	MaxBodySize     int64
	Tracing         middleware.TracingConfig
	// Meter records HTTP metrics; nil disables them
	Meter          metric.Meter
	TrustedProxies []string
}

// NewEngine builds the gin engine with the global middleware stack and
// every /api/v1 route
func NewEngine(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.Tracing),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(opts.Meter, log),
		middleware.CORSWithConfig(opts.CORS),
		secureHeaders(opts.Security),
	)
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeRouteNotFound), dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})

	authenticated := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     opts.JWTService,
		TokenBlacklist: opts.TokenBlacklist,
		Logger:         log,
	})

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(
		systemRoutes(h),
		authRoutes(h, authenticated, opts.AuthRateLimiter),
		catalogRoutes(h, authenticated),
		cartRoutes(h, authenticated),
		orderRoutes(h, authenticated),
		adminRoutes(h, authenticated),
	)
	r.Setup()
	return engine
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "")
	g.GET("/health", h.Health.Health)
	return g
}

func authRoutes(h Handlers, authenticated gin.HandlerFunc, limiter *middleware.RateLimiter) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	throttle := func(c *gin.Context) { c.Next() }
	if limiter != nil {
		throttle = middleware.RateLimit(limiter)
	}
	g.POST("/register", throttle, h.Auth.Register)
	g.POST("/login", throttle, h.Auth.Login)
	g.POST("/logout", authenticated, h.Auth.Logout)
	g.GET("/me", authenticated, h.Auth.Me)
	return g
}

func catalogRoutes(h Handlers, authenticated gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")
	g.GET("/products", h.Catalog.ListProducts)
	g.GET("/products/featured", h.Catalog.Featured)
	g.GET("/products/:id", h.Catalog.ProductDetail)
	g.GET("/products/:id/reviews", h.Catalog.ListReviews)
	g.POST("/products/:id/reviews", authenticated, h.Catalog.CreateReview)
	g.GET("/categories", h.Catalog.ListCategories)
	return g
}

func cartRoutes(h Handlers, authenticated gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("cart", "/cart").Use(authenticated)
	g.GET("", h.Cart.Get)
	g.DELETE("", h.Cart.Clear)
	g.POST("/items", h.Cart.AddItem)
	g.PUT("/items/:id", h.Cart.UpdateItem)
	g.DELETE("/items/:id", h.Cart.RemoveItem)
	return g
}

func orderRoutes(h Handlers, authenticated gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("orders", "/orders").Use(authenticated)
	g.POST("", h.Order.PlaceOrder)
	g.GET("", h.Order.List)
	g.GET("/:id", h.Order.Get)
	return g
}

func adminRoutes(h Handlers, authenticated gin.HandlerFunc) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").
		Use(authenticated, middleware.RequireRole(identity.RoleAdmin))

	products := admin.Group("products", "/products")
	products.GET("", h.AdminCatalog.ListProducts)
	products.POST("", h.AdminCatalog.CreateProduct)
	products.POST("/purge-inactive", h.AdminOrder.PurgeInactiveProducts)
	products.GET("/:id", h.AdminCatalog.GetProduct)
	products.PUT("/:id", h.AdminCatalog.UpdateProduct)
	products.DELETE("/:id", h.AdminCatalog.DeleteProduct)
	products.POST("/:id/activate", h.AdminCatalog.ActivateProduct)
	products.POST("/:id/deactivate", h.AdminCatalog.DeactivateProduct)
	products.PUT("/:id/feature", h.AdminCatalog.FeatureProduct)
	products.PUT("/:id/stock", h.AdminCatalog.AdjustStock)
	products.POST("/:id/image/upload-url", h.AdminCatalog.RequestImageUpload)
	products.PUT("/:id/image", h.AdminCatalog.AttachImage)
	products.DELETE("/:id/image", h.AdminCatalog.ClearImage)

	inventory := admin.Group("inventory", "/inventory")
	inventory.GET("/low-stock", h.AdminCatalog.LowStock)

	categories := admin.Group("categories", "/categories")
	categories.GET("", h.AdminCatalog.ListCategories)
	categories.POST("", h.AdminCatalog.CreateCategory)
	categories.PUT("/:id", h.AdminCatalog.UpdateCategory)
	categories.POST("/:id/activate", h.AdminCatalog.ActivateCategory)
	categories.POST("/:id/deactivate", h.AdminCatalog.DeactivateCategory)

	orders := admin.Group("orders", "/orders")
	orders.GET("", h.AdminOrder.List)
	orders.POST("/purge-cancelled", h.AdminOrder.PurgeCancelled)
	orders.GET("/:id", h.AdminOrder.Get)
	orders.PUT("/:id/status", h.AdminOrder.UpdateStatus)
	orders.DELETE("/:id", h.AdminOrder.Delete)

	users := admin.Group("users", "/users")
	users.GET("", h.AdminUser.List)
	users.POST("/:id/activate", h.AdminUser.Activate)
	users.POST("/:id/deactivate", h.AdminUser.Deactivate)
	users.DELETE("/:id", h.AdminUser.Delete)

	reports := admin.Group("reports", "/reports")
	reports.GET("/dashboard", h.Report.Dashboard)
	reports.GET("/products", h.Report.Products)
	reports.GET("/orders", h.Report.Orders)
	reports.GET("/customers", h.Report.Customers)

	return admin
}

func secureHeaders(cfg *middleware.SecurityConfig) gin.HandlerFunc {
	if cfg == nil {
		return middleware.Secure()
	}
	return middleware.SecureWithConfig(*cfg)
}
