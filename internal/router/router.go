// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/config"
	"github.com/javajoker/shop-backend/internal/handlers"
	"github.com/javajoker/shop-backend/internal/metrics"
	"github.com/javajoker/shop-backend/internal/middleware"
	"github.com/javajoker/shop-backend/internal/services"
	"github.com/javajoker/shop-backend/internal/utils"
)

// Services bundles the application services the routes are built on.
type Services struct {
	Notification *services.NotificationService
	Storage      *services.StorageService
	Auth         *services.AuthService
	User         *services.UserService
	Product      *services.ProductService
	Category     *services.CategoryService
	Brand        *services.BrandService
	Order        *services.OrderService
	Payment      *services.PaymentService
	Admin        *services.AdminService
}

// NewServices wires the services. Password reset tokens and the product cache
// live in Redis when a client is given, otherwise reset tokens use the database.
func NewServices(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	var resetTokens services.ResetTokenStore = services.NewGormResetTokenStore(db)
	if redisClient != nil {
		resetTokens = services.NewRedisResetTokenStore(redisClient)
	}

	notificationService := services.NewNotificationService(cfg)
	orderService := services.NewOrderService(db, notificationService)

	return &Services{
		Notification: notificationService,
		Storage:      storageService,
		Auth:         services.NewAuthService(db, cfg, resetTokens, notificationService),
		User:         services.NewUserService(db),
		Product:      services.NewProductService(db, redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second),
		Category:     services.NewCategoryService(db),
		Brand:        services.NewBrandService(db),
		Order:        orderService,
		Payment:      services.NewPaymentService(orderService, cfg),
		Admin:        services.NewAdminService(db, orderService),
	}, nil
}

func Initialize(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) (*gin.Engine, error) {
	svcs, err := NewServices(db, cfg, redisClient)
	if err != nil {
		return nil, err
	}
	return Setup(db, cfg, svcs), nil
}

func Setup(db *gorm.DB, cfg *config.Config, svcs *Services) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svcs.Auth)
	userHandler := handlers.NewUserHandler(svcs.User)
	productHandler := handlers.NewProductHandler(svcs.Product, svcs.Storage)
	categoryHandler := handlers.NewCategoryHandler(svcs.Category)
	brandHandler := handlers.NewBrandHandler(svcs.Brand)
	orderHandler := handlers.NewOrderHandler(svcs.Order)
	paymentHandler := handlers.NewPaymentHandler(svcs.Payment)
	adminHandler := handlers.NewAdminHandler(svcs.Admin)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	rateLimits := middleware.NewRateLimits(cfg.RateLimit)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if !svcs.Storage.UsesS3() {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	requireAuth := middleware.AuthRequired()
	requireAdmin := middleware.AdminRequired()
	audit := middleware.AuditLogMiddleware(db)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(rateLimits.General)
	{
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", rateLimits.Auth, authHandler.Register)
			auth.POST("/login", rateLimits.Auth, authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", rateLimits.Auth, authHandler.ForgotPassword)
			auth.POST("/reset-password", rateLimits.Auth, authHandler.ResetPassword)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetProfile)
			auth.POST("/change-password", requireAuth, authHandler.ChangePassword)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(requireAuth)
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.DELETE("/account", audit, userHandler.DeleteAccount)
		}

		// Catalog routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/:id", productHandler.GetProduct)

			admin := products.Group("", requireAuth, requireAdmin, audit)
			{
				admin.POST("", productHandler.CreateProduct)
				admin.PUT("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
				admin.POST("/upload-image", productHandler.UploadImage)
			}
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:slug", categoryHandler.GetCategory)

			admin := categories.Group("", requireAuth, requireAdmin, audit)
			{
				admin.POST("", categoryHandler.CreateCategory)
				admin.PUT("/:id", categoryHandler.UpdateCategory)
				admin.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", brandHandler.GetBrands)
			brands.GET("/:slug", brandHandler.GetBrand)

			admin := brands.Group("", requireAuth, requireAdmin, audit)
			{
				admin.POST("", brandHandler.CreateBrand)
				admin.PUT("/:id", brandHandler.UpdateBrand)
				admin.DELETE("/:id", brandHandler.DeleteBrand)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(requireAuth)
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/my", orderHandler.GetMyOrders)
			orders.GET("/number/:orderNumber", orderHandler.GetOrderByNumber)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/payment-intent", paymentHandler.CreatePaymentIntent)
			orders.POST("/:id/confirm-payment", paymentHandler.ConfirmPayment)

			admin := orders.Group("", requireAdmin, audit)
			{
				admin.GET("", orderHandler.GetOrders)
				admin.GET("/stats", orderHandler.GetOrderStats)
				admin.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
				admin.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(requireAuth, requireAdmin, audit)
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			admin.GET("/users", adminHandler.GetUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
