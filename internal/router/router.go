// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/config"
	"github.com/farmagate/pharmacy-backend/internal/handlers"
	"github.com/farmagate/pharmacy-backend/internal/middleware"
	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 presigning unavailable; upload URL requests will be rejected")
	}
	fieldValidator := services.NewHTTPFieldValidator(cfg)
	priceSource := services.NewHTTPPriceSource(cfg)

	authService := services.NewAuthService(db, cfg, fieldValidator)
	userService := services.NewUserService(db)
	epsService := services.NewEPSService(db)
	catalogService := services.NewCatalogService(db, fieldValidator)
	orderService := services.NewOrderService(db, notificationService)
	ledgerService := services.NewLedgerService(db)
	paymentService := services.NewPaymentService(db, cfg)
	priceCheckService := services.NewPriceCheckService(db, priceSource)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	epsHandler := handlers.NewEPSHandler(epsService)
	productHandler := handlers.NewProductHandler(catalogService, priceCheckService)
	orderHandler := handlers.NewOrderHandler(orderService)
	movementHandler := handlers.NewMovementHandler(ledgerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.PayloadSizeLimit(cfg.Server.MaxPayloadSize))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	staff := []models.UserRole{models.RoleAdmin, models.RoleWarehouse}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/register", middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin), authHandler.Register)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User management (admin only)
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// EPS registry
		eps := v1.Group("/eps")
		eps.Use(middleware.AuthRequired())
		{
			eps.GET("", epsHandler.ListEPS)
			eps.GET("/:id", epsHandler.GetEPS)
			eps.POST("", middleware.RoleRequired(models.RoleAdmin), epsHandler.CreateEPS)
			eps.PUT("/:id", middleware.RoleRequired(models.RoleAdmin), epsHandler.UpdateEPS)
			eps.DELETE("/:id", middleware.RoleRequired(models.RoleAdmin), epsHandler.DeleteEPS)
			eps.POST("/assign", middleware.RoleRequired(models.RoleAdmin), epsHandler.AssignEPS)
		}

		// Product catalog; reads are public so the storefront works without
		// a session, but an authenticated customer gets discounted prices.
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.ListProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.POST("", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.CreateProduct)
			products.PUT("/:id", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.UpdateProduct)
			products.DELETE("/out-of-stock", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.PurgeOutOfStock)
			products.DELETE("/:id", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.DeleteProduct)
			products.GET("/:id/external-price", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.ComparePrice)
			products.GET("/:id/external-price/history", middleware.AuthRequired(), middleware.RoleRequired(staff...), productHandler.PriceHistory)
		}

		// Orders
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.RoleRequired(models.RoleCustomer, models.RoleAdmin), orderHandler.PlaceOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/confirm", middleware.RoleRequired(staff...), orderHandler.ConfirmOrder)
			orders.POST("/:id/deliver", middleware.RoleRequired(staff...), orderHandler.DeliverOrder)
			orders.DELETE("/:id", orderHandler.CancelOrder)
		}

		// Audit ledger (staff only)
		movements := v1.Group("/movements")
		movements.Use(middleware.AuthRequired(), middleware.RoleRequired(staff...))
		{
			movements.GET("/financial", movementHandler.ListFinancialMovements)
			movements.GET("/stock", movementHandler.ListStockMovements)
			movements.GET("/summary", movementHandler.GetSummary)
		}

		// Payments
		payments := v1.Group("/payments")
		{
			payments.GET("/config", paymentHandler.GetConfig)
			payments.POST("/intent", middleware.AuthRequired(), paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", middleware.AuthRequired(), paymentHandler.ConfirmPayment)
		}

		// Image upload URLs; only staff may mint PUT URLs
		uploads := v1.Group("/uploads")
		uploads.Use(middleware.AuthRequired())
		{
			uploads.GET("/put-url", middleware.RoleRequired(staff...), uploadHandler.GenerateUploadURL)
			uploads.GET("/get-url/*key", uploadHandler.GenerateDownloadURL)
		}

		// Notifications (staff only)
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired(), middleware.RoleRequired(staff...))
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
