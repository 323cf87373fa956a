// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/config"
	"github.com/karigarh/marketplace-backend/internal/handlers"
	"github.com/karigarh/marketplace-backend/internal/middleware"
	"github.com/karigarh/marketplace-backend/internal/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	queryCache := cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	var gateway services.PaymentGateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg)
	} else {
		logrus.Warn("Stripe secret key not configured; checkout is disabled")
	}

	authService := services.NewAuthService(db, cfg)
	producerService := services.NewProducerService(db, queryCache)
	productService := services.NewProductService(db, queryCache)
	orderService := services.NewOrderService(db, queryCache, gateway, cfg)
	liveStreamService := services.NewLiveStreamService(db, queryCache)
	approvalService := services.NewApprovalService(db, queryCache)
	paymentService := services.NewPaymentService(gateway, cfg)

	authHandler := handlers.NewAuthHandler(authService)
	producerHandler := handlers.NewProducerHandler(producerService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	liveStreamHandler := handlers.NewLiveStreamHandler(liveStreamService)
	adminHandler := handlers.NewAdminHandler(approvalService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, productService)

	var uploadHandler *handlers.UploadHandler
	if storageService, err := services.NewStorageService(cfg); err != nil {
		logrus.WithError(err).Warn("Storage service unavailable; uploads are disabled")
	} else {
		uploadHandler = handlers.NewUploadHandler(storageService)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC(),
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
		v1.GET("/auth/me", middleware.AuthRequired(), authHandler.Me)

		producers := v1.Group("/producers")
		{
			producers.GET("", producerHandler.ListVerifiedProducers)
			producers.GET("/all", middleware.AuthRequired(), middleware.AdminRequired(), producerHandler.ListProducers)
			producers.GET("/:id", producerHandler.GetProducer)
			producers.GET("/:id/followers/count", producerHandler.FollowerCount)

			producers.POST("/:id/follow", middleware.AuthRequired(), producerHandler.Follow)
			producers.DELETE("/:id/follow", middleware.AuthRequired(), producerHandler.Unfollow)
			producers.GET("/:id/following", middleware.AuthRequired(), producerHandler.IsFollowing)
		}

		me := v1.Group("/me", middleware.AuthRequired())
		{
			me.GET("/producer", producerHandler.GetMyProfile)
			me.PUT("/producer", producerHandler.SaveProfile)
			me.POST("/producer/request-approval", producerHandler.RequestApproval)
			me.GET("/orders", orderHandler.MyOrders)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/all", middleware.AuthRequired(), middleware.AdminRequired(), productHandler.ListAllProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/orders", middleware.AuthRequired(), orderHandler.ProductOrders)

			products.POST("", middleware.AuthRequired(), productHandler.CreateProduct)
			products.PUT("/:id", middleware.AuthRequired(), productHandler.UpdateProduct)
			products.DELETE("/:id", middleware.AuthRequired(), productHandler.DeleteProduct)
		}

		orders := v1.Group("/orders", middleware.AuthRequired())
		{
			orders.POST("", middleware.CheckoutRateLimit(), orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		streams := v1.Group("/live-streams")
		{
			streams.GET("", liveStreamHandler.ListLiveStreams)
			streams.GET("/:id", liveStreamHandler.GetLiveStream)

			streams.POST("", middleware.AuthRequired(), liveStreamHandler.CreateLiveStream)
			streams.PUT("/:id/status", middleware.AuthRequired(), liveStreamHandler.UpdateStatus)
			streams.PUT("/:id/story", middleware.AuthRequired(), liveStreamHandler.UpdateStory)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("/config", paymentHandler.CheckoutConfig)
			payments.GET("/quote", paymentHandler.Quote)
		}

		if uploadHandler != nil {
			v1.POST("/uploads/:kind", middleware.AuthRequired(), middleware.UploadRateLimit(), uploadHandler.Upload)
		}

		admin := v1.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/producers/pending", adminHandler.PendingProducers)
			admin.POST("/producers/:id/approve", adminHandler.ApproveProducer)
			admin.POST("/producers/:id/reject", adminHandler.RejectProducer)
			admin.DELETE("/producers/:id", adminHandler.DeleteProducer)
			admin.GET("/producers/:id/approval-history", adminHandler.ApprovalHistory)
			admin.GET("/orders", orderHandler.AllOrders)
			admin.GET("/orders/status/:status", orderHandler.OrdersByStatus)
		}
	}

	return r
}
