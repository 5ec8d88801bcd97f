package routes

import (
	"buildflow-api/handlers"
	"buildflow-api/middleware"
	"buildflow-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, env *handlers.Env) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/signup", handlers.Signup)
		public.POST("/auth/login", handlers.Login)

		// Catalog browsing needs no auth; a token still attributes SEARCH events
		public.GET("/products", middleware.OptionalAuth(), handlers.ListProducts)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Realtime channel ───────────────────────────────────────────
	r.GET("/ws", env.ServeWS)

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/users/profile", handlers.GetProfile)
		auth.PUT("/users/profile", handlers.UpdateProfile)
		auth.POST("/users/fcm-token", handlers.RegisterFCMToken)

		auth.POST("/payments/create-order", env.CreatePaymentOrder)
		auth.POST("/payments/verify", env.VerifyPayment)
	}

	// ── Telemetry ──────────────────────────────────────────────────
	telemetry := r.Group("/api/telemetry")
	{
		telemetry.POST("/event", middleware.OptionalAuth(), handlers.CaptureEvent)
		telemetry.GET("/metrics",
			middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin),
			handlers.GetMetrics)
	}

	// ── Products (supplier management) ─────────────────────────────
	products := r.Group("/api/products")
	products.Use(middleware.AuthRequired())
	{
		products.POST("", middleware.RoleRequired(models.RoleSupplier, models.RoleAdmin), handlers.CreateProduct)
		products.PATCH("/:id", middleware.RoleRequired(models.RoleSupplier, models.RoleAdmin), handlers.UpdateProduct)
	}

	// ── Orders ─────────────────────────────────────────────────────
	orders := r.Group("/api/orders")
	orders.Use(middleware.AuthRequired())
	{
		orders.GET("", handlers.ListOrders)
		orders.POST("", middleware.RoleRequired(models.RoleCustomer), env.CreateOrder)
		orders.PATCH("/:id/status",
			middleware.RoleRequired(models.RoleCustomer, models.RoleSupplier, models.RoleAdmin),
			env.UpdateOrderStatus)
	}

	// ── Delivery partner routes ────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.GET("/available", handlers.ListAvailableDeliveries)
		delivery.GET("/my-jobs", handlers.ListMyDeliveries)
		delivery.POST("/:id/accept", handlers.AcceptDelivery)
		delivery.PATCH("/:id/status", env.UpdateDeliveryStatus)
	}
}
