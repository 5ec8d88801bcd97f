package main

import (
	"context"
	"log"
	"net/http"

	"buildflow-api/config"
	"buildflow-api/handlers"
	"buildflow-api/notify"
	"buildflow-api/realtime"
	"buildflow-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize database
	config.InitDB(cfg.DBPath)

	// Outbound side effects: email + push behind the retry queue
	queue := notify.NewQueue(256)
	queue.Start()
	pusher, err := notify.NewFCMPusher(context.Background(), cfg.FirebaseCreds)
	if err != nil {
		log.Fatal("Failed to init push client:", err)
	}
	notifier := notify.New(queue, notify.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom), pusher)

	// Realtime hub, constructed here and injected everywhere it is needed
	hub := realtime.NewHub(handlers.CanJoinOrder)
	go hub.Run()

	env := &handlers.Env{Cfg: cfg, Hub: hub, Notify: notifier}

	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "buildflow-api",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🏗️ Welcome to the Buildflow Materials Marketplace API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"CUSTOMER", "SUPPLIER", "DELIVERY", "ADMIN"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, env)

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
