package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Danidiaz0799/fungicloud/config"
	"github.com/Danidiaz0799/fungicloud/controllers"
	"github.com/Danidiaz0799/fungicloud/middlewares"
	"github.com/Danidiaz0799/fungicloud/services"
	"github.com/Danidiaz0799/fungicloud/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()
	settings := config.LoadSettings()
	utils.InitJWT(settings.JWTSecret)

	// Connect to PostgreSQL database
	if err := config.Connect(settings.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := config.Migrate(config.DB); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Background monitor for stale servers
	mailer := services.NewSMTPMailer(settings)
	monitor := services.NewAlertMonitor(config.DB, mailer, settings.AlertCheckInterval, settings.OfflineThreshold)
	monitor.OnOffline = controllers.BroadcastServerOffline
	monitor.Start()

	// Set up Gin router with CORS configuration
	origins := []string{"http://localhost:4200"}
	if frontend := os.Getenv("FRONTEND_BASE_URL"); frontend != "" {
		origins = append(origins, frontend)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "FungiCloud",
			"version": "1.0.0",
		})
	})
	r.POST("/auth/register", controllers.Signup)
	r.POST("/auth/login", controllers.Login)

	// Protected routes using auth middleware
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/ws", controllers.HandleWebSocket)
	auth.GET("/auth/profile", controllers.GetProfile)
	auth.POST("/sync/register", controllers.RegisterServer)
	auth.POST("/sync/data", controllers.ReceiveSyncData)
	auth.GET("/sync/servers", controllers.ListServers)
	auth.GET("/alerts/servers/offline", controllers.GetOfflineServers)
	auth.PUT("/alerts/servers/:id/settings", controllers.UpdateAlertSettings)
	auth.GET("/billing/plans", controllers.GetPlans)
	auth.GET("/billing/subscription", controllers.GetSubscription)

	admin := auth.Group("/admin")
	admin.Use(middlewares.AdminMiddleware())
	admin.GET("/dashboard", controllers.GetDashboard)
	admin.GET("/users", controllers.ListAllUsers)

	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: r,
	}

	go func() {
		log.Printf("FungiCloud listening on port %s", settings.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// Stop the monitor and drain the server on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
