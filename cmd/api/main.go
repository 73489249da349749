package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Dalab21/emotunes/internal/clients"
	"github.com/Dalab21/emotunes/internal/config"
	"github.com/Dalab21/emotunes/internal/handlers"
	"github.com/Dalab21/emotunes/internal/logger"
	"github.com/Dalab21/emotunes/internal/middleware"
	"github.com/Dalab21/emotunes/internal/models"
	"github.com/Dalab21/emotunes/internal/services"
)

func main() {
	// Load environment variables (missing .env falls back to the process env)
	_ = godotenv.Load()

	// Initialize configuration and logging
	cfg := config.New()
	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	// Run migrations and seed the fixed roles
	if err := models.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", logger.ErrorField(err))
	}
	if err := models.SeedRoles(db); err != nil {
		logger.Fatal("failed to seed roles", logger.ErrorField(err))
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Remote clients
	classifierClient := clients.NewClassifierClient(cfg)
	playlistClient := clients.NewPlaylistClient(cfg)
	spotifyClient := clients.NewSpotifyClient(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	archiveService, err := services.NewArchiveService(cfg)
	if err != nil {
		logger.Fatal("failed to initialize playlist archive", logger.ErrorField(err))
	}
	playlistCache := services.NewPlaylistCache(redisClient, cfg.PlaylistCacheTTL)
	pipelineService := services.NewPipelineService(classifierClient, playlistClient, spotifyClient, archiveService, playlistCache, cfg.ArchivePrefix)
	premiumService := services.NewPremiumService(db, cfg)
	exportService := services.NewExportService(cfg)

	if err := authService.EnsureAdminUser(); err != nil {
		logger.Fatal("failed to bootstrap admin user", logger.ErrorField(err))
	}

	// Observe pipeline transitions for diagnostics
	pipelineEvents := make(chan services.StateChange, 64)
	pipelineService.AttachEvents(pipelineEvents)
	go func() {
		for change := range pipelineEvents {
			logger.Debug("pipeline transition",
				logger.String("run_id", change.RunID.String()),
				logger.String("from", string(change.From)),
				logger.String("to", string(change.To)),
				logger.String("reason", change.Reason))
		}
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	captureHandler := handlers.NewCaptureHandler(pipelineService)
	playlistHandler := handlers.NewPlaylistHandler(archiveService, playlistCache, exportService, spotifyClient, cfg)
	premiumHandler := handlers.NewPremiumHandler(premiumService, userService, cfg)
	adminHandler := handlers.NewAdminHandler(userService)

	// Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
		}

		// User routes
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.GET("/profile", userHandler.GetProfile)

			// Capture pipeline (daily per-user cap)
			user.POST("/capture", middleware.CaptureRateLimit(redisClient, cfg), captureHandler.Capture)

			// Playlist history
			user.GET("/playlists", playlistHandler.ListPlaylists)
			user.GET("/playlists/latest", playlistHandler.GetLatestPlaylist)
			user.GET("/playlists/:filename", playlistHandler.GetPlaylist)

			// Player backing
			user.GET("/tracks/info", playlistHandler.GetTrackInfo)

			// Premium upgrade
			user.POST("/premium/checkout", premiumHandler.CreateCheckout)

			// Premium features
			premium := user.Group("")
			premium.Use(middleware.PremiumOnly())
			{
				premium.GET("/playlists/:filename/export.pdf", playlistHandler.ExportPlaylistPDF)
				premium.GET("/tracks/qr.png", playlistHandler.GetTrackQR)
			}
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/users", adminHandler.GetAllUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
		}

		// Payment webhooks
		api.POST("/stripe/webhook", premiumHandler.HandleWebhook)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("starting server", logger.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server exited")
}
