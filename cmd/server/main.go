package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/repodeck/repodeck/internal/handlers"
	"github.com/repodeck/repodeck/internal/middleware"
	"github.com/repodeck/repodeck/internal/repositories"
	"github.com/repodeck/repodeck/internal/services"
	"github.com/repodeck/repodeck/pkg/config"
	"github.com/repodeck/repodeck/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	userRepo := repositories.NewUserRepository(database.DB)
	settingsRepo := repositories.NewUserSettingsRepository(database.DB)
	userService := services.NewUserService(database.DB, userRepo, settingsRepo)
	githubService := services.NewGitHubService(cfg.GitHub)
	healthService := services.NewHealthService()
	bulkService := services.NewBulkDeleteService()
	exportService := services.NewExportService()

	// Each request gets a gateway bound to its session's bearer token
	newGateway := func(token string) handlers.RepositoryGateway {
		return services.NewGitHubRepositoryService(token, healthService)
	}

	// Initialize router
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.SessionMiddleware(cfg.Session.Secret))

	// Setup static files
	router.Static("/static", "./web/static")

	// Setup routes
	setupRoutes(router, cfg, userService, githubService, healthService, bulkService, exportService, newGateway)
	loadTemplates(router)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	userService *services.UserService,
	githubService *services.GitHubService,
	healthService *services.HealthService,
	bulkService *services.BulkDeleteService,
	exportService *services.ExportService,
	newGateway handlers.GatewayFactory,
) {
	// Initialize handlers
	homeHandler := handlers.NewHomeHandler()
	authHandler := handlers.NewAuthHandler(userService, githubService, cfg.Session.Secret)
	dashboardHandler := handlers.NewDashboardHandler(newGateway, userService)
	repositoryHandler := handlers.NewRepositoryHandler(newGateway, healthService, bulkService, userService, exportService)
	settingsHandler := handlers.NewSettingsHandler(userService)
	healthHandler := handlers.NewHealthHandler()
	notFoundHandler := handlers.NewNotFoundHandler()

	// Home page
	router.GET("/", homeHandler.Index)

	// Auth routes
	router.GET("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/auth/github", authHandler.GitHubLogin)
	router.GET("/auth/github/callback", authHandler.GitHubCallback)

	// Protected pages
	pages := router.Group("/")
	pages.Use(middleware.AuthRequired())
	{
		pages.GET("/dashboard", dashboardHandler.Dashboard)
		pages.GET("/settings", settingsHandler.SettingsPage)
	}

	// JSON API
	api := router.Group("/api")
	api.Use(middleware.APIAuthRequired())
	{
		api.GET("/repositories", repositoryHandler.List)
		api.GET("/repositories/health", repositoryHandler.ListWithHealth)
		api.GET("/repositories/export", repositoryHandler.Export)
		api.POST("/repositories/analyze", repositoryHandler.Analyze)
		api.POST("/repositories/bulk-delete", repositoryHandler.BulkDelete)
		api.DELETE("/repositories/:owner/:name", repositoryHandler.Delete)
		api.GET("/settings", settingsHandler.GetSettings)
		api.PATCH("/settings", settingsHandler.UpdateSettings)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	router.NoRoute(notFoundHandler.NotFound)
}

func loadTemplates(router *gin.Engine) {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Couldn't get working directory:", err)
	}

	router.LoadHTMLFiles(
		filepath.Join(cwd, "web/templates/layouts/header.html"),
		filepath.Join(cwd, "web/templates/layouts/footer.html"),
		filepath.Join(cwd, "web/templates/index.html"),
		filepath.Join(cwd, "web/templates/login.html"),
		filepath.Join(cwd, "web/templates/dashboard.html"),
		filepath.Join(cwd, "web/templates/settings.html"),
		filepath.Join(cwd, "web/templates/404.html"),
	)
}
