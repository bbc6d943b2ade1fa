package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell_backend/database"
	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/config"
	"inkwell_backend/internal/email"
	"inkwell_backend/internal/handlers"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/middleware"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/routes"
	"inkwell_backend/internal/services"
	"inkwell_backend/internal/storage"
	"inkwell_backend/internal/validator"
	"inkwell_backend/internal/workers"
	"inkwell_backend/pkg/apperrors"
	"inkwell_backend/ws"
)

const appName = "Inkwell"

// Dependencies are the outside-world collaborators of the application.
// Run builds the production ones; tests pass in-memory replacements.
type Dependencies struct {
	Config    *config.Config
	Store     repositories.Store
	Clock     clock.Clock
	Sender    email.Sender
	Storage   storage.Storage
	Providers *auth.Providers
}

type Application struct {
	Config   *config.Config
	Router   *gin.Engine
	Services *services.ServiceContainer
	WS       *ws.WebSocketManager

	tokenCleanup *workers.TokenCleanupWorker
}

// New wires services, handlers and routes.
func New(deps Dependencies) (*Application, error) {
	cfg := deps.Config
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	providers := deps.Providers
	if providers == nil {
		providers = newProviders(cfg)
	}

	signer, err := auth.NewSessionSigner(cfg.JWT.Secret, cfg.JWT.TTL, clk)
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}

	wsManager := ws.NewWebSocketManager()

	serviceContainer := services.NewServiceContainer(services.Dependencies{
		Store:     deps.Store,
		Config:    cfg,
		Clock:     clk,
		Signer:    signer,
		Providers: providers,
		Mailer:    email.NewMailer(deps.Sender, cfg.App.FrontendURL, appName),
		Storage:   deps.Storage,
		Pusher:    wsManager,
	})

	appHandlers := initializeHandlers(cfg, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, serviceContainer.SessionService, cfg.App.CORSOrigins)

	router := initializeGinRouter(cfg)
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		router.Static("/uploads", local.BasePath())
	}
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	return &Application{
		Config:       cfg,
		Router:       router,
		Services:     serviceContainer,
		WS:           wsManager,
		tokenCleanup: workers.NewTokenCleanupWorker(deps.Store, clk, cfg.Tokens.TTL, cfg.Tokens.Retention, cfg.Workers.TokenCleanupInterval),
	}, nil
}

// Start launches the background loops. They stop when ctx is cancelled.
func (a *Application) Start(ctx context.Context) {
	go a.WS.Run(ctx)
	a.tokenCleanup.Start(ctx)
}

func newProviders(cfg *config.Config) *auth.Providers {
	client := &http.Client{Timeout: 10 * time.Second}
	providers := auth.NewProviders()

	if cfg.OAuth.GoogleClientID != "" {
		providers.Register(models.ProviderGoogle, auth.NewGoogleVerifier(client, cfg.OAuth.GoogleClientID))
	}
	if cfg.OAuth.AppleClientID != "" {
		providers.Register(models.ProviderApple, auth.NewAppleVerifier(client, cfg.OAuth.AppleClientID))
	}
	if cfg.OAuth.FacebookAppID != "" {
		providers.Register(models.ProviderFacebook, auth.NewFacebookVerifier(client, cfg.OAuth.GraphURL, cfg.OAuth.FacebookAppID, cfg.OAuth.FacebookSecret))
	}
	return providers
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(), svc.SessionService)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService, svc.SessionService, middleware.RateLimitMiddleware(limiter)),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService, svc.FollowService),
		BlogHandler:         handlers.NewBlogHandler(baseHandler, svc.BlogService),
		CommentHandler:      handlers.NewCommentHandler(baseHandler, svc.CommentService),
		SavedHandler:        handlers.NewSavedHandler(baseHandler, svc.SavedService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		CategoryHandler:     handlers.NewCategoryHandler(baseHandler, svc.CategoryService),
		SearchHandler:       handlers.NewSearchHandler(baseHandler, svc.SearchService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.App.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// Run boots the production application and blocks until SIGINT/SIGTERM.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env != "production")
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	sender, err := newMailSender(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize mail sender", "error", err)
	}

	files, err := storage.NewStorage(ctx, storage.ConfigFrom(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	application, err := New(Dependencies{
		Config:  cfg,
		Store:   repositories.NewStore(gormDB),
		Clock:   clock.New(),
		Sender:  sender,
		Storage: files,
	})
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}
	application.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
