package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/config"
	"github.com/yukikurage/organization-service/internal/constants"
	"github.com/yukikurage/organization-service/internal/database"
	"github.com/yukikurage/organization-service/internal/handlers"
	"github.com/yukikurage/organization-service/internal/logger"
	"github.com/yukikurage/organization-service/internal/repository"
	"github.com/yukikurage/organization-service/internal/services"
	"github.com/yukikurage/organization-service/internal/utils"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(logger.Config{Debug: cfg.Debug, ServiceName: constants.ServiceName})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logr.Sync()

	if err := run(cfg, logr); err != nil {
		logr.Error("Server exited with error", zap.Error(err))
		logr.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	// Set Gin mode
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database, cfg.Debug, logr)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logr.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Run migrations
	if err := database.Migrate(db, logr); err != nil {
		return err
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = utils.GenerateSecret(32)
		if err != nil {
			return err
		}
		logr.Warn("JWT_SECRET_KEY not set; using a random secret, tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenService(secret, cfg.Auth.JWTAlgorithm, cfg.Auth.TokenTTL())
	if err != nil {
		return err
	}

	// Initialize repositories and services
	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	namespaces := repository.NewNamespaceRepository(db)

	orgService := services.NewOrganizationService(orgRepo, adminRepo, namespaces, logr, services.OrganizationServiceConfig{
		EnforceUpdateOwnership: cfg.Auth.EnforceUpdateOwnership,
	})
	authService := services.NewAuthService(adminRepo, tokens, logr)

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:                  db,
		Logger:              logr,
		Tokens:              tokens,
		AuthService:         authService,
		OrganizationService: orgService,
		AllowedOrigins:      cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Info("Server starting",
			zap.String("address", server.Addr),
			zap.String("version", constants.ServiceVersion),
			zap.Bool("debug", cfg.Debug))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logr.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	logr.Info("Server stopped")
	return nil
}
