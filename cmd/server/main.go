package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authbuddy/internal/api"
	"authbuddy/internal/app/service"
	"authbuddy/internal/common/security"
	"authbuddy/internal/domain/repository"
	"authbuddy/internal/platform/config"
	"authbuddy/internal/platform/database"
	"authbuddy/internal/platform/kv"
	"authbuddy/internal/platform/logging"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig

	logger := logging.New(cfg.Env)
	logger.Info().Str("env", cfg.Env).Str("store", cfg.StoreBackend).Msg("configuration loaded")

	// 2. Initialize Token Manager
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize the Credential Store
	var userRepo repository.UserRepository
	switch cfg.StoreBackend {
	case config.StoreRedis:
		kv.ConnectRedis()
		defer kv.CloseRedis()
		userRepo = repository.NewRedisUserRepository(kv.RDB)
		logger.Info().Msg("redis store connected")
	case config.StorePostgres:
		database.Connect()
		defer database.Close()
		userRepo = repository.NewPgUserRepository(database.DB)
		logger.Info().Msg("postgres store connected")
	default:
		logger.Fatal().Str("store", cfg.StoreBackend).Msg("unknown store backend")
	}

	// 4. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(logger, tokens, authService, userService, cfg.JWTExp, cfg.IsProduction())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("server stopped gracefully")
}
