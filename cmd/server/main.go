package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/digimarket/backend/internal/config"
	"github.com/digimarket/backend/internal/handlers"
	"github.com/digimarket/backend/internal/metrics"
	"github.com/digimarket/backend/internal/repository"
	"github.com/digimarket/backend/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := config.Load()

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUser(pool)
	productRepo := repository.NewProduct(pool)
	categoryRepo := repository.NewCategory(pool)
	orderRepo := repository.NewOrder(pool)
	uow := repository.NewUnitOfWork(pool)

	authService := service.NewAuth(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.BcryptCost, logger)
	catalogService := service.NewCatalog(productRepo, categoryRepo, logger)
	orderService := service.NewOrder(uow, orderRepo, logger)

	h := handlers.New(authService, catalogService, orderService, logger)
	serverMetrics := metrics.NewServerMetrics(prometheus.DefaultRegisterer)

	router := handlers.NewRouter(h, authService, serverMetrics, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
