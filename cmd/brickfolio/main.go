package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/app"
	"github.com/brickfolio/brickfolio/internal/auth"
	"github.com/brickfolio/brickfolio/internal/migrate"
	"github.com/brickfolio/brickfolio/internal/platform/cache"
	"github.com/brickfolio/brickfolio/internal/platform/db"
	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/portfolio/expenses"
	"github.com/brickfolio/brickfolio/internal/portfolio/loans"
	"github.com/brickfolio/brickfolio/internal/portfolio/properties"
	"github.com/brickfolio/brickfolio/internal/portfolio/rentroll"
	"github.com/brickfolio/brickfolio/internal/resource"
	"github.com/brickfolio/brickfolio/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.String("error", httpx.Sanitize(err.Error())))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.MigrateOnStart {
		if err := migrate.Up(ctx, cfg.PGDSN); err != nil {
			// Errors from the driver can echo the DSN, credentials included.
			logger.Error("apply migrations", slog.String("error", httpx.Sanitize(err.Error())))
			os.Exit(1)
		}
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.String("error", httpx.Sanitize(err.Error())))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The list cache degrades to pass-through without Redis; the API
		// stays up.
		logger.Warn("redis unavailable, caching disabled", slog.String("error", httpx.Sanitize(err.Error())))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.String("error", httpx.Sanitize(err.Error())))
			}
		}()
	}

	validate := validator.New()
	listCache := resource.NewCache(redisClient, cfg.CacheTTL, logger)

	authService := auth.NewService(auth.NewRepository(dbpool), cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService, validate)

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		AuthHandler: authHandler,
		AuthService: authService,
		Properties:  properties.NewEndpoints(logger, dbpool, listCache, validate, cfg.MaxPageLimit),
		Loans:       loans.NewEndpoints(logger, dbpool, listCache, validate, cfg.MaxPageLimit),
		RentRolls:   rentroll.NewEndpoints(logger, dbpool, listCache, validate, cfg.MaxPageLimit),
		Expenses:    expenses.NewEndpoints(logger, dbpool, listCache, validate, cfg.MaxPageLimit),
		Users:       users.NewEndpoints(logger, dbpool, listCache, validate, cfg.MaxPageLimit),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", httpx.Sanitize(err.Error())))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", httpx.Sanitize(err.Error())))
	}
}
