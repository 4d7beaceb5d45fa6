package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doccluster/auth-service/config"
	"github.com/doccluster/auth-service/internal/email"
	"github.com/doccluster/auth-service/internal/health"
	"github.com/doccluster/auth-service/internal/infrastructure/postgres"
	"github.com/doccluster/auth-service/internal/janitor"
	ctxlog "github.com/doccluster/auth-service/internal/log"
	"github.com/doccluster/auth-service/internal/metrics"
	"github.com/doccluster/auth-service/internal/token"
	httptransport "github.com/doccluster/auth-service/internal/transport/http"
	"github.com/doccluster/auth-service/internal/transport/http/handler"
	"github.com/doccluster/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Fails closed: no secrets, no process.
	tokens, err := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		stop()
		log.Fatalf("token issuer: %v", err)
	}

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	otpUsecase := usecase.NewOtpUsecase(store, sender, tokens, cfg.OtpTTL(), cfg.OtpResendCooldown(), logger)
	credUsecase := usecase.NewCredentialUsecase(store, tokens, logger)
	authHandler := handler.NewAuthHandler(otpUsecase, credUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, tokens, store.Users()),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	jan := janitor.New(store.Otps(), logger)
	if err := jan.Start(cfg.OtpPurgeIntervalMin); err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	jan.Stop()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
