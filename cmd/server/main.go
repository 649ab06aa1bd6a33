package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/api"
	"github.com/vanchuyen/logistics-api/internal/api/handler"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
	"github.com/vanchuyen/logistics-api/internal/core/service"
	mongodb "github.com/vanchuyen/logistics-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vanchuyen/logistics-api/internal/infrastructure/db/redis"
	"github.com/vanchuyen/logistics-api/internal/infrastructure/document"
	"github.com/vanchuyen/logistics-api/internal/infrastructure/mail"
	"github.com/vanchuyen/logistics-api/internal/infrastructure/queue"
	"github.com/vanchuyen/logistics-api/internal/pkg/config"
	"github.com/vanchuyen/logistics-api/pkg/logger"
)

// main is the composition root: it connects Mongo and Redis, wires the
// services behind their ports and serves HTTP until SIGINT/SIGTERM.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "logistics-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "logistics-api"})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	orderRepo := mongodb.NewOrderRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	teamRepo := mongodb.NewTeamRepository(db)
	priceRepo := mongodb.NewPriceRepository(db)
	idempotency := redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)

	// --- Documents ---
	var invoiceFont []byte
	if cfg.InvoiceFont != "" {
		if invoiceFont, err = os.ReadFile(cfg.InvoiceFont); err != nil {
			return fmt.Errorf("read invoice font: %w", err)
		}
	}
	docs := document.NewRenderer(cfg.AppURL, invoiceFont)

	// --- Notifications ---
	var mailer ports.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:    cfg.SMTP.Host,
			Port:    cfg.SMTP.Port,
			User:    cfg.SMTP.User,
			Pass:    cfg.SMTP.Pass,
			From:    cfg.SMTP.From,
			Timeout: cfg.SMTP.Timeout,
		}, docs)
	} else {
		log.Warn().Msg("SMTP_HOST not set, mails will only be logged")
		mailer = mail.NewLogMailer(logger.Component("mail"))
	}
	notifyLog := logger.Component("notify")
	notifier := service.NewNotificationService(orderRepo, userRepo, mailer, notifyLog)
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifier, notifyLog)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Services and handlers ---
	router := api.NewRouter(api.Handlers{
		Orders: handler.NewOrderHandler(service.NewOrderService(orderRepo, userRepo, idempotency, dispatcher, docs, log)),
		Stats:  handler.NewStatsHandler(service.NewStatsService(orderRepo, log)),
		Prices: handler.NewPriceHandler(service.NewPriceService(priceRepo, log)),
		Teams:  handler.NewTeamHandler(service.NewTeamService(teamRepo, log)),
		Users:  handler.NewUserHandler(service.NewUserService(userRepo, log)),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"mongodb": mongodb.NewPinger(mongoClient),
			"redis":   redisdb.NewPinger(rdb),
		}),
	}, cfg.JWTSecret, logger.Component("http"), api.DefaultMetrics())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("app_url", cfg.AppURL).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		stopWorkers()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Handlers still running past a failed Shutdown get their jobs dropped.
	// Drain buffered mails within the grace period.
	dispatcher.Close()
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn().Msg("notification queue not drained before shutdown deadline")
	}
	stopWorkers()
	return nil
}
