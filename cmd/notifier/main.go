package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-availability/internal/db"
	infraRepo "github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/logger"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/notify"
)

// notifier delivers pending exception notices to the notification service
// on the NOTIFY_SCHEDULE cron spec.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := dbpkg.NewDB(cfg, logr)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}

	var notifier notify.Notifier
	if cfg.Notify.BaseURL != "" {
		notifier = notify.NewHTTPNotifier(cfg.Notify.BaseURL, &http.Client{Timeout: cfg.Notify.Timeout})
	} else {
		logr.Warn("NOTIFY_BASE_URL not set, notices are only logged")
		notifier = notify.NewLogNotifier(logr)
	}

	relay := notify.NewRelay(
		infraRepo.NewGormTxManager(db),
		notifier,
		metrics.New(),
		logr,
		cfg.Notify.BatchSize,
		cfg.Notify.MaxAttempts,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Notify.Schedule, func() {
		n, err := relay.RunOnce(ctx)
		if err != nil {
			logr.Error("outbox relay run failed", zap.Error(err))
			return
		}
		if n > 0 {
			logr.Info("outbox relay delivered", zap.Int("events", n))
		}
	}); err != nil {
		logr.Fatal("invalid NOTIFY_SCHEDULE", zap.String("schedule", cfg.Notify.Schedule), zap.Error(err))
	}

	c.Start()
	logr.Info("notifier started", zap.String("schedule", cfg.Notify.Schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	logr.Info("notifier stopped")
}
