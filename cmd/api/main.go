package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-availability/internal/db"
	"github.com/BruksfildServices01/barber-availability/internal/logger"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/routes"
)

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

	policy, err := cfg.SchedulePolicy()
	if err != nil {
		logr.Fatal("invalid schedule config", zap.Error(err))
	}

	db, err := dbpkg.NewDB(cfg, logr)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logr.Fatal("database handle unavailable", zap.Error(err))
	}
	defer sqlDB.Close()

	m := metrics.New()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Availability is always computable from the database.
		logr.Warn("redis unavailable, availability cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	availabilityCache := cache.NewAvailabilityCache(redisClient, cfg.Redis.CacheTTL, m)

	auditDispatcher := audit.NewDispatcher(audit.New(db), logr)
	defer auditDispatcher.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		SQL:     sqlDB,
		Config:  cfg,
		Log:     logr,
		Metrics: m,
		Cache:   availabilityCache,
		Audit:   auditDispatcher,
		Policy:  policy,
	})

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logr.Error("http shutdown error", zap.Error(err))
		}
	}()

	logr.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatal("http server error", zap.Error(err))
	}
	logr.Info("server stopped")
}
