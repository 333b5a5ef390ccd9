// Package main runs the event check-in HTTP server with the live activity feed and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qr-event/checkin/config"
	"github.com/qr-event/checkin/internal/middleware"
	"github.com/qr-event/checkin/internal/models"
	"github.com/qr-event/checkin/internal/passes"
	"github.com/qr-event/checkin/internal/realtime"
	"github.com/qr-event/checkin/internal/registry"
	"github.com/qr-event/checkin/pkg/redis"
	"github.com/qr-event/checkin/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	roster := registry.DefaultRoster()
	if cfg.Event.RosterFile != "" {
		roster, err = registry.LoadRoster(cfg.Event.RosterFile)
		if err != nil {
			logger.Fatal("roster", zap.Error(err))
		}
	}
	reg := registry.New(roster, cfg.Activity.Retention)
	logger.Info("roster seeded", zap.Int("students", len(roster)), zap.String("event_id", cfg.Event.ID))

	hub := realtime.NewHub(logger)
	notifiers := []passes.Notifier{hub}

	// Optional Redis mirror of the activity log
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(context.Background(), redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("redis activity mirror disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			notifiers = append(notifiers, realtime.NewRedisPublisher(rdb, cfg.Redis.Channel, cfg.Event.ID, logger))
		}
	}

	engine := passes.NewEngine(reg, passes.Options{
		EventID: cfg.Event.ID,
		QRSize:  cfg.Event.QRSize,
	}, logger, notifiers...)
	passHandler := passes.NewHandler(engine, cfg.Activity.PageSize, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health and metrics
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Check-in API
	passHandler.Register(router.Group("/api"))

	// Live activity feed, replaying the current status log page on connect
	router.GET("/ws/activity", realtime.ServeActivity(hub, func() []models.ActivityEvent {
		return engine.RecentActivity(cfg.Activity.PageSize)
	}, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
