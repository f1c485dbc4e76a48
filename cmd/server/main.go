package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakim-takip-backend/internal/config"
	"bakim-takip-backend/internal/database"
	"bakim-takip-backend/internal/logger"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/notify"
	"bakim-takip-backend/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("Konfigürasyon okunamadı")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Init(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Veritabanı başlatılamadı")
	}

	caps := database.ProbeCapabilities(db, cfg, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var pub notify.Publisher = notify.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis'e ulaşılamadı, olaylar yayınlanamayabilir")
		}
		pub = notify.NewRedisPublisher(rdb, cfg.RedisChannel)
	}

	app := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Caps:      caps,
		Metrics:   m,
		Publisher: pub,
		Log:       log,
	})

	go func() {
		<-ctx.Done()
		log.Info("Kapatma sinyali alındı")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("Sunucu düzgün kapatılamadı")
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("Sunucu başlatılıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("Sunucu çalışırken hata")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Sunucu kapandı")
}
