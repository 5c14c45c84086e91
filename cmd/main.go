package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niposch/wake-on-lan-web/internal/agent"
	"github.com/niposch/wake-on-lan-web/internal/auth"
	"github.com/niposch/wake-on-lan-web/internal/auth/jwt"
	"github.com/niposch/wake-on-lan-web/internal/cache/redis"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/niposch/wake-on-lan-web/internal/ctrl"
	hdl "github.com/niposch/wake-on-lan-web/internal/hdl/http"
	"github.com/niposch/wake-on-lan-web/internal/monitor"
	"github.com/niposch/wake-on-lan-web/internal/observability/metrics/prometheus"
	"github.com/niposch/wake-on-lan-web/internal/observability/tracing/jaeger"
	"github.com/niposch/wake-on-lan-web/internal/probe"
	"github.com/niposch/wake-on-lan-web/internal/repo/db"
	"github.com/niposch/wake-on-lan-web/internal/repo/s3"
	"github.com/niposch/wake-on-lan-web/internal/smtp"
	"github.com/niposch/wake-on-lan-web/internal/wol"
	"go.uber.org/zap"
)

func mustRegisterLogger(mode string) {
	switch mode {
	case "prod":
		zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	case "dev":
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	}
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			zap.L().Panic("panic occurred", zap.Any("error", err))
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.MustLoad()
	mustRegisterLogger(conf.Server.Mode)

	go prometheus.New(conf.Server.Port + 5).Start(ctx)
	go jaeger.Start(ctx, conf.ServiceName, conf.Jaeger)

	cache := redis.New(conf.Redis)
	repo := db.New(conf)
	storage := s3.New(conf.Minio)
	email := smtp.New(conf.Email)

	au := auth.New()
	tokens := jwt.New(conf)

	svc := ctrl.New(
		au,
		tokens,
		repo,
		cache,
		storage,
		wol.NewBroadcaster(),
		agent.New(conf.Agent),
		conf,
	)

	mon := monitor.New(conf.Monitor, repo, probe.NewPinger(), email, cache)
	mon.Start(ctx)

	h := hdl.New(tokens, svc)

	zap.L().Info(
		fmt.Sprintf("Starting server on :%v", conf.Server.Port),
	)
	go h.Start(conf.Server.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-c

	zap.L().Info("Shutting down gracefully...")
	mon.Stop()

	if err := h.Close(ctx); err != nil {
		zap.L().Warn("Error closing handler", zap.Error(err))
	}

	if err := cache.Close(); err != nil {
		zap.L().Warn("Failed to close connection to Redis: ", zap.Error(err))
	}

	if err := repo.Close(ctx); err != nil {
		zap.L().Warn("Error closing repository", zap.Error(err))
	}

	os.Exit(0)
}
