package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/app"
	"github.com/LanceSports/LanceSports-sub000/internal/config"
	"github.com/LanceSports/LanceSports-sub000/internal/observability"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, flushLogs, err := observability.InitBetterStackLogger(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		panic(err)
	}
	logger = logger.With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofServer := observability.StartPprofServer(cfg, logger)

	srv, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	exitCode := 0
	if err := srv.Run(ctx); err != nil {
		logger.Error("service stopped with error", "error", err)
		exitCode = 1
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.StopPprofServer(cleanupCtx, pprofServer, logger); err != nil {
		logger.Warn("stop pprof server", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(cleanupCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	if err := flushLogs(cleanupCtx); err != nil {
		exitCode = 1
	}
	os.Exit(exitCode)
}
