package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/internal/observability"
	"github.com/emberwatch/firefront-simulator/internal/server"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		listenAddr  = flag.String("listen", "", "API listen address (overrides config)")
		metricsAddr = flag.String("metrics", "", "metrics listen address (overrides config)")
	)
	flag.Parse()

	log := logging.NewFromEnv()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Error(context.Background(), "load config", logging.Any("error", err))
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "init tracing", logging.Any("error", err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	srv, err := server.New(cfg, nil, log)
	if err != nil {
		log.Error(ctx, "build server", logging.Any("error", err))
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error(context.Background(), "server exited", logging.Any("error", err))
		os.Exit(1)
	}
	log.Info(context.Background(), "server stopped")
}
