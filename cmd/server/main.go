package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/config"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/extractor"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/inspect"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/k8s"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/server"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.SetupLogging()

	slog.Info("starting kubernetes-query-agent",
		"port", cfg.Port,
		"clusterName", cfg.ClusterName,
		"otelEnabled", cfg.OTelEnabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.InitTelemetry(ctx, cfg.OTelEnabled, cfg.OTelEndpoint, cfg.ClusterName)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer shutdown()
	if cfg.OTelEnabled {
		telemetry.SetupOTelLogging(cfg.SlogLevel())
	}

	clients, err := k8s.NewClients()
	if err != nil {
		slog.Error("failed to initialize kubernetes clients", "error", err)
		os.Exit(1)
	}

	probe := k8s.NewProbe(clients.Discovery)
	go probe.Start(ctx)

	engine := inspect.NewEngine(clients)
	ext := extractor.NewHTTPExtractor(cfg.ExtractorEndpoint)

	srv := server.NewServer(engine, ext, probe.IsReady)

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		slog.Error("query server stopped", "error", err)
	}

	slog.Info("kubernetes-query-agent stopped")
}
