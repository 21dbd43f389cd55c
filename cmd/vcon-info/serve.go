package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/internal/observability"
	"github.com/quartzjer/vcon-info/internal/server"
	"github.com/quartzjer/vcon-info/pkg/vcon/hashverify"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vCon inspection HTTP API",
		Long: `Serve POST /v1/inspect, which accepts raw vCon input or a JSON
wrapper with optional keys and returns the full processing result.

Examples:
  vcon-info serve
  vcon-info serve --addr :9000 --metrics-addr :9100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
	config.BindServeFlags(cmd, v)
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	obs, err := observability.New(ctx, observability.ObsConfig{
		LogLevel:       cfg.Observability.LogLevel,
		LogFormat:      cfg.Observability.LogFormat,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		OTLPProtocol:   cfg.Observability.OTLPProtocol,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	obs.ServeMetrics(ctx, cfg.Observability.MetricsAddr)

	fetcher := hashverify.NewHTTPFetcher(cfg.Fetch.Timeout)
	fetcher.MaxSize = cfg.Fetch.MaxSize

	pipe := pipeline.New(
		pipeline.WithVersions(cfg.Validation.SupportedVersions, cfg.Validation.CurrentVersion),
		pipeline.WithFetcher(fetcher),
		pipeline.WithLogger(obs.Logger),
	)

	srv := server.New(cfg.Server, pipe, obs)
	srv.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("serving", "addr", cfg.Server.Addr, "metrics", cfg.Observability.MetricsAddr)
	<-sigCh
	slog.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := obs.Close(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}
