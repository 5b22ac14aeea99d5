package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/dns-failover/config"
	"github.com/angeloszaimis/dns-failover/internal/cloudflare"
	"github.com/angeloszaimis/dns-failover/internal/failover"
	"github.com/angeloszaimis/dns-failover/internal/healthcheck"
	"github.com/angeloszaimis/dns-failover/internal/httpserver"
	"github.com/angeloszaimis/dns-failover/internal/hysteresis"
	"github.com/angeloszaimis/dns-failover/internal/metrics"
	"github.com/angeloszaimis/dns-failover/internal/strategy"
	"github.com/angeloszaimis/dns-failover/pkg/logger"
)

const (
	eventBufferSize = 1000
	// /healthz reports stale after this many intervals without a cycle.
	staleIntervals = 3
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the failover loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				slog.Error("failed to load config", slog.Any("err", err))
				return err
			}

			log := logger.New(cfg.LogLevel(), cfg.Debug, cfg.Environment)

			directory, err := cloudflare.New(cfg.Cloudflare.Token, cfg.Retries, log)
			if err != nil {
				log.Error("Failed to create Cloudflare client", slog.Any("err", err))
				return err
			}

			return runFailover(cmd.Context(), cfg, log, directory)
		},
	}
}

// runFailover blocks until ctx is cancelled.
func runFailover(ctx context.Context, cfg *config.Config, log *slog.Logger, directory failover.Directory) error {
	specs, err := cfg.RecordSpecs()
	if err != nil {
		log.Error("Failed to build records", slog.Any("err", err))
		return err
	}

	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()

	collector := metrics.NewCollector(eventBufferSize, log)
	collector.Start(collectorCtx)

	controller := newController(log, collector, directory)

	var srv *httpserver.Server
	if cfg.Metrics.Address != "" {
		srv, err = startHTTPServer(cfg, log, collector)
		if err != nil {
			return err
		}
	}

	log.Info("Starting DNS failover",
		slog.Int("records", len(specs)),
		slog.Duration("interval", cfg.PollInterval()),
		slog.Int("threshold", controller.Tracker().Threshold()))

	controller.Inventory(ctx, specs)
	controller.Run(ctx, specs, cfg.PollInterval())

	log.Info("Shutting down gracefully...")
	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	}

	stopCollector()
	<-collector.Done()

	return nil
}

func newController(log *slog.Logger, sink metrics.Sink, directory failover.Directory) *failover.Controller {
	return failover.NewController(
		log,
		healthcheck.NewEngine(log, sink),
		hysteresis.NewTracker(hysteresis.DefaultThreshold),
		strategy.NewRandomStrategy(nil),
		directory,
		sink,
	)
}

func startHTTPServer(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*httpserver.Server, error) {
	router := setupRouter(log, collector, staleIntervals*cfg.PollInterval())

	srv, err := httpserver.New(cfg.Metrics.Address, router, log)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return nil, err
	}

	if err := srv.Listen(); err != nil {
		log.Error("Failed to bind metrics address", slog.String("addr", cfg.Metrics.Address), slog.Any("err", err))
		return nil, err
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("HTTP server stopped", slog.Any("err", err))
		}
	}()

	return srv, nil
}
