package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger"
	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apm"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/metrics"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/monolith"
)

// runtime is everything a command needs after startup.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	mono    monolith.Monolith
	metrics bool
	close   func()
}

// bootstrap loads config, sets up logging and telemetry, and starts modules
// in dependency order.
func bootstrap(ctx context.Context, cmd *cobra.Command, withRegistry bool) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting futarchy orchestrator",
		"version", version,
		"environment", cfg.App.Environment,
		"command", cmd.Name(),
	)

	closers := []func(){func() { _ = log.Sync() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Initialize observability if enabled
	rt := &runtime{cfg: cfg, log: log}
	if cfg.Telemetry.Enabled {
		tp, err := apm.NewTraceProvider(cfg.Telemetry.ServiceName, apm.WithProvider(
			apm.Provider(cfg.Telemetry.TraceProvider),
			apm.ExporterConfig{Endpoint: cfg.Telemetry.OTLPEndpoint, Headers: cfg.Telemetry.OTLPHeaders},
			log,
		))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
		closers = append(closers, func() { _ = tp.Stop() })
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider, "endpoint", cfg.Telemetry.OTLPEndpoint)

		metricOpts := []metrics.OptionFn{
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		}
		if cfg.Telemetry.OTLPMetrics && cfg.Telemetry.OTLPEndpoint != "" {
			headers, err := apm.ParseHeaders(cfg.Telemetry.OTLPHeaders)
			if err != nil {
				cleanup()
				return nil, fmt.Errorf("failed to init metrics: %w", err)
			}
			metricOpts = append(metricOpts, metrics.WithProviderConfig(metrics.Collector(cfg.Telemetry.OTLPEndpoint, headers)))
		}
		mp, err := metrics.NewMetricProvider(metricOpts...)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to init metrics: %w", err)
		}
		closers = append(closers, func() { _ = mp.Shutdown(context.Background()) })
		rt.metrics = true
	}

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	closers = append(closers, func() { _ = mono.Close() })

	// Define modules in dependency order
	modules := []monolith.Module{
		&ledger.Module{},    // Must be first - provides pool snapshots
		&pricing.Module{},   // Depends on ledger
		&arbitrage.Module{}, // Depends on ledger and pricing
	}
	if withRegistry {
		modules = append(modules, &registry.Module{})
	}

	if err := mono.RegisterModules(modules...); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to start modules: %w", err)
	}

	rt.mono = mono
	rt.close = cleanup
	return rt, nil
}
