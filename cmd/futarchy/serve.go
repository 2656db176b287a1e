package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	arbitrageDI "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/di"
	pricingDI "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/di"
	registryDI "github.com/futarchy-fi/futarchy-orchestrator/business/registry/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/health"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/httpapi"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, health checks and metrics",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg, log, sr := rt.cfg, rt.log, rt.mono.Services()
	registrySvc := registryDI.GetRegistryService(sr)
	defer registrySvc.Close()

	// Health checks: ledger reachability and registry store
	healthServer := health.NewServer(cfg.Health.Port, version, log)
	healthServer.RegisterCheck("ledger", func(ctx context.Context) error {
		client, err := rt.mono.EthClient()
		if err != nil {
			return err
		}
		_, err = client.BlockNumber(ctx)
		return err
	})
	healthServer.RegisterCheck("registry", registrySvc.Ping)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Health.Port)
	}

	if strings.EqualFold(cfg.App.Environment, "development") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var metricsHandler http.Handler
	if rt.metrics {
		metricsHandler = metrics.Handler(nil)
	}
	engine := httpapi.NewEngine(log, metricsHandler,
		&httpapi.QuoteHandler{
			Service:         pricingDI.GetQuoteService(sr),
			ChainID:         cfg.Ledger.ChainID,
			DefaultSlippage: decimal.RequireFromString(cfg.Quote.DefaultSlippage),
		},
		&httpapi.ArbitrageHandler{
			Service: arbitrageDI.GetArbitrageService(sr),
			ChainID: cfg.Ledger.ChainID,
		},
		&httpapi.RegistryHandler{Service: registrySvc},
	)

	api := httpapi.NewServer(cfg.Server.Port, engine, log)
	api.Start()
	log.Info(ctx, "api server started", "port", cfg.Server.Port)

	// Wait for shutdown
	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := api.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "error stopping api server", "error", err)
	}
	if err := healthServer.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop health server: %w", err)
	}
	return nil
}
