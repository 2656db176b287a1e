// Package pricing implements the pricing bounded context: single-pool swap
// quotes and the exogenous spot price.
package pricing

import (
	"context"

	ledgerDI "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	pricingDI "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing/infra/binance"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register SpotSource (Binance REST ticker)
	di.RegisterToken(c, pricingDI.SpotSource, func(sr di.ServiceRegistry) app.SpotSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		src, err := binance.NewSpotSource(binance.Config{
			BaseURL: cfg.Binance.BaseURL,
			Timeout: cfg.Binance.Timeout,
			Symbol:  cfg.Arbitrage.SpotSymbol,
		}, log)
		if err != nil {
			panic("failed to create binance spot source: " + err.Error())
		}
		return src
	})

	// Register QuoteService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.QuoteService, func(sr di.ServiceRegistry) *app.QuoteService {
		log := sr.Get("logger").(logger.LoggerInterface)

		svc, err := app.NewQuoteService(ledgerDI.GetLedgerService(sr), log)
		if err != nil {
			panic("failed to create quote service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "pricing module started",
		"default_slippage", cfg.Quote.DefaultSlippage,
		"spot_source", cfg.Arbitrage.SpotSource,
	)
	return nil
}
