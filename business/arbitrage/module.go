// Package arbitrage implements the arbitrage bounded context: the trade that
// moves each conditional pool to its reference price.
package arbitrage

import (
	"context"
	"fmt"

	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
	arbitrageDI "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	ledgerDI "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/di"
	pricingDI "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ReferenceModel - private dependency
	di.RegisterToken(c, arbitrageDI.ReferenceModel, func(sr di.ServiceRegistry) domain.ReferenceModel {
		cfg := sr.Get("config").(*config.Config)
		model, err := NewReferenceModel(cfg.Arbitrage)
		if err != nil {
			panic("failed to create reference model: " + err.Error())
		}
		return model
	})

	// Register ArbitrageService (public - exposed to other modules)
	di.RegisterToken(c, arbitrageDI.ArbitrageService, func(sr di.ServiceRegistry) *app.ArbitrageService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		opts := []app.Option{app.WithProposalReader(ledgerDI.GetLedgerService(sr))}
		if cfg.Arbitrage.SpotSource == config.SpotSourceBinance {
			opts = append(opts, app.WithSpotSource(pricingDI.GetSpotSource(sr)))
		}

		svc, err := app.NewArbitrageService(arbitrageDI.GetReferenceModel(sr), log, opts...)
		if err != nil {
			panic("failed to create arbitrage service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup initializes the arbitrage module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	model := arbitrageDI.GetReferenceModel(mono.Services())
	mono.Logger().Info(ctx, "arbitrage module started",
		"reference_model", model.Name(),
		"spot_source", mono.Config().Arbitrage.SpotSource,
	)
	return nil
}

// NewReferenceModel builds the configured reference pricing policy.
func NewReferenceModel(cfg config.ArbitrageConfig) (domain.ReferenceModel, error) {
	switch cfg.ReferenceModel {
	case "", config.ReferenceModelImpactSplit:
		return domain.ImpactSplitModel{}, nil
	case config.ReferenceModelFixed:
		yes, err := asset.ParsePrice(cfg.FixedYesPrice)
		if err != nil {
			return nil, fmt.Errorf("fixed yes price: %w", err)
		}
		no, err := asset.ParsePrice(cfg.FixedNoPrice)
		if err != nil {
			return nil, fmt.Errorf("fixed no price: %w", err)
		}
		return domain.FixedTargetsModel{Targets: domain.Targets{Yes: yes, No: no}}, nil
	default:
		return nil, fmt.Errorf("unknown reference model %q", cfg.ReferenceModel)
	}
}
