// Package ledger implements the ledger bounded context: reading proposal
// pools from a futarchy deployment on an EVM chain.
package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/app"
	ledgerDI "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/infra/algebra"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/monolith"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/ratelimit"
)

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ChainReader (Algebra factory over JSON-RPC) - private dependency
	di.RegisterToken(c, ledgerDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		limiter := ratelimit.New(cfg.Ledger.RequestsPerSecond, cfg.Ledger.Burst)
		reader, err := algebra.NewReader(ethClient, algebra.Config{
			FactoryAddress: cfg.Futarchy.PoolFactory(),
			CallTimeout:    cfg.Ledger.CallTimeout,
		}, limiter, log)
		if err != nil {
			panic("failed to create ledger reader: " + err.Error())
		}
		return reader
	})

	// Register LedgerService (public - exposed to other modules)
	di.RegisterToken(c, ledgerDI.LedgerService, func(sr di.ServiceRegistry) *app.LedgerService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		assets := sr.Get("assetRegistry").(*asset.Registry)

		return app.NewLedgerService(ledgerDI.GetChainReader(sr), assets, app.Config{
			ChainID:       cfg.Ledger.ChainID,
			TokenCacheTTL: cfg.Ledger.ProposalCacheTTL,
		}, log)
	})

	return nil
}

// Startup logs the ledger endpoint. The node is dialed on first use.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "ledger module started",
		"chain_id", cfg.Ledger.ChainID,
		"factory", cfg.Futarchy.PoolFactory().Hex(),
	)
	return nil
}
