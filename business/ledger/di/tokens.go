// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/app"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	LedgerService = di.NewToken[*app.LedgerService]("ledger.LedgerService")
)

// Private dependency tokens - internal to ledger module
var (
	ChainReader = di.NewToken[app.ChainReader]("ledger:chainReader")
)

// Helper functions for type-safe access
func GetLedgerService(c di.ServiceRegistry) *app.LedgerService {
	return di.GetToken(c, LedgerService)
}

func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}
