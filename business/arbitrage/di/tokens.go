// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ArbitrageService = di.NewToken[*app.ArbitrageService]("arbitrage.ArbitrageService")
)

// Private dependency tokens - internal to arbitrage module
var (
	ReferenceModel = di.NewToken[domain.ReferenceModel]("arbitrage:referenceModel")
)

// Helper functions for type-safe access
func GetArbitrageService(c di.ServiceRegistry) *app.ArbitrageService {
	return di.GetToken(c, ArbitrageService)
}

func GetReferenceModel(c di.ServiceRegistry) domain.ReferenceModel {
	return di.GetToken(c, ReferenceModel)
}
