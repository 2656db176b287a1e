// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteService = di.NewToken[*app.QuoteService]("pricing.QuoteService")
	SpotSource   = di.NewToken[app.SpotSource]("pricing.SpotSource")
)

// Helper functions for type-safe access
func GetQuoteService(c di.ServiceRegistry) *app.QuoteService {
	return di.GetToken(c, QuoteService)
}

func GetSpotSource(c di.ServiceRegistry) app.SpotSource {
	return di.GetToken(c, SpotSource)
}
