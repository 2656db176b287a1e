// Package di contains dependency injection tokens for the registry context.
package di

import (
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RegistryService = di.NewToken[*app.RegistryService]("registry.RegistryService")
)

// Private dependency tokens - internal to registry module
var (
	Store = di.NewToken[app.Store]("registry:store")
)

// Helper functions for type-safe access
func GetRegistryService(c di.ServiceRegistry) *app.RegistryService {
	return di.GetToken(c, RegistryService)
}

func GetStore(c di.ServiceRegistry) app.Store {
	return di.GetToken(c, Store)
}
