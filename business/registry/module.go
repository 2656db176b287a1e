// Package registry implements the metadata registry bounded context:
// display metadata for proposals grouped into organizations and aggregators.
package registry

import (
	"context"
	"time"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	registryDI "github.com/futarchy-fi/futarchy-orchestrator/business/registry/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/infra/memory"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/infra/postgres"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/monolith"
)

const connectTimeout = 10 * time.Second

// Module implements the registry bounded context.
type Module struct{}

// RegisterServices registers all registry services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Store (private - memory or postgres)
	di.RegisterToken(c, registryDI.Store, func(sr di.ServiceRegistry) app.Store {
		cfg := sr.Get("config").(*config.Config)

		store, err := NewStore(cfg.Registry)
		if err != nil {
			panic("failed to create registry store: " + err.Error())
		}
		return store
	})

	// Register RegistryService (public - exposed to other modules)
	di.RegisterToken(c, registryDI.RegistryService, func(sr di.ServiceRegistry) *app.RegistryService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewRegistryService(registryDI.GetStore(sr), log)
	})

	return nil
}

// NewStore opens the store selected by cfg.Backend.
func NewStore(cfg config.RegistryConfig) (app.Store, error) {
	if cfg.Backend == config.RegistryPostgres {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	}
	return memory.NewStore(), nil
}

// Startup initializes the registry module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "registry module started", "backend", cfg.Registry.Backend)
	return nil
}
