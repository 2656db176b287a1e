// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/httpclient"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	EthClient() (*ethclient.Client, error)
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	rpcHTTP       *httpclient.Client
	assetRegistry *asset.Registry
	container     di.Container

	dialOnce  sync.Once
	ethClient *ethclient.Client
	dialErr   error
}

// New creates a new Monolith instance. The JSON-RPC connection is opened on
// first use so commands that work on snapshots never touch the network.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	rpcHTTP, err := httpclient.New(
		httpclient.WithName("ledger-rpc"),
		httpclient.WithTimeout(cfg.Ledger.CallTimeout),
	)
	if err != nil {
		return nil, err
	}

	// Use default asset registry (pre-populated with common assets)
	assetRegistry := asset.DefaultRegistry()

	container := di.NewContainer()

	a := &app{
		config:        cfg,
		logger:        log,
		rpcHTTP:       rpcHTTP,
		assetRegistry: assetRegistry,
		container:     container,
	}

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("assetRegistry", assetRegistry)
	container.RegisterFactory("ethClient", func(di.ServiceRegistry) any {
		c, err := a.EthClient()
		if err != nil {
			panic("failed to dial ledger: " + err.Error())
		}
		return c
	})

	return a, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

// EthClient dials the configured node once and returns the shared client.
func (a *app) EthClient() (*ethclient.Client, error) {
	a.dialOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Ledger.CallTimeout)
		defer cancel()

		c, err := rpc.DialOptions(ctx, a.config.Ledger.RPCURL, rpc.WithHTTPClient(a.rpcHTTP.HTTP()))
		if err != nil {
			a.dialErr = apperror.New(apperror.CodeEthereumConnectionFailed,
				apperror.WithCause(err),
				apperror.WithContext("dial "+a.config.Ledger.RPCURL))
			return
		}
		a.ethClient = ethclient.NewClient(c)
		a.logger.Info(ctx, "ledger client ready", "rpc_url", a.config.Ledger.RPCURL, "chain_id", a.config.Ledger.ChainID)
	})
	return a.ethClient, a.dialErr
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.ethClient != nil {
		a.ethClient.Close()
	}
	return nil
}
