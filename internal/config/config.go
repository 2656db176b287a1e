// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Reference model names.
const (
	ReferenceModelImpactSplit = "impact-split"
	ReferenceModelFixed       = "fixed"
)

// Spot source names.
const (
	SpotSourceNone    = "none"
	SpotSourceBinance = "binance"
)

// Registry backends.
const (
	RegistryMemory   = "memory"
	RegistryPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Futarchy  FutarchyConfig  `mapstructure:"futarchy"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Binance   BinanceConfig   `mapstructure:"binance"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Server    ServerConfig    `mapstructure:"server"`
	Health    HealthConfig    `mapstructure:"health"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// LedgerConfig holds the JSON-RPC node settings.
type LedgerConfig struct {
	RPCURL            string        `mapstructure:"rpc_url"`
	ChainID           uint64        `mapstructure:"chain_id"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	ProposalCacheTTL  time.Duration `mapstructure:"proposal_cache_ttl"`
}

// FutarchyConfig holds contract addresses.
type FutarchyConfig struct {
	PoolFactoryAddress string `mapstructure:"pool_factory_address"`
}

// PoolFactory returns the factory address as common.Address.
func (c *FutarchyConfig) PoolFactory() common.Address {
	return common.HexToAddress(c.PoolFactoryAddress)
}

// QuoteConfig holds quote defaults.
type QuoteConfig struct {
	DefaultSlippage string `mapstructure:"default_slippage"`
}

// DefaultSlippageDecimal returns the default slippage fraction.
func (c *QuoteConfig) DefaultSlippageDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(c.DefaultSlippage)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ArbitrageConfig selects the reference pricing policy and spot source.
type ArbitrageConfig struct {
	ReferenceModel string `mapstructure:"reference_model"`
	FixedYesPrice  string `mapstructure:"fixed_yes_price"`
	FixedNoPrice   string `mapstructure:"fixed_no_price"`
	SpotSource     string `mapstructure:"spot_source"`
	SpotSymbol     string `mapstructure:"spot_symbol"`
}

// BinanceConfig holds the REST endpoint used for spot prices.
type BinanceConfig struct {
	BaseURL string        `mapstructure:"base_url"` // https://api.binance.com or https://api.binance.us for US
	Timeout time.Duration `mapstructure:"timeout"`
}

// RegistryConfig selects the metadata registry store.
type RegistryConfig struct {
	Backend     string `mapstructure:"backend"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServiceName   string `mapstructure:"service_name"`
	TraceProvider string `mapstructure:"trace_provider"`
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	OTLPHeaders   string `mapstructure:"otlp_headers"`
	// OTLPMetrics also pushes metrics to OTLPEndpoint next to /metrics.
	OTLPMetrics bool `mapstructure:"otlp_metrics"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("FUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "FUT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "FUT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "FUT_LOG_LEVEL", "LOG_LEVEL")

	// Ledger
	v.BindEnv("ledger.rpc_url", "FUT_RPC_URL", "RPC_URL")
	v.BindEnv("ledger.chain_id", "FUT_CHAIN_ID", "CHAIN_ID")

	// Futarchy
	v.BindEnv("futarchy.pool_factory_address", "FUT_POOL_FACTORY", "POOL_FACTORY_ADDRESS")

	// Arbitrage
	v.BindEnv("arbitrage.reference_model", "FUT_REFERENCE_MODEL")
	v.BindEnv("arbitrage.spot_source", "FUT_SPOT_SOURCE")
	v.BindEnv("arbitrage.spot_symbol", "FUT_SPOT_SYMBOL")

	// Registry
	v.BindEnv("registry.backend", "FUT_REGISTRY_BACKEND")
	v.BindEnv("registry.postgres_dsn", "FUT_POSTGRES_DSN", "DATABASE_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "FUT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "FUT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_provider", "FUT_TRACE_PROVIDER")
	v.BindEnv("telemetry.otlp_endpoint", "FUT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "FUT_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.otlp_metrics", "FUT_OTEL_METRICS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "futarchy-orchestrator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Gnosis Chain defaults
	v.SetDefault("ledger.rpc_url", "https://rpc.gnosischain.com")
	v.SetDefault("ledger.chain_id", 100)
	v.SetDefault("ledger.call_timeout", "10s")
	v.SetDefault("ledger.requests_per_second", 20)
	v.SetDefault("ledger.burst", 10)
	v.SetDefault("ledger.proposal_cache_ttl", "1h")

	// Algebra factory used by futarchy pools on Gnosis
	v.SetDefault("futarchy.pool_factory_address", "0xA0864cCA6E114013AB0e27cbd5B6f4c8947da766")

	v.SetDefault("quote.default_slippage", "0.03")

	v.SetDefault("arbitrage.reference_model", ReferenceModelImpactSplit)
	v.SetDefault("arbitrage.spot_source", SpotSourceNone)
	v.SetDefault("arbitrage.spot_symbol", "GNOUSDT")

	v.SetDefault("binance.base_url", "https://api.binance.com")
	v.SetDefault("binance.timeout", "5s")

	v.SetDefault("registry.backend", RegistryMemory)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("health.port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "futarchy-orchestrator")
	v.SetDefault("telemetry.trace_provider", "none")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger.rpc_url is required")
	}
	if !common.IsHexAddress(c.Futarchy.PoolFactoryAddress) {
		return fmt.Errorf("invalid futarchy.pool_factory_address: %s", c.Futarchy.PoolFactoryAddress)
	}

	s, err := decimal.NewFromString(c.Quote.DefaultSlippage)
	if err != nil || s.IsNegative() || s.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("quote.default_slippage must be a fraction in [0,1): %q", c.Quote.DefaultSlippage)
	}

	switch c.Arbitrage.ReferenceModel {
	case ReferenceModelImpactSplit:
	case ReferenceModelFixed:
		for name, p := range map[string]string{"fixed_yes_price": c.Arbitrage.FixedYesPrice, "fixed_no_price": c.Arbitrage.FixedNoPrice} {
			d, err := decimal.NewFromString(p)
			if err != nil || !d.IsPositive() {
				return fmt.Errorf("arbitrage.%s must be a positive decimal for the fixed model: %q", name, p)
			}
		}
	default:
		return fmt.Errorf("unknown arbitrage.reference_model: %s", c.Arbitrage.ReferenceModel)
	}

	switch c.Arbitrage.SpotSource {
	case SpotSourceNone, SpotSourceBinance:
	default:
		return fmt.Errorf("unknown arbitrage.spot_source: %s", c.Arbitrage.SpotSource)
	}

	switch c.Registry.Backend {
	case RegistryMemory:
	case RegistryPostgres:
		if c.Registry.PostgresDSN == "" {
			return fmt.Errorf("registry.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown registry.backend: %s", c.Registry.Backend)
	}

	return nil
}
