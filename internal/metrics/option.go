package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider selects a metric reader.
type Provider string

const (
	// PrometheusProvider exposes a pull reader served by Handler.
	PrometheusProvider Provider = "prometheus"
	// OtelCollector pushes periodically to an OTLP gRPC collector.
	OtelCollector Provider = "otlp-grpc"
)

type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// Collector configures an OTLP push reader. Endpoints without an https
// scheme are dialed in plaintext, which is what a sidecar collector expects.
func Collector(endpoint string, headers map[string]string) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: endpoint,
		Headers:  headers,
		Insecure: !strings.HasPrefix(endpoint, "https://"),
	}
}

type Config struct {
	ServiceName string
	Providers   []ProviderCfg
	// Registerer receives the Prometheus collectors; nil means the default registry.
	Registerer prometheus.Registerer
}

type OptionFn func(config Config) Config

func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, provider)
		return config
	}
}

func WithRegisterer(r prometheus.Registerer) OptionFn {
	return func(config Config) Config {
		config.Registerer = r
		return config
	}
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}
