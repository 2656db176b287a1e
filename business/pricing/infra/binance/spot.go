// Package binance reads spot prices from the Binance REST API.
package binance

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/circuitbreaker"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/httpclient"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const (
	// Binance REST API endpoints
	BaseAPIURL   = "https://api.binance.com"
	BaseAPIURLUS = "https://api.binance.us"

	tickerPriceEndpoint = "/api/v3/ticker/price"

	httpTimeout = 10 * time.Second
	tracerName  = "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/infra/binance"
)

// Ensure SpotSource implements app.SpotSource.
var _ app.SpotSource = (*SpotSource)(nil)

// Config holds configuration for the Binance spot source.
type Config struct {
	BaseURL string        // API base URL (empty = default)
	Timeout time.Duration // Request timeout
	Symbol  string        // e.g. GNOUSDT
}

// SpotSource reads the last traded price of one symbol.
type SpotSource struct {
	client *httpclient.Client
	cb     *circuitbreaker.CircuitBreaker[asset.Price]
	symbol string
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewSpotSource creates a SpotSource.
func NewSpotSource(cfg Config, log logger.LoggerInterface) (*SpotSource, error) {
	if cfg.Symbol == "" {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "binance symbol is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}

	client, err := httpclient.New(
		httpclient.WithName("binance"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &SpotSource{
		client: client,
		cb:     circuitbreaker.New[asset.Price](circuitbreaker.DefaultConfig("binance-spot")),
		symbol: strings.ToUpper(cfg.Symbol),
		logger: log,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// tickerPrice is the REST response of /api/v3/ticker/price.
type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// SpotPrice fetches the current price of the configured symbol.
func (s *SpotSource) SpotPrice(ctx context.Context) (asset.Price, error) {
	ctx, span := s.tracer.Start(ctx, "binance.spot_price",
		trace.WithAttributes(attribute.String("symbol", s.symbol)),
	)
	defer span.End()

	price, err := s.cb.Execute(func() (asset.Price, error) {
		var ticker tickerPrice
		if err := s.client.GetJSON(ctx, tickerPriceEndpoint, url.Values{"symbol": {s.symbol}}, &ticker); err != nil {
			return asset.Price{}, err
		}
		p, err := asset.ParsePrice(ticker.Price)
		if err != nil {
			return asset.Price{}, apperror.External(apperror.CodeSpotPriceUnavailable,
				fmt.Sprintf("unparseable price %q for %s", ticker.Price, s.symbol), err)
		}
		if p.IsZero() {
			return asset.Price{}, apperror.External(apperror.CodeSpotPriceUnavailable, "zero price for "+s.symbol, nil)
		}
		return p, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "spot price")
		s.logger.Warn(ctx, "spot price unavailable", "symbol", s.symbol, "error", err)
		if apperror.GetCode(err) == apperror.CodeExternalServiceError {
			return asset.Price{}, apperror.External(apperror.CodeSpotPriceUnavailable, s.symbol, err)
		}
		return asset.Price{}, err
	}

	span.SetAttributes(attribute.String("price", price.String()))
	s.logger.Debug(ctx, "fetched spot price", "symbol", s.symbol, "price", price.String())
	return price, nil
}
