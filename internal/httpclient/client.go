package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

const (
	defaultDialKeepAlive         = 10 * time.Second
	defaultRequestTimeout        = 10 * time.Second
	defaultMaxConnsPerHost       = 16
	defaultIdleConnTimeout       = 2 * time.Minute
	defaultExpectContinueTimeout = 100 * time.Millisecond

	metricRequestCounter = "http_client_requests_total"
	maxErrorBody         = 512
)

// Client is an instrumented HTTP client. HTTP exposes the underlying
// *http.Client for libraries that dial their own transports.
type Client struct {
	http           *http.Client
	name           string
	baseURL        string
	headers        map[string]string
	requestCounter metric.Int64Counter
	tracer         trace.Tracer
}

// New builds a Client whose transport records OTEL spans and request counts.
func New(opts ...Option) (*Client, error) {
	o := &options{name: "default", timeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(o)
	}

	base := o.transport
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
		}
	}

	meterProvider := o.meterProvider
	if meterProvider == nil {
		meterProvider = otel.GetMeterProvider()
	}
	meter := meterProvider.Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", o.name)),
	)
	counter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http: &http.Client{
			Timeout: o.timeout,
			Transport: otelhttp.NewTransport(base,
				otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
					return otelhttptrace.NewClientTrace(ctx)
				}),
			),
		},
		name:           o.name,
		baseURL:        strings.TrimRight(o.baseURL, "/"),
		headers:        o.headers,
		requestCounter: counter,
		tracer:         otel.Tracer("instrumented_http_client"),
	}, nil
}

// HTTP returns the instrumented *http.Client.
func (c *Client) HTTP() *http.Client {
	return c.http
}

// GetJSON issues a GET against path and decodes a JSON body into out.
// Non-2xx responses become External app errors carrying the body prefix.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "http.get_json",
		trace.WithAttributes(
			attribute.String("provider", c.name),
			attribute.String("url", target),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("bad request url %q", target))
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.count(ctx, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return apperror.External(apperror.CodeExternalServiceError, c.name+" request failed", err)
	}
	defer resp.Body.Close()
	c.count(ctx, resp.StatusCode)
	span.SetAttributes(attribute.Int("status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, resp.Status)
		return apperror.External(apperror.CodeExternalServiceError,
			fmt.Sprintf("%s returned %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return apperror.External(apperror.CodeExternalServiceError, c.name+" returned malformed JSON", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) count(ctx context.Context, status int) {
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.name),
		attribute.Int("status_code", status),
	))
}
