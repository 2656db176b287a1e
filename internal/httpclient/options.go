// Package httpclient provides an HTTP client instrumented with OTEL tracing and metrics.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
)

type options struct {
	name          string
	baseURL       string
	timeout       time.Duration
	transport     http.RoundTripper
	headers       map[string]string
	meterProvider metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithName labels metrics and spans with the upstream's name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithBaseURL sets the URL that request paths are joined to.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithTransport replaces the base transport under the OTEL wrapper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithHeaders sets headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
