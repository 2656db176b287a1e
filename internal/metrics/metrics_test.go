package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetricProvider_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := NewMetricProvider(
		WithServiceName("test"),
		WithRegisterer(reg),
		WithProviderConfig(ProviderCfg{Provider: PrometheusProvider}),
	)
	if err != nil {
		t.Fatalf("NewMetricProvider: %v", err)
	}
	defer mp.Shutdown(context.Background())

	counter, err := mp.Meter("test").Int64Counter("quotes_total")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "quotes_total") {
		t.Errorf("scrape missing quotes_total:\n%s", body)
	}
}

func TestCollector_Insecure(t *testing.T) {
	tests := []struct {
		endpoint string
		insecure bool
	}{
		{"http://otel-collector:4317", true},
		{"https://otlp.example.com", false},
	}
	for _, tt := range tests {
		cfg := Collector(tt.endpoint, map[string]string{"x-api-key": "k"})
		if cfg.Provider != OtelCollector || cfg.Insecure != tt.insecure || cfg.Headers["x-api-key"] != "k" {
			t.Errorf("Collector(%s) = %+v", tt.endpoint, cfg)
		}
	}
}
