package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/httpclient"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" || r.URL.Query().Get("symbol") != "GNOUSDT" {
			http.Error(w, "unknown symbol", http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Test") != "yes" {
			http.Error(w, "missing header", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"GNOUSDT","price":"107.00000000"}`))
	}))
	defer srv.Close()

	c, err := httpclient.New(
		httpclient.WithName("test"),
		httpclient.WithBaseURL(srv.URL+"/"),
		httpclient.WithHeaders(map[string]string{"X-Test": "yes"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.GetJSON(context.Background(), "/api/v3/ticker/price", url.Values{"symbol": {"GNOUSDT"}}, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Price != "107.00000000" {
		t.Errorf("price = %q", out.Price)
	}

	err = c.GetJSON(context.Background(), "/api/v3/ticker/price", url.Values{"symbol": {"NOPE"}}, &out)
	if apperror.GetCode(err) != apperror.CodeExternalServiceError {
		t.Errorf("err = %v, want external service error", err)
	}
}

func TestHTTPIsInstrumented(t *testing.T) {
	c, err := httpclient.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.HTTP() == nil || c.HTTP().Transport == nil {
		t.Fatal("expected an instrumented transport")
	}
}
