package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

func TestServer_Health(t *testing.T) {
	s := NewServer(0, "v1", logger.NewNop())
	s.RegisterCheck("registry", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Version != "v1" || !got.Checks["registry"].Healthy {
		t.Errorf("unexpected status %+v", got)
	}

	s.RegisterCheck("ledger", func(context.Context) error { return errors.New("rpc down") })

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	json.NewDecoder(rec.Body).Decode(&got)
	if got.Status != "degraded" || got.Checks["ledger"].Message != "rpc down" {
		t.Errorf("unexpected status %+v", got)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d", rec.Code)
	}
}

func TestServer_Live(t *testing.T) {
	s := NewServer(0, "", logger.NewNop())
	s.RegisterCheck("ledger", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "alive" {
		t.Errorf("live = %d %q", rec.Code, rec.Body.String())
	}
}
