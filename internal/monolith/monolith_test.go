package monolith

import (
	"context"
	"testing"
	"time"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

type recordingModule struct {
	registered bool
	started    bool
}

func (m *recordingModule) RegisterServices(c di.Container) error {
	m.registered = true
	c.Register("recording", m)
	return nil
}

func (m *recordingModule) Startup(_ context.Context, mono Monolith) error {
	m.started = mono.Services().Get("recording") == m
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "test"},
		Ledger: config.LedgerConfig{RPCURL: "http://127.0.0.1:1", CallTimeout: time.Second},
	}
}

func TestMonolith_RegistersAndStartsModules(t *testing.T) {
	a, err := New(testConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	m := &recordingModule{}
	if err := a.RegisterModules(m); err != nil {
		t.Fatalf("RegisterModules: %v", err)
	}
	if err := a.StartModules(context.Background(), m); err != nil {
		t.Fatalf("StartModules: %v", err)
	}
	if !m.registered || !m.started {
		t.Errorf("module registered=%v started=%v", m.registered, m.started)
	}
	if a.Services().Get("config").(*config.Config).App.Name != "test" {
		t.Error("config not registered")
	}
	if a.AssetRegistry().Count() == 0 {
		t.Error("asset registry should be pre-populated")
	}
}

func TestMonolith_DialsOnce(t *testing.T) {
	a, err := New(testConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.ethClient != nil {
		t.Fatal("client dialed before first use")
	}
	first, err := a.EthClient()
	if err != nil {
		t.Fatalf("EthClient: %v", err)
	}
	second, _ := a.EthClient()
	if first != second {
		t.Error("EthClient should return the shared client")
	}
}
