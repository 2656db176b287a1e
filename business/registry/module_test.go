package registry

import (
	"testing"

	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/infra/memory"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/config"
)

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.RegistryConfig{Backend: config.RegistryMemory})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Errorf("memory backend returned %T", store)
	}

	_, err = NewStore(config.RegistryConfig{Backend: config.RegistryPostgres})
	if apperror.GetCode(err) != apperror.CodeConfigurationError {
		t.Errorf("postgres without dsn: code = %s", apperror.GetCode(err))
	}
}
