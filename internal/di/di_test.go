package di_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/di"
)

type greeter struct{ name string }

func TestContainer_FactoryResolvesOnce(t *testing.T) {
	c := di.NewContainer()
	c.Register("name", "yes-pool")

	var calls atomic.Int32
	tok := di.NewToken[*greeter]("test.greeter")
	di.RegisterToken(c, tok, func(sr di.ServiceRegistry) *greeter {
		calls.Add(1)
		return &greeter{name: sr.Get("name").(string)}
	})

	var wg sync.WaitGroup
	results := make([]*greeter, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = di.GetToken(c, tok)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("factory called %d times, want 1", calls.Load())
	}
	for _, g := range results {
		if g != results[0] || g.name != "yes-pool" {
			t.Fatalf("expected a single shared instance, got %+v", g)
		}
	}
}

func TestContainer_UnknownServicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered service")
		}
	}()
	di.NewContainer().Get("missing")
}
