package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/ratelimit"
)

func TestBurst(t *testing.T) {
	l := ratelimit.New(1, 2)
	if !l.Allow() || !l.Allow() {
		t.Fatal("burst of two should be allowed")
	}
	if l.Allow() {
		t.Fatal("third call within a second should be throttled")
	}
}

func TestWaitCancelled(t *testing.T) {
	l := ratelimit.New(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	if err == nil {
		t.Fatal("expected wait to fail")
	}
	if !errors.Is(err, apperror.New(apperror.CodeRateLimitExceeded)) {
		t.Errorf("err = %v, want rate limit code", err)
	}
}

func TestUnlimited(t *testing.T) {
	l := ratelimit.Unlimited()
	for i := 0; i < 1000; i++ {
		if !l.Allow() {
			t.Fatalf("call %d throttled", i)
		}
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
}
