// Package ratelimit wraps golang.org/x/time/rate for outbound RPC budgets.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// Limiter throttles calls to an upstream endpoint.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a limiter allowing requestsPerSecond with the given burst.
// A non-positive rate disables limiting.
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Unlimited returns a limiter that never blocks.
func Unlimited() *Limiter {
	return New(0, 0)
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext("waiting for rate limiter"))
	}
	return nil
}

// Allow reports whether a call may happen now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Tokens returns the tokens currently available.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}
