// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// PoolReader resolves one of a proposal's conditional pools. A missing pool
// is reported as curve.ErrPoolNotFound.
type PoolReader interface {
	ReadPool(ctx context.Context, proposal common.Address, yes bool) (*curve.CurvePool, error)
}

// SpotSource supplies an exogenous spot price for the underlying asset.
type SpotSource interface {
	SpotPrice(ctx context.Context) (asset.Price, error)
}
