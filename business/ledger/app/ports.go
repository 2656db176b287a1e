// Package app contains the ledger reading service and its ports.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
)

// ChainReader reads futarchy contracts. Every read takes the block it must be
// answered at so a caller can pin several reads to one state.
type ChainReader interface {
	// BlockNumber returns the latest block.
	BlockNumber(ctx context.Context) (uint64, error)

	// OutcomeToken returns the wrapped ERC20 for one of the proposal's outcomes.
	OutcomeToken(ctx context.Context, proposal common.Address, index domain.OutcomeIndex, block uint64) (common.Address, error)

	// PoolByPair returns the pool for a token pair, or the zero address.
	PoolByPair(ctx context.Context, tokenA, tokenB common.Address, block uint64) (common.Address, error)

	// PoolState reads price, fee, liquidity and token order of a pool.
	PoolState(ctx context.Context, pool common.Address, block uint64) (*domain.PoolState, error)

	// TokenMetadata reads an ERC20's symbol and decimals.
	TokenMetadata(ctx context.Context, token common.Address) (symbol string, decimals uint8, err error)
}
