// Package app contains the arbitrage simulation service and its ports.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	ledger "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// ProposalReader resolves a proposal's YES and NO pools at one block.
type ProposalReader interface {
	ReadProposalPools(ctx context.Context, proposal common.Address) (*ledger.ProposalPools, error)
}

// SpotSource supplies the exogenous spot price when a request omits it.
type SpotSource interface {
	SpotPrice(ctx context.Context) (asset.Price, error)
}
