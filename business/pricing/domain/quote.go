package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// QuoteRequest asks what a swap of Amount of the input token returns.
// IsInputCompanyToken selects whether the outcome token is sold into the
// pool or bought out of it with the counter token.
type QuoteRequest struct {
	Proposal            common.Address
	IsYesPool           bool
	IsInputCompanyToken bool
	// Amount is in human units of the input token.
	Amount decimal.Decimal
	// Slippage is a fraction in [0, 1).
	Slippage decimal.Decimal
}

// SlippageWad validates the tolerance and scales it to 18 decimals.
func (r QuoteRequest) SlippageWad() (*uint256.Int, error) {
	if r.Slippage.IsNegative() || r.Slippage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, apperror.Validation(apperror.CodeInvalidSlippage,
			"slippage must be in [0, 1), got "+r.Slippage.String())
	}
	scaled := r.Slippage.Shift(asset.PricePrecision)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, apperror.Validation(apperror.CodeInvalidSlippage, "slippage has more than 18 decimals")
	}
	v, _ := uint256.FromBig(scaled.BigInt())
	return v, nil
}

// Side names the pool a request targets.
func (r QuoteRequest) Side() string {
	if r.IsYesPool {
		return "YES"
	}
	return "NO"
}

// QuoteResult reports a swap quote and the prices needed to audit it.
// Prices are the outcome token priced in the counter token.
type QuoteResult struct {
	Pool      common.Address
	Block     uint64
	Direction curve.Direction

	AmountIn        asset.Amount
	ExpectedReceive asset.Amount
	MinReceive      asset.Amount
	FeeAmount       *big.Int

	// ExecutionPrice is amountOut / amountIn in human units, for display only.
	// When the outcome token is bought it is outcome per counter, the inverse
	// of the pool prices below.
	ExecutionPrice   decimal.Decimal
	// EffectivePrice is the average counter paid or received per outcome
	// token. Before fees it lies between CurrentPoolPrice and PriceAfter.
	EffectivePrice   decimal.Decimal
	CurrentPoolPrice asset.Price
	PriceAfter       asset.Price
	StartSqrtPrice   *uint256.Int
	SqrtPriceAfter   *uint256.Int
	RawAmountOut     *big.Int
	RangesCrossed    int

	PriceImpact PriceImpact
}

// TokenIn is the asset paid into the pool.
func (q *QuoteResult) TokenIn() *asset.Asset {
	return q.AmountIn.Asset()
}

// TokenOut is the asset received from the pool.
func (q *QuoteResult) TokenOut() *asset.Asset {
	return q.ExpectedReceive.Asset()
}
