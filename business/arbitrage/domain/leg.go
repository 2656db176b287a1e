package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// Side names one of the two conditional markets.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// ActionKind is what an external trader does with a token.
type ActionKind string

const (
	// Sell means the trader sends the token into the pool.
	Sell ActionKind = "SELL"
	// Buy means the trader receives the token from the pool.
	Buy ActionKind = "BUY"
)

// Action is one human-facing trade instruction.
type Action struct {
	Kind   ActionKind
	Token  common.Address
	Symbol string
	Raw    *big.Int // unsigned
	Amount decimal.Decimal
}

// PoolLeg is one side of an arbitrage simulation. A leg with a zero Pool is
// the not-found sentinel. Deltas follow the pool's perspective: positive
// means the pool receives the token.
type PoolLeg struct {
	Side           Side
	Pool           common.Address
	Token0         common.Address
	Token1         common.Address
	Token0Symbol   string
	Token1Symbol   string
	Token0Decimals uint8
	Token1Decimals uint8
	IsInverted     bool

	Amount0Delta     *big.Int
	Amount1Delta     *big.Int
	CurrentSqrtPrice *uint256.Int
	TargetSqrtPrice  *uint256.Int

	CurrentPriceHuman asset.Price
	TargetPriceHuman  asset.Price

	// TargetInGap is set when the target lies where the pool has no
	// liquidity: trading the deltas stops short of it at the last range edge.
	TargetInGap bool

	// Err is set when the pool could not be read or the leg not solved. It
	// may accompany a zero Pool when the read failed before the address was known.
	Err error
}

// NotFoundLeg returns the sentinel for a missing pool.
func NotFoundLeg(side Side) PoolLeg {
	return PoolLeg{
		Side:             side,
		Amount0Delta:     new(big.Int),
		Amount1Delta:     new(big.Int),
		CurrentSqrtPrice: new(uint256.Int),
		TargetSqrtPrice:  new(uint256.Int),
	}
}

// Found reports whether the leg refers to a real pool.
func (l PoolLeg) Found() bool {
	return l.Pool != (common.Address{})
}

// Actions classifies each non-zero delta as a SELL (delta > 0) or BUY (delta < 0).
func (l PoolLeg) Actions() []Action {
	if !l.Found() || l.Err != nil {
		return nil
	}
	var actions []Action
	if a, ok := action(l.Amount0Delta, l.Token0, l.Token0Symbol, l.Token0Decimals); ok {
		actions = append(actions, a)
	}
	if a, ok := action(l.Amount1Delta, l.Token1, l.Token1Symbol, l.Token1Decimals); ok {
		actions = append(actions, a)
	}
	return actions
}

func action(delta *big.Int, token common.Address, symbol string, decimals uint8) (Action, bool) {
	if delta == nil || delta.Sign() == 0 {
		return Action{}, false
	}
	kind := Sell
	if delta.Sign() < 0 {
		kind = Buy
	}
	raw := new(big.Int).Abs(delta)
	return Action{
		Kind:   kind,
		Token:  token,
		Symbol: symbol,
		Raw:    raw,
		Amount: decimal.NewFromBigInt(raw, -int32(decimals)),
	}, true
}
