package domain

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

// The pool stores sqrt(token1/token0) in raw units. Humans read the outcome
// token priced in the counter token, adjusted for decimals. The two functions
// below are the only place that mapping lives.

// HumanPrice converts a pool-native sqrt price into the outcome token's price
// in counter-token units.
func (p *CurvePool) HumanPrice(sqrtPriceX96 *uint256.Int) (asset.Price, error) {
	if err := fixedpoint.CheckSqrtPrice(sqrtPriceX96); err != nil {
		return asset.Price{}, err
	}
	wad, err := fixedpoint.RatioWadFromSqrtPriceX96(
		sqrtPriceX96,
		fixedpoint.Pow10(p.Token0.Decimals()),
		fixedpoint.Pow10(p.Token1.Decimals()),
		p.IsInverted,
	)
	if err != nil {
		return asset.Price{}, err
	}
	return asset.NewPriceFromWad(wad)
}

// SqrtPriceForHuman converts a human price of the outcome token into the
// pool-native sqrt price. The result is rounded down.
func (p *CurvePool) SqrtPriceForHuman(price asset.Price) (*uint256.Int, error) {
	if price.IsZero() {
		return nil, apperror.Validation(apperror.CodeInvalidTarget, "target price must be positive")
	}
	dec0 := fixedpoint.Pow10(p.Token0.Decimals())
	dec1 := fixedpoint.Pow10(p.Token1.Decimals())
	wad := big.NewInt(1_000_000_000_000_000_000)

	var num, den *big.Int
	if p.IsInverted {
		num = new(big.Int).Mul(wad, dec1)
		den = new(big.Int).Mul(price.Wad(), dec0)
	} else {
		num = new(big.Int).Mul(price.Wad(), dec1)
		den = new(big.Int).Mul(wad, dec0)
	}
	sqrtPrice, err := fixedpoint.SqrtPriceX96FromRatio(num, den)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(sqrtPrice); err != nil {
		return nil, err
	}
	return sqrtPrice, nil
}

// CurrentHumanPrice is HumanPrice at the snapshot's own sqrt price.
func (p *CurvePool) CurrentHumanPrice() (asset.Price, error) {
	return p.HumanPrice(p.SqrtPrice)
}

// DirectionFor returns the swap direction when the outcome token is the
// input (sellOutcome) or the output.
func (p *CurvePool) DirectionFor(sellOutcome bool) Direction {
	if sellOutcome != p.IsInverted {
		return ZeroForOne
	}
	return OneForZero
}
