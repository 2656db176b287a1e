// Package domain holds the concentrated-liquidity curve: pool snapshots,
// swap pricing and the target-price solver. Everything here is pure and
// works in the pool's native token0/token1 orientation.
package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

// FeeDenominator expresses fees in hundredths of a basis point.
const FeeDenominator = 1_000_000

// Direction selects which token enters the pool.
type Direction int

const (
	// ZeroForOne sells token0 into the pool; the sqrt price falls.
	ZeroForOne Direction = iota
	// OneForZero sells token1 into the pool; the sqrt price rises.
	OneForZero
)

func (d Direction) String() string {
	if d == ZeroForOne {
		return "token0->token1"
	}
	return "token1->token0"
}

// LiquidityRange is a sqrt-price interval [Lower, Upper) with constant liquidity.
type LiquidityRange struct {
	Lower     *uint256.Int
	Upper     *uint256.Int
	Liquidity *uint256.Int
}

// CurvePool is an immutable snapshot of one pool, built per request.
//
// When Ranges is empty the pool is modeled as a single range spanning every
// representable price with Liquidity. When Ranges is set it takes precedence;
// prices between ranges carry no liquidity and are crossed at no cost.
type CurvePool struct {
	Address common.Address
	Token0  *asset.Asset
	Token1  *asset.Asset

	// IsInverted is true when the outcome (company) token is token1.
	IsInverted bool

	SqrtPrice *uint256.Int
	Liquidity *uint256.Int
	FeePips   uint32
	Ranges    []LiquidityRange
}

// Validate checks the snapshot is usable by the curve math.
func (p *CurvePool) Validate() error {
	if p == nil {
		return apperror.NotFound(apperror.CodePoolNotFound, "nil pool")
	}
	if p.Token0 == nil || p.Token1 == nil {
		return apperror.Validation(apperror.CodeInvalidInput, "pool tokens are required")
	}
	if err := fixedpoint.CheckSqrtPrice(p.SqrtPrice); err != nil {
		return err
	}
	if err := fixedpoint.CheckLiquidity(p.Liquidity); err != nil {
		return err
	}
	if p.FeePips >= FeeDenominator {
		return apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("fee %d pips must be below %d", p.FeePips, FeeDenominator))
	}
	return validateRanges(p.Ranges)
}

func validateRanges(ranges []LiquidityRange) error {
	for i, r := range ranges {
		if r.Lower == nil || r.Upper == nil || r.Liquidity == nil {
			return apperror.Validation(apperror.CodeInvalidRanges, fmt.Sprintf("range %d is incomplete", i))
		}
		if !r.Lower.Lt(r.Upper) {
			return apperror.Validation(apperror.CodeInvalidRanges, fmt.Sprintf("range %d: lower must be below upper", i))
		}
		if r.Lower.Lt(fixedpoint.MinSqrtRatio) || r.Upper.Gt(fixedpoint.MaxSqrtRatio) {
			return apperror.Validation(apperror.CodeInvalidRanges, fmt.Sprintf("range %d exceeds sqrt price bounds", i))
		}
		if err := fixedpoint.CheckLiquidity(r.Liquidity); err != nil {
			return err
		}
		if i > 0 && ranges[i-1].Upper.Gt(r.Lower) {
			return apperror.Validation(apperror.CodeInvalidRanges, fmt.Sprintf("range %d overlaps or is out of order", i))
		}
	}
	return nil
}

// IsMultiRange reports whether explicit ranges were supplied.
func (p *CurvePool) IsMultiRange() bool {
	return len(p.Ranges) > 0
}

// OutcomeToken is the company-side token whose price is quoted to humans.
func (p *CurvePool) OutcomeToken() *asset.Asset {
	if p.IsInverted {
		return p.Token1
	}
	return p.Token0
}

// CounterToken is the currency-side token.
func (p *CurvePool) CounterToken() *asset.Asset {
	if p.IsInverted {
		return p.Token0
	}
	return p.Token1
}

// segment is the liquidity in force from a price up to boundary in one direction.
type segment struct {
	liquidity *uint256.Int
	boundary  *uint256.Int
}

// segmentFrom returns the liquidity that applies when moving away from price
// in dir, and where it ends. ok is false once no range lies beyond price.
func (p *CurvePool) segmentFrom(price *uint256.Int, dir Direction) (segment, bool) {
	if !p.IsMultiRange() {
		if dir == ZeroForOne {
			if !price.Gt(fixedpoint.MinSqrtRatio) {
				return segment{}, false
			}
			return segment{liquidity: p.Liquidity, boundary: fixedpoint.MinSqrtRatio}, true
		}
		if !price.Lt(fixedpoint.MaxSqrtRatio) {
			return segment{}, false
		}
		return segment{liquidity: p.Liquidity, boundary: fixedpoint.MaxSqrtRatio}, true
	}

	zero := new(uint256.Int)
	if dir == ZeroForOne {
		// walk down: find the range with Lower < price <= Upper, else the nearest Upper below price
		for i := len(p.Ranges) - 1; i >= 0; i-- {
			r := p.Ranges[i]
			if r.Lower.Lt(price) && !price.Gt(r.Upper) {
				return segment{liquidity: r.Liquidity, boundary: r.Lower}, true
			}
			if r.Upper.Lt(price) {
				return segment{liquidity: zero, boundary: r.Upper}, true
			}
		}
		return segment{}, false
	}

	for _, r := range p.Ranges {
		if !price.Lt(r.Lower) && price.Lt(r.Upper) {
			return segment{liquidity: r.Liquidity, boundary: r.Upper}, true
		}
		if r.Lower.Gt(price) {
			return segment{liquidity: zero, boundary: r.Lower}, true
		}
	}
	return segment{}, false
}

// ActiveLiquidity returns the liquidity in force at the current price.
func (p *CurvePool) ActiveLiquidity() *uint256.Int {
	if !p.IsMultiRange() {
		return p.Liquidity
	}
	for _, r := range p.Ranges {
		if !p.SqrtPrice.Lt(r.Lower) && p.SqrtPrice.Lt(r.Upper) {
			return r.Liquidity
		}
	}
	return new(uint256.Int)
}
