package domain

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

// TargetDelta is the signed token flow that moves a pool to a target price.
// Positive amounts enter the pool, negative amounts leave it.
//
// SqrtPriceTo is where an exact-input swap of the solved amount stops. It
// equals SqrtPriceTarget unless the target lies inside a liquidity gap: the
// gap costs nothing to cross, so the swap halts at the edge of the last range
// it drained and only a swap with a price limit reaches the target itself.
type TargetDelta struct {
	Amount0         *big.Int
	Amount1         *big.Int
	SqrtPriceFrom   *uint256.Int
	SqrtPriceTo     *uint256.Int
	SqrtPriceTarget *uint256.Int
	RangesCrossed   int
}

// InGap reports whether the target lies in a range without liquidity.
func (d TargetDelta) InGap() bool {
	return !d.SqrtPriceTo.Eq(d.SqrtPriceTarget)
}

// Direction reports which side enters the pool. Zero deltas report ZeroForOne.
func (d TargetDelta) Direction() Direction {
	if d.Amount1.Sign() > 0 {
		return OneForZero
	}
	return ZeroForOne
}

// IsZero reports whether the pool already sits at the target.
func (d TargetDelta) IsZero() bool {
	return d.Amount0.Sign() == 0 && d.Amount1.Sign() == 0
}

func checkTarget(target *uint256.Int) error {
	if target == nil || target.Lt(fixedpoint.MinSqrtRatio) || target.Gt(fixedpoint.MaxSqrtRatio) {
		return targetUnreachable("target sqrt price outside representable range")
	}
	return nil
}

// SolveToTarget returns the signed deltas (amount0, amount1) that move a
// single-range pool from current to target. The input side is rounded up and
// the output side rounded down, so the pool never loses to rounding.
func SolveToTarget(current, liquidity, target *uint256.Int) (amount0, amount1 *big.Int, err error) {
	if err := fixedpoint.CheckSqrtPrice(current); err != nil {
		return nil, nil, err
	}
	if err := fixedpoint.CheckLiquidity(liquidity); err != nil {
		return nil, nil, err
	}
	if err := checkTarget(target); err != nil {
		return nil, nil, err
	}
	if target.Eq(current) {
		return new(big.Int), new(big.Int), nil
	}
	if liquidity.IsZero() {
		return nil, nil, targetUnreachable("zero liquidity")
	}
	in, out, err := stepDeltas(current, target, liquidity)
	if err != nil {
		return nil, nil, err
	}
	return signedPair(in, out, target.Lt(current))
}

// stepDeltas returns the rounded-up input and rounded-down output of moving
// from current to target at constant liquidity.
func stepDeltas(current, target, liquidity *uint256.Int) (in, out *uint256.Int, err error) {
	if target.Lt(current) {
		if in, err = Amount0Delta(target, current, liquidity, true); err != nil {
			return nil, nil, err
		}
		out, err = Amount1Delta(target, current, liquidity, false)
		return in, out, err
	}
	if in, err = Amount1Delta(current, target, liquidity, true); err != nil {
		return nil, nil, err
	}
	out, err = Amount0Delta(current, target, liquidity, false)
	return in, out, err
}

// signedPair orders (in, out) magnitudes as signed (amount0, amount1).
func signedPair(in, out *uint256.Int, zeroForOne bool) (amount0, amount1 *big.Int, err error) {
	pos, err := fixedpoint.Signed(in, false)
	if err != nil {
		return nil, nil, err
	}
	neg, err := fixedpoint.Signed(out, true)
	if err != nil {
		return nil, nil, err
	}
	if zeroForOne {
		return pos, neg, nil
	}
	return neg, pos, nil
}

// SolveToTarget walks the pool's ranges from its current price to target and
// sums the deltas, grossing each step's input up by the pool fee. Gaps between
// ranges cost nothing; running past the outermost range is unreachable.
func (p *CurvePool) SolveToTarget(target *uint256.Int) (*TargetDelta, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	delta := &TargetDelta{
		Amount0:       new(big.Int),
		Amount1:       new(big.Int),
		SqrtPriceFrom:   new(uint256.Int).Set(p.SqrtPrice),
		SqrtPriceTo:     new(uint256.Int).Set(target),
		SqrtPriceTarget: new(uint256.Int).Set(target),
	}
	if target.Eq(p.SqrtPrice) {
		return delta, nil
	}
	if !p.IsMultiRange() && p.Liquidity.IsZero() {
		return nil, targetUnreachable("zero liquidity")
	}

	dir := OneForZero
	if target.Lt(p.SqrtPrice) {
		dir = ZeroForOne
	}
	totalIn := new(uint256.Int)
	totalOut := new(uint256.Int)
	current := new(uint256.Int).Set(p.SqrtPrice)
	settled := new(uint256.Int).Set(p.SqrtPrice)

	for !current.Eq(target) {
		seg, ok := p.segmentFrom(current, dir)
		if !ok {
			return nil, targetUnreachable("target lies beyond the outermost liquidity range")
		}
		stepTarget := seg.boundary
		if crossesBoundary(target, seg.boundary, dir) {
			delta.RangesCrossed++
		} else {
			stepTarget = target
		}
		if !seg.liquidity.IsZero() {
			in, out, err := stepDeltas(current, stepTarget, seg.liquidity)
			if err != nil {
				return nil, err
			}
			if in, err = grossUp(in, p.FeePips); err != nil {
				return nil, err
			}
			if totalIn, err = fixedpoint.Add(totalIn, in); err != nil {
				return nil, err
			}
			if totalOut, err = fixedpoint.Add(totalOut, out); err != nil {
				return nil, err
			}
			settled = new(uint256.Int).Set(stepTarget)
		}
		current = new(uint256.Int).Set(stepTarget)
	}
	delta.SqrtPriceTo = settled

	a0, a1, err := signedPair(totalIn, totalOut, dir == ZeroForOne)
	if err != nil {
		return nil, err
	}
	delta.Amount0, delta.Amount1 = a0, a1
	return delta, nil
}

// grossUp adds the fee the pool takes on top of a net input.
func grossUp(net *uint256.Int, feePips uint32) (*uint256.Int, error) {
	if feePips == 0 || net.IsZero() {
		return net, nil
	}
	return fixedpoint.MulDivRoundingUp(net, feeDenominator, uint256.NewInt(uint64(FeeDenominator-feePips)))
}
