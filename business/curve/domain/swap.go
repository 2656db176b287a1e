package domain

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

// SwapResult describes a priced swap against a pool snapshot.
type SwapResult struct {
	Direction       Direction
	AmountIn        *uint256.Int // gross input including the fee
	AmountOut       *uint256.Int
	FeeAmount       *uint256.Int
	SqrtPriceBefore *uint256.Int
	SqrtPriceAfter  *uint256.Int
	RangesCrossed   int
}

func checkCurveInputs(sqrtP, liquidity, amount *uint256.Int) error {
	if err := fixedpoint.CheckSqrtPrice(sqrtP); err != nil {
		return err
	}
	if err := fixedpoint.CheckLiquidity(liquidity); err != nil {
		return err
	}
	if amount == nil {
		return apperror.Validation(apperror.CodeInvalidAmount, "amount is required")
	}
	return nil
}

func checkReachable(next *uint256.Int) error {
	if next.Lt(fixedpoint.MinSqrtRatio) || next.Gt(fixedpoint.MaxSqrtRatio) {
		return insufficientLiquidity("swap moves price past representable range")
	}
	return nil
}

// AmountOutForExactIn prices an exact-input swap within a single range.
// The output is rounded down and the price after is rounded in the pool's favor.
func AmountOutForExactIn(amountIn, sqrtP, liquidity *uint256.Int, dir Direction) (amountOut, sqrtAfter *uint256.Int, err error) {
	if err := checkCurveInputs(sqrtP, liquidity, amountIn); err != nil {
		return nil, nil, err
	}
	if amountIn.IsZero() {
		return new(uint256.Int), new(uint256.Int).Set(sqrtP), nil
	}
	next, err := NextSqrtPriceFromInput(sqrtP, liquidity, amountIn, dir)
	if err != nil {
		return nil, nil, err
	}
	if err := checkReachable(next); err != nil {
		return nil, nil, err
	}
	if dir == ZeroForOne {
		amountOut, err = Amount1Delta(next, sqrtP, liquidity, false)
	} else {
		amountOut, err = Amount0Delta(sqrtP, next, liquidity, false)
	}
	if err != nil {
		return nil, nil, err
	}
	return amountOut, next, nil
}

// AmountInForExactOut prices an exact-output swap within a single range.
// The required input is rounded up.
func AmountInForExactOut(amountOut, sqrtP, liquidity *uint256.Int, dir Direction) (amountIn, sqrtAfter *uint256.Int, err error) {
	if err := checkCurveInputs(sqrtP, liquidity, amountOut); err != nil {
		return nil, nil, err
	}
	if amountOut.IsZero() {
		return new(uint256.Int), new(uint256.Int).Set(sqrtP), nil
	}
	next, err := NextSqrtPriceFromOutput(sqrtP, liquidity, amountOut, dir)
	if err != nil {
		return nil, nil, err
	}
	if err := checkReachable(next); err != nil {
		return nil, nil, err
	}
	if dir == ZeroForOne {
		amountIn, err = Amount0Delta(next, sqrtP, liquidity, true)
	} else {
		amountIn, err = Amount1Delta(sqrtP, next, liquidity, true)
	}
	if err != nil {
		return nil, nil, err
	}
	return amountIn, next, nil
}

// PriceAfterExactIn returns only the price after an exact-input swap.
func PriceAfterExactIn(amountIn, sqrtP, liquidity *uint256.Int, dir Direction) (*uint256.Int, error) {
	_, next, err := AmountOutForExactIn(amountIn, sqrtP, liquidity, dir)
	return next, err
}

// swapStep is one leg of a swap that stays inside a single liquidity segment.
type swapStep struct {
	sqrtNext  *uint256.Int
	amountIn  *uint256.Int
	amountOut *uint256.Int
	feeAmount *uint256.Int
}

var feeDenominator = uint256.NewInt(FeeDenominator)

// computeSwapStep spends up to remaining (gross of fee) moving from current
// toward target at constant liquidity.
func computeSwapStep(current, target, liquidity, remaining *uint256.Int, feePips uint32) (swapStep, error) {
	dir := OneForZero
	if !current.Lt(target) {
		dir = ZeroForOne
	}
	feeComplement := uint256.NewInt(uint64(FeeDenominator - feePips))
	remainingLessFee, err := fixedpoint.MulDiv(remaining, feeComplement, feeDenominator)
	if err != nil {
		return swapStep{}, err
	}

	// An overflowing amount to reach target means the remaining input can never get there.
	reachable := true
	var toTarget *uint256.Int
	if dir == ZeroForOne {
		toTarget, err = Amount0Delta(target, current, liquidity, true)
	} else {
		toTarget, err = Amount1Delta(current, target, liquidity, true)
	}
	if err != nil {
		if !errors.Is(err, fixedpoint.ErrOverflow) {
			return swapStep{}, err
		}
		reachable = false
	}

	step := swapStep{}
	if reachable && !remainingLessFee.Lt(toTarget) {
		step.sqrtNext = new(uint256.Int).Set(target)
	} else {
		step.sqrtNext, err = NextSqrtPriceFromInput(current, liquidity, remainingLessFee, dir)
		if err != nil {
			return swapStep{}, err
		}
	}
	hitTarget := step.sqrtNext.Eq(target)

	if dir == ZeroForOne {
		if hitTarget {
			step.amountIn = toTarget
		} else if step.amountIn, err = Amount0Delta(step.sqrtNext, current, liquidity, true); err != nil {
			return swapStep{}, err
		}
		step.amountOut, err = Amount1Delta(step.sqrtNext, current, liquidity, false)
	} else {
		if hitTarget {
			step.amountIn = toTarget
		} else if step.amountIn, err = Amount1Delta(current, step.sqrtNext, liquidity, true); err != nil {
			return swapStep{}, err
		}
		step.amountOut, err = Amount0Delta(current, step.sqrtNext, liquidity, false)
	}
	if err != nil {
		return swapStep{}, err
	}

	if !hitTarget {
		step.feeAmount = new(uint256.Int).Sub(remaining, step.amountIn)
	} else if feePips == 0 {
		step.feeAmount = new(uint256.Int)
	} else if step.feeAmount, err = fixedpoint.MulDivRoundingUp(step.amountIn, uint256.NewInt(uint64(feePips)), feeComplement); err != nil {
		return swapStep{}, err
	}
	return step, nil
}

// SwapExactIn prices selling amountIn of the input token into the pool,
// walking across ranges and charging the pool fee on the input.
func (p *CurvePool) SwapExactIn(amountIn *uint256.Int, dir Direction) (*SwapResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if amountIn == nil {
		return nil, apperror.Validation(apperror.CodeInvalidAmount, "amount is required")
	}
	res := &SwapResult{
		Direction:       dir,
		AmountIn:        new(uint256.Int).Set(amountIn),
		AmountOut:       new(uint256.Int),
		FeeAmount:       new(uint256.Int),
		SqrtPriceBefore: new(uint256.Int).Set(p.SqrtPrice),
		SqrtPriceAfter:  new(uint256.Int).Set(p.SqrtPrice),
	}
	if amountIn.IsZero() {
		return res, nil
	}
	if !p.IsMultiRange() && p.FeePips == 0 {
		out, next, err := AmountOutForExactIn(amountIn, p.SqrtPrice, p.Liquidity, dir)
		if err != nil {
			return nil, err
		}
		res.AmountOut, res.SqrtPriceAfter = out, next
		return res, nil
	}
	if !p.IsMultiRange() && p.Liquidity.IsZero() {
		return nil, insufficientLiquidity("zero liquidity")
	}

	current := new(uint256.Int).Set(p.SqrtPrice)
	remaining := new(uint256.Int).Set(amountIn)
	for !remaining.IsZero() {
		seg, ok := p.segmentFrom(current, dir)
		if !ok {
			return nil, insufficientLiquidity("input exceeds liquidity across all ranges")
		}
		step, err := computeSwapStep(current, seg.boundary, seg.liquidity, remaining, p.FeePips)
		if err != nil {
			return nil, err
		}
		spent := new(uint256.Int).Add(step.amountIn, step.feeAmount)
		if spent.Gt(remaining) {
			spent.Set(remaining)
		}
		remaining.Sub(remaining, spent)
		res.AmountOut.Add(res.AmountOut, step.amountOut)
		res.FeeAmount.Add(res.FeeAmount, step.feeAmount)
		current = step.sqrtNext
		if current.Eq(seg.boundary) && !remaining.IsZero() {
			res.RangesCrossed++
		}
	}
	if err := checkReachable(current); err != nil {
		return nil, err
	}
	res.SqrtPriceAfter = current
	return res, nil
}

// SwapExactOut prices buying amountOut of the output token from the pool.
// Only single-range pools are supported; the fee is added on top of the input.
func (p *CurvePool) SwapExactOut(amountOut *uint256.Int, dir Direction) (*SwapResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	liquidity := p.ActiveLiquidity()
	in, next, err := AmountInForExactOut(amountOut, p.SqrtPrice, liquidity, dir)
	if err != nil {
		return nil, err
	}
	if p.IsMultiRange() {
		seg, ok := p.segmentFrom(p.SqrtPrice, dir)
		if !ok || crossesBoundary(next, seg.boundary, dir) {
			return nil, insufficientLiquidity("exact output crosses a range boundary")
		}
	}
	fee := new(uint256.Int)
	if p.FeePips > 0 && !in.IsZero() {
		fee, err = fixedpoint.MulDivRoundingUp(in, uint256.NewInt(uint64(p.FeePips)), uint256.NewInt(uint64(FeeDenominator-p.FeePips)))
		if err != nil {
			return nil, err
		}
	}
	gross, err := fixedpoint.Add(in, fee)
	if err != nil {
		return nil, err
	}
	return &SwapResult{
		Direction:       dir,
		AmountIn:        gross,
		AmountOut:       new(uint256.Int).Set(amountOut),
		FeeAmount:       fee,
		SqrtPriceBefore: new(uint256.Int).Set(p.SqrtPrice),
		SqrtPriceAfter:  next,
	}, nil
}

func crossesBoundary(next, boundary *uint256.Int, dir Direction) bool {
	if dir == ZeroForOne {
		return next.Lt(boundary)
	}
	return next.Gt(boundary)
}
