package domain

import (
	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

// Amount0Delta returns the token0 moved between two sqrt prices at liquidity L:
// L * 2^96 * (sqrtB - sqrtA) / (sqrtA * sqrtB). The bounds may come in any order.
func Amount0Delta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtA.Gt(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	if sqrtA.IsZero() {
		return nil, fixedpoint.ErrInvalidSqrt
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, fixedpoint.Resolution)
	numerator2 := new(uint256.Int).Sub(sqrtB, sqrtA)

	if roundUp {
		q, err := fixedpoint.MulDivRoundingUp(numerator1, numerator2, sqrtB)
		if err != nil {
			return nil, err
		}
		return fixedpoint.DivRoundingUp(q, sqrtA)
	}
	q, err := fixedpoint.MulDiv(numerator1, numerator2, sqrtB)
	if err != nil {
		return nil, err
	}
	return q.Div(q, sqrtA), nil
}

// Amount1Delta returns the token1 moved between two sqrt prices at liquidity L:
// L * (sqrtB - sqrtA) / 2^96.
func Amount1Delta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtA.Gt(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	diff := new(uint256.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return fixedpoint.MulDivRoundingUp(liquidity, diff, fixedpoint.Q96)
	}
	return fixedpoint.MulDiv(liquidity, diff, fixedpoint.Q96)
}

// nextSqrtPriceFromAmount0 moves the price by a token0 amount, rounding up so
// the price never moves further than the amount pays for.
func nextSqrtPriceFromAmount0(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int).Set(sqrtP), nil
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, fixedpoint.Resolution)
	product, productOverflow := new(uint256.Int).MulOverflow(amount, sqrtP)

	if add {
		if !productOverflow {
			denominator, over := new(uint256.Int).AddOverflow(numerator1, product)
			if !over {
				return fixedpoint.MulDivRoundingUp(numerator1, sqrtP, denominator)
			}
		}
		// numerator1 / (numerator1/sqrtP + amount), which stays in range for huge amounts
		alt, err := fixedpoint.Add(new(uint256.Int).Div(numerator1, sqrtP), amount)
		if err != nil {
			return nil, err
		}
		return fixedpoint.DivRoundingUp(numerator1, alt)
	}

	if productOverflow || !numerator1.Gt(product) {
		return nil, insufficientLiquidity("token0 output exceeds virtual reserves")
	}
	denominator := new(uint256.Int).Sub(numerator1, product)
	next, err := fixedpoint.MulDivRoundingUp(numerator1, sqrtP, denominator)
	if err != nil {
		return nil, insufficientLiquidity("token0 output moves price past representable range")
	}
	return next, nil
}

// nextSqrtPriceFromAmount1 moves the price by a token1 amount, rounding down.
func nextSqrtPriceFromAmount1(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if add {
		var quotient *uint256.Int
		if !amount.Gt(fixedpoint.MaxUint160) {
			quotient = new(uint256.Int).Lsh(amount, fixedpoint.Resolution)
			quotient.Div(quotient, liquidity)
		} else {
			q, err := fixedpoint.MulDiv(amount, fixedpoint.Q96, liquidity)
			if err != nil {
				return nil, err
			}
			quotient = q
		}
		return fixedpoint.Add(sqrtP, quotient)
	}

	var quotient *uint256.Int
	var err error
	if !amount.Gt(fixedpoint.MaxUint160) {
		quotient, err = fixedpoint.DivRoundingUp(new(uint256.Int).Lsh(amount, fixedpoint.Resolution), liquidity)
	} else {
		quotient, err = fixedpoint.MulDivRoundingUp(amount, fixedpoint.Q96, liquidity)
	}
	if err != nil {
		return nil, err
	}
	if !sqrtP.Gt(quotient) {
		return nil, insufficientLiquidity("token1 output exceeds virtual reserves")
	}
	return new(uint256.Int).Sub(sqrtP, quotient), nil
}

// NextSqrtPriceFromInput returns the price after amountIn enters the pool.
func NextSqrtPriceFromInput(sqrtP, liquidity, amountIn *uint256.Int, dir Direction) (*uint256.Int, error) {
	if liquidity.IsZero() {
		return nil, insufficientLiquidity("zero liquidity")
	}
	if dir == ZeroForOne {
		return nextSqrtPriceFromAmount0(sqrtP, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1(sqrtP, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput returns the price after amountOut leaves the pool.
func NextSqrtPriceFromOutput(sqrtP, liquidity, amountOut *uint256.Int, dir Direction) (*uint256.Int, error) {
	if liquidity.IsZero() {
		return nil, insufficientLiquidity("zero liquidity")
	}
	if dir == ZeroForOne {
		return nextSqrtPriceFromAmount1(sqrtP, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0(sqrtP, liquidity, amountOut, false)
}
