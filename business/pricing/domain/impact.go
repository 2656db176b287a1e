// Package domain contains the core domain types for the pricing context.
package domain

import "github.com/shopspring/decimal"

// PriceImpact is how far a swap moves the pool's human price.
type PriceImpact struct {
	Before      decimal.Decimal
	After       decimal.Decimal
	Absolute    decimal.Decimal // After - Before
	BasisPoints decimal.Decimal // (After - Before) / Before * 10000
	Direction   ImpactDirection
}

// ImpactDirection indicates which way the outcome token's price moved.
type ImpactDirection string

const (
	ImpactUp   ImpactDirection = "UP"
	ImpactDown ImpactDirection = "DOWN"
	ImpactNone ImpactDirection = "NONE"
)

// CalculatePriceImpact compares the outcome token's price before and after a trade.
func CalculatePriceImpact(before, after decimal.Decimal) PriceImpact {
	absolute := after.Sub(before)
	bps := decimal.Zero
	if !before.IsZero() {
		bps = absolute.Div(before).Mul(decimal.NewFromInt(10000))
	}

	var direction ImpactDirection
	switch {
	case absolute.IsPositive():
		direction = ImpactUp
	case absolute.IsNegative():
		direction = ImpactDown
	default:
		direction = ImpactNone
	}

	return PriceImpact{
		Before:      before,
		After:       after,
		Absolute:    absolute,
		BasisPoints: bps,
		Direction:   direction,
	}
}

// Fraction returns the impact as a plain fraction (bps / 10000).
func (p PriceImpact) Fraction() decimal.Decimal {
	return p.BasisPoints.Div(decimal.NewFromInt(10000))
}
