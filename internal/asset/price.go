package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// PricePrecision is the number of fractional digits in a Price.
const PricePrecision = 18

var (
	pricePrecisionMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(PricePrecision), nil)
	precisionSquared         = new(big.Int).Mul(pricePrecisionMultiplier, pricePrecisionMultiplier)

	ErrNegativePrice = errors.New("asset: negative price")
)

// Price is an unsigned 18-decimal fixed-point exchange rate in human units
// (quote per one base). 107.5 is stored as 107500000000000000000.
type Price struct {
	rate *big.Int
}

// NewPriceFromWad wraps a raw 18-decimal value.
func NewPriceFromWad(rate *big.Int) (Price, error) {
	if rate == nil {
		return Price{rate: new(big.Int)}, nil
	}
	if rate.Sign() < 0 {
		return Price{}, ErrNegativePrice
	}
	return Price{rate: new(big.Int).Set(rate)}, nil
}

// MustPriceFromWad panics on a negative rate.
func MustPriceFromWad(rate *big.Int) Price {
	p, err := NewPriceFromWad(rate)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePrice parses a human decimal string such as "107" or "0.1194".
// Digits beyond 18 decimals are rejected rather than rounded.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("asset: invalid price %q: %w", s, err)
	}
	return PriceFromDecimal(d)
}

// PriceFromDecimal scales a decimal to 18 places.
func PriceFromDecimal(d decimal.Decimal) (Price, error) {
	if d.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	scaled := d.Shift(PricePrecision)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Price{}, fmt.Errorf("%w: price has more than %d decimals", ErrTooManyDecimals, PricePrecision)
	}
	return Price{rate: scaled.BigInt()}, nil
}

// Wad returns a copy of the raw 18-decimal value.
func (p Price) Wad() *big.Int {
	if p.rate == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.rate)
}

// Rate returns the price as a decimal for display.
func (p Price) Rate() decimal.Decimal {
	if p.rate == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.rate, -PricePrecision)
}

func (p Price) IsZero() bool {
	return p.rate == nil || p.rate.Sign() == 0
}

func (p Price) Cmp(other Price) int {
	return p.Wad().Cmp(other.Wad())
}

// Invert returns 1/p rounded down. The zero price inverts to zero.
func (p Price) Invert() Price {
	if p.IsZero() {
		return Price{rate: new(big.Int)}
	}
	return Price{rate: new(big.Int).Quo(precisionSquared, p.rate)}
}

// String returns the decimal rendering.
func (p Price) String() string {
	return p.Rate().String()
}

// MarshalText renders the raw 18-decimal integer so fixed-point values
// round-trip exactly through JSON.
func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.Wad().String()), nil
}

// UnmarshalText accepts the raw 18-decimal integer form.
func (p *Price) UnmarshalText(b []byte) error {
	v, ok := new(big.Int).SetString(string(b), 10)
	if !ok {
		return fmt.Errorf("asset: invalid fixed-point price %q", string(b))
	}
	np, err := NewPriceFromWad(v)
	if err != nil {
		return err
	}
	*p = np
	return nil
}
