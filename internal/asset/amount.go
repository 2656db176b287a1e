package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
)

// Amount is an immutable signed quantity of an asset in its smallest unit.
// A positive amount flows into a pool, a negative one flows out.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount copies raw so later mutation by the caller cannot leak in.
func NewAmount(a *Asset, raw *big.Int) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		raw = new(big.Int)
	}
	return Amount{raw: new(big.Int).Set(raw), asset: a}
}

// Zero creates a zero Amount for the given asset.
func Zero(a *Asset) Amount {
	return NewAmount(a, new(big.Int))
}

// Raw returns a copy of the raw value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

func (a Amount) Asset() *Asset {
	return a.asset
}

func (a Amount) Sign() int {
	if a.raw == nil {
		return 0
	}
	return a.raw.Sign()
}

func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

func (a Amount) IsNegative() bool {
	return a.Sign() < 0
}

// Neg flips the flow direction.
func (a Amount) Neg() Amount {
	return NewAmount(a.asset, new(big.Int).Neg(a.Raw()))
}

// Abs returns the magnitude.
func (a Amount) Abs() Amount {
	return NewAmount(a.asset, new(big.Int).Abs(a.Raw()))
}

// Add adds two amounts of the same asset.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.asset, new(big.Int).Add(a.raw, b.raw)), nil
}

// Sub subtracts b from a; the result may be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.asset, new(big.Int).Sub(a.raw, b.raw)), nil
}

// Cmp compares two amounts of the same asset.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameAsset(b); err != nil {
		return 0, err
	}
	return a.raw.Cmp(b.raw), nil
}

// Equals returns true if both amounts have the same asset and value.
func (a Amount) Equals(b Amount) bool {
	if a.asset == nil || b.asset == nil || !a.asset.Equals(b.asset) {
		return false
	}
	return a.Raw().Cmp(b.Raw()) == 0
}

// -----------------------------------------------------------------------------
// Boundary Functions (decimal conversion - display and parsing only)
// -----------------------------------------------------------------------------

// ToDecimal converts to human units for display. Never feed the result back
// into curve math.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.asset.Decimals()))
}

// ParseDecimal scales a human-unit decimal into raw units. Inputs with more
// fractional digits than the asset supports are rejected, not truncated.
func ParseDecimal(a *Asset, d decimal.Decimal) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}

	scaled := d.Shift(int32(a.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %s has at most %d", ErrTooManyDecimals, a.Symbol(), a.Decimals())
	}

	return NewAmount(a, scaled.BigInt()), nil
}

// ParseString parses a decimal string in human units.
func ParseString(a *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string %q: %w", s, err)
	}
	return ParseDecimal(a, d)
}

// ParsePositiveString parses a strictly positive human-unit amount.
func ParsePositiveString(a *Asset, s string) (Amount, error) {
	amt, err := ParseString(a, s)
	if err != nil {
		return Amount{}, err
	}
	if amt.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return amt, nil
}

// String returns e.g. "-1.5 YES_GNO".
func (a Amount) String() string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.asset.Symbol())
}

// StringFixed renders the magnitude with a fixed number of places.
func (a Amount) StringFixed(places int32) string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().StringFixed(places), a.asset.Symbol())
}

func (a Amount) checkSameAsset(b Amount) error {
	if a.asset == nil || b.asset == nil {
		return ErrNilAsset
	}
	if !a.asset.Equals(b.asset) {
		return fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset.Symbol(), b.asset.Symbol())
	}
	return nil
}
