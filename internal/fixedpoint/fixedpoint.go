// Package fixedpoint implements overflow-checked 256-bit integer math for
// Q64.96 sqrt prices and 18-decimal token amounts. Every operation either
// returns an exact (or explicitly rounded) result or an error; nothing wraps.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// Resolution is the number of fractional bits in a Q64.96 value.
const Resolution = 96

var (
	// Q96 is 2^96, the fixed-point one of a sqrt price.
	Q96 = new(uint256.Int).Lsh(uint256.NewInt(1), Resolution)

	// WAD is 10^18, the fixed-point one of an 18-decimal value.
	WAD = uint256.NewInt(1_000_000_000_000_000_000)

	MaxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	MaxUint160 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 160), uint256.NewInt(1))

	// MinSqrtRatio and MaxSqrtRatio bound the sqrt prices a pool can hold.
	MinSqrtRatio = uint256.NewInt(4295128739)
	MaxSqrtRatio = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")

	maxInt256    = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minInt256Abs = new(big.Int).Lsh(big.NewInt(1), 255)
)

// Sentinels for errors.Is; returned errors carry their own context.
var (
	ErrOverflow       = apperror.New(apperror.CodeOverflow)
	ErrDivisionByZero = apperror.New(apperror.CodeDivisionByZero)
	ErrInvalidSqrt    = apperror.New(apperror.CodeInvalidSqrtPrice)
)

func overflow(op string) error {
	return apperror.Unprocessable(apperror.CodeOverflow, op)
}

func divByZero(op string) error {
	return apperror.Validation(apperror.CodeDivisionByZero, op)
}

// Add returns a+b.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, over := new(uint256.Int).AddOverflow(a, b)
	if over {
		return nil, overflow("add")
	}
	return z, nil
}

// Sub returns a-b and fails on underflow.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, under := new(uint256.Int).SubOverflow(a, b)
	if under {
		return nil, overflow("sub underflow")
	}
	return z, nil
}

// Mul returns a*b.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, over := new(uint256.Int).MulOverflow(a, b)
	if over {
		return nil, overflow("mul")
	}
	return z, nil
}

// MulDiv returns floor(a*b/d) using a 512-bit intermediate product.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, divByZero("mulDiv")
	}
	z, over := new(uint256.Int).MulDivOverflow(a, b, d)
	if over {
		return nil, overflow("mulDiv")
	}
	return z, nil
}

// MulDivRoundingUp returns ceil(a*b/d).
func MulDivRoundingUp(a, b, d *uint256.Int) (*uint256.Int, error) {
	z, err := MulDiv(a, b, d)
	if err != nil {
		return nil, err
	}
	if new(uint256.Int).MulMod(a, b, d).IsZero() {
		return z, nil
	}
	if z.Eq(MaxUint256()) {
		return nil, overflow("mulDivRoundingUp")
	}
	return z.AddUint64(z, 1), nil
}

// DivRoundingUp returns ceil(a/d).
func DivRoundingUp(a, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, divByZero("divRoundingUp")
	}
	q, r := new(uint256.Int).DivMod(a, d, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q, nil
}

// Sqrt returns floor(sqrt(x)), exact for perfect squares.
func Sqrt(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(x)
}

// MaxUint256 returns 2^256-1.
func MaxUint256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

// FromBig converts a non-negative big.Int, failing when it exceeds 256 bits.
func FromBig(x *big.Int) (*uint256.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "negative or nil value")
	}
	z, over := uint256.FromBig(x)
	if over {
		return nil, overflow("value exceeds 256 bits")
	}
	return z, nil
}

// Signed converts an unsigned magnitude to a signed int256 value.
func Signed(magnitude *uint256.Int, negative bool) (*big.Int, error) {
	v := magnitude.ToBig()
	if negative {
		if v.Cmp(minInt256Abs) > 0 {
			return nil, overflow("int256 underflow")
		}
		return v.Neg(v), nil
	}
	if v.Cmp(maxInt256) > 0 {
		return nil, overflow("int256 overflow")
	}
	return v, nil
}

// CheckInt256 reports whether x is representable as an int256.
func CheckInt256(x *big.Int) error {
	if x.Sign() >= 0 && x.Cmp(maxInt256) > 0 {
		return overflow("int256 overflow")
	}
	if x.Sign() < 0 && new(big.Int).Neg(x).Cmp(minInt256Abs) > 0 {
		return overflow("int256 underflow")
	}
	return nil
}

// CheckSqrtPrice validates that a sqrt price lies in [MinSqrtRatio, MaxSqrtRatio].
func CheckSqrtPrice(sqrtPriceX96 *uint256.Int) error {
	if sqrtPriceX96 == nil || sqrtPriceX96.Lt(MinSqrtRatio) || sqrtPriceX96.Gt(MaxSqrtRatio) {
		return apperror.Validation(apperror.CodeInvalidSqrtPrice, "sqrt price outside [MIN_SQRT_RATIO, MAX_SQRT_RATIO]")
	}
	return nil
}

// CheckLiquidity validates that liquidity fits in uint128.
func CheckLiquidity(liquidity *uint256.Int) error {
	if liquidity == nil || liquidity.Gt(MaxUint128) {
		return apperror.Validation(apperror.CodeInvalidLiquidity, "liquidity must be a uint128")
	}
	return nil
}
