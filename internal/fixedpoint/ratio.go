package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

var wadBig = big.NewInt(1_000_000_000_000_000_000)

// SqrtPriceX96FromRatio returns floor(sqrt(num/den) * 2^96).
// floor(sqrt(floor(y))) equals floor(sqrt(y)) for y >= 0, so the integer
// quotient loses nothing.
func SqrtPriceX96FromRatio(num, den *big.Int) (*uint256.Int, error) {
	if den.Sign() == 0 {
		return nil, divByZero("sqrtPriceFromRatio")
	}
	if num.Sign() < 0 || den.Sign() < 0 {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "ratio must be non-negative")
	}
	q := new(big.Int).Lsh(num, 2*Resolution)
	q.Quo(q, den)
	return FromBig(q.Sqrt(q))
}

// RatioWadFromSqrtPriceX96 returns floor(sqrt^2 / 2^192 * scaleNum / scaleDen * 1e18),
// or its reciprocal when invert is set. The result is an 18-decimal value.
func RatioWadFromSqrtPriceX96(sqrtPriceX96 *uint256.Int, scaleNum, scaleDen *big.Int, invert bool) (*big.Int, error) {
	sq := sqrtPriceX96.ToBig()
	sq.Mul(sq, sq)

	var num, den *big.Int
	if invert {
		if sq.Sign() == 0 {
			return nil, divByZero("invert zero price")
		}
		num = new(big.Int).Lsh(wadBig, 2*Resolution)
		num.Mul(num, scaleDen)
		den = sq.Mul(sq, scaleNum)
	} else {
		num = sq.Mul(sq, wadBig)
		num.Mul(num, scaleNum)
		den = new(big.Int).Lsh(scaleDen, 2*Resolution)
	}
	if den.Sign() == 0 {
		return nil, divByZero("ratio")
	}

	out := num.Quo(num, den)
	if _, err := FromBig(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pow10 returns 10^n.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ApplyFractionDown returns floor(x * (1e18 - fractionWad) / 1e18).
// fractionWad must be at most 1e18.
func ApplyFractionDown(x, fractionWad *uint256.Int) (*uint256.Int, error) {
	keep, err := Sub(WAD, fractionWad)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "fraction above one")
	}
	return MulDiv(x, keep, WAD)
}
