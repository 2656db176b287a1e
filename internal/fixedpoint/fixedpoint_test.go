package fixedpoint_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

func u(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, d string
		down    string
		up      string
	}{
		{"exact", "6", "7", "3", "14", "14"},
		{"inexact", "7", "7", "3", "16", "17"},
		{"full precision intermediate", "340282366920938463463374607431768211456", "340282366920938463463374607431768211456", "340282366920938463463374607431768211456", "340282366920938463463374607431768211456", "340282366920938463463374607431768211456"},
		{"q96 scaling", "79228162514264337593543950336", "3", "2", "118842243771396506390315925504", "118842243771396506390315925504"},
		{"zero numerator", "0", "12345", "7", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			down, err := fixedpoint.MulDiv(u(tt.a), u(tt.b), u(tt.d))
			if err != nil {
				t.Fatalf("MulDiv: %v", err)
			}
			if down.Dec() != tt.down {
				t.Errorf("MulDiv = %s, want %s", down.Dec(), tt.down)
			}
			up, err := fixedpoint.MulDivRoundingUp(u(tt.a), u(tt.b), u(tt.d))
			if err != nil {
				t.Fatalf("MulDivRoundingUp: %v", err)
			}
			if up.Dec() != tt.up {
				t.Errorf("MulDivRoundingUp = %s, want %s", up.Dec(), tt.up)
			}
		})
	}
}

func TestMulDiv_Errors(t *testing.T) {
	max := fixedpoint.MaxUint256()

	if _, err := fixedpoint.MulDiv(max, max, uint256.NewInt(1)); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
	if _, err := fixedpoint.MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0)); !errors.Is(err, fixedpoint.ErrDivisionByZero) {
		t.Errorf("expected division by zero, got %v", err)
	}
	if _, err := fixedpoint.MulDivRoundingUp(max, uint256.NewInt(1), uint256.NewInt(1)); err != nil {
		t.Errorf("exact max should not overflow: %v", err)
	}
	if _, err := fixedpoint.Sub(uint256.NewInt(1), uint256.NewInt(2)); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("expected underflow error, got %v", err)
	}
	if _, err := fixedpoint.Add(max, uint256.NewInt(1)); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("expected add overflow, got %v", err)
	}
}

func TestSqrt(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "0"},
		{"1", "1"},
		{"15", "3"},
		{"16", "4"},
		{"17", "4"},
		{"6277101735386680763835789423207666416102355444464034512896", "79228162514264337593543950336"},
	}
	for _, tt := range tests {
		if got := fixedpoint.Sqrt(u(tt.in)); got.Dec() != tt.want {
			t.Errorf("Sqrt(%s) = %s, want %s", tt.in, got.Dec(), tt.want)
		}
	}
}

func TestSigned(t *testing.T) {
	v, err := fixedpoint.Signed(uint256.NewInt(5), true)
	if err != nil || v.Int64() != -5 {
		t.Fatalf("Signed(5, neg) = %v, %v", v, err)
	}

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	if _, err := fixedpoint.Signed(huge, false); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("2^255 positive should overflow int256, got %v", err)
	}
	if _, err := fixedpoint.Signed(huge, true); err != nil {
		t.Errorf("-2^255 is a valid int256: %v", err)
	}
}

func TestSqrtPriceRoundTrip(t *testing.T) {
	// price 1 with equal decimals is exactly 2^96
	sqrt, err := fixedpoint.SqrtPriceX96FromRatio(big.NewInt(1), big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if !sqrt.Eq(fixedpoint.Q96) {
		t.Fatalf("sqrt(1) = %s, want 2^96", sqrt.Dec())
	}

	one := fixedpoint.Pow10(0)
	wad, err := fixedpoint.RatioWadFromSqrtPriceX96(sqrt, one, one, false)
	if err != nil {
		t.Fatal(err)
	}
	if wad.String() != "1000000000000000000" {
		t.Fatalf("price = %s, want 1e18", wad)
	}

	// price 4 -> sqrt 2 -> inverted 0.25
	sqrt4, _ := fixedpoint.SqrtPriceX96FromRatio(big.NewInt(4), big.NewInt(1))
	inv, err := fixedpoint.RatioWadFromSqrtPriceX96(sqrt4, one, one, true)
	if err != nil {
		t.Fatal(err)
	}
	if inv.String() != "250000000000000000" {
		t.Fatalf("inverted price = %s, want 0.25e18", inv)
	}
}

func TestCheckSqrtPrice(t *testing.T) {
	if err := fixedpoint.CheckSqrtPrice(fixedpoint.Q96); err != nil {
		t.Errorf("2^96 is valid: %v", err)
	}
	if err := fixedpoint.CheckSqrtPrice(uint256.NewInt(1)); !errors.Is(err, fixedpoint.ErrInvalidSqrt) {
		t.Errorf("expected invalid sqrt price, got %v", err)
	}
}

func TestApplyFractionDown(t *testing.T) {
	// 3% off 1e18
	fraction := uint256.NewInt(30_000_000_000_000_000)
	got, err := fixedpoint.ApplyFractionDown(fixedpoint.WAD, fraction)
	if err != nil {
		t.Fatal(err)
	}
	if got.Dec() != "970000000000000000" {
		t.Fatalf("got %s", got.Dec())
	}
}

func TestMulDivRoundingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rounding up exceeds rounding down by at most one", prop.ForAll(
		func(a, b, d uint64) bool {
			ua, ub, ud := uint256.NewInt(a), uint256.NewInt(b), uint256.NewInt(d)
			down, err1 := fixedpoint.MulDiv(ua, ub, ud)
			up, err2 := fixedpoint.MulDivRoundingUp(ua, ub, ud)
			if err1 != nil || err2 != nil {
				return false
			}
			diff := new(uint256.Int).Sub(up, down)
			exact := new(uint256.Int).MulMod(ua, ub, ud).IsZero()
			if exact {
				return diff.IsZero()
			}
			return diff.Eq(uint256.NewInt(1))
		},
		gen.UInt64(),
		gen.UInt64(),
		gen.UInt64Range(1, ^uint64(0)),
	))

	properties.Property("floor sqrt brackets its input", prop.ForAll(
		func(x uint64) bool {
			ux := uint256.NewInt(x)
			r := fixedpoint.Sqrt(ux)
			next := new(uint256.Int).AddUint64(r, 1)
			lo := new(uint256.Int).Mul(r, r)
			hi := new(uint256.Int).Mul(next, next)
			return !lo.Gt(ux) && hi.Gt(ux)
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func BenchmarkMulDivRoundingUp(b *testing.B) {
	a := u("1461446703485210103287273052203988822378723970341")
	c := u("340282366920938463463374607431768211455")
	d := fixedpoint.Q96
	for i := 0; i < b.N; i++ {
		_, _ = fixedpoint.MulDivRoundingUp(a, c, d)
	}
}
