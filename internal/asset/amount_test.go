package asset_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

var yesGNO = asset.MustNewToken(asset.ChainIDGnosis, common.HexToAddress("0x0000000000000000000000000000000000000a11"), "YES_GNO", "", 18)

func TestAmount_Basic(t *testing.T) {
	one := asset.NewAmount(yesGNO, big.NewInt(1e18))

	if one.IsZero() {
		t.Error("expected non-zero amount")
	}

	if d := one.ToDecimal(); !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if one.String() != "1 YES_GNO" {
		t.Errorf("expected '1 YES_GNO', got '%s'", one.String())
	}
}

func TestAmount_SignedArithmetic(t *testing.T) {
	one := asset.NewAmount(yesGNO, big.NewInt(1e18))
	three := asset.NewAmount(yesGNO, big.NewInt(3e18))

	diff, err := one.Sub(three)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.IsNegative() {
		t.Fatalf("expected negative result, got %s", diff)
	}
	if !diff.ToDecimal().Equal(decimal.NewFromInt(-2)) {
		t.Errorf("expected -2, got %s", diff.ToDecimal())
	}
	if !diff.Abs().Equals(asset.NewAmount(yesGNO, big.NewInt(2e18))) {
		t.Errorf("Abs mismatch: %s", diff.Abs())
	}
	if !diff.Neg().Neg().Equals(diff) {
		t.Error("double negation should be identity")
	}
}

func TestAmount_CannotMixAssets(t *testing.T) {
	a := asset.NewAmount(yesGNO, big.NewInt(1))
	b := asset.NewAmount(asset.SDAI, big.NewInt(1))

	if _, err := a.Add(b); !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected asset mismatch, got %v", err)
	}
}

func TestAmount_Immutable(t *testing.T) {
	raw := big.NewInt(5)
	a := asset.NewAmount(yesGNO, raw)
	raw.SetInt64(9)
	a.Raw().SetInt64(11)

	if a.Raw().Int64() != 5 {
		t.Fatalf("amount mutated through shared big.Int: %s", a.Raw())
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"whole", "2", "2000000000000000000", nil},
		{"fraction", "0.1", "100000000000000000", nil},
		{"smallest unit", "0.000000000000000001", "1", nil},
		{"too precise", "0.0000000000000000001", "", asset.ErrTooManyDecimals},
		{"negative allowed", "-1.5", "-1500000000000000000", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.ParseString(yesGNO, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Raw().String() != tt.want {
				t.Errorf("raw = %s, want %s", got.Raw(), tt.want)
			}
		})
	}
}

func TestParsePositiveString_RejectsNegative(t *testing.T) {
	if _, err := asset.ParsePositiveString(yesGNO, "-0.1"); !errors.Is(err, asset.ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
}

func TestPrice_ParseAndInvert(t *testing.T) {
	p, err := asset.ParsePrice("4")
	if err != nil {
		t.Fatal(err)
	}
	inv := p.Invert()
	if !inv.Rate().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("Invert(4) = %s", inv)
	}

	if _, err := asset.ParsePrice("-1"); !errors.Is(err, asset.ErrNegativePrice) {
		t.Errorf("expected negative price error, got %v", err)
	}

	text, _ := p.MarshalText()
	var back asset.Price
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if back.Cmp(p) != 0 {
		t.Errorf("round trip mismatch: %s vs %s", back, p)
	}
}

func TestRegistry_RegisterReturnsCanonical(t *testing.T) {
	r := asset.DefaultRegistry()
	dup := asset.MustNewToken(asset.ChainIDGnosis, asset.AddrSDAIGnosis, "sDAI-dup", "", 18)

	if got := r.Register(dup); got != asset.SDAI {
		t.Fatalf("expected canonical sDAI, got %s", got.Symbol())
	}
	if r.Count() != 3 {
		t.Fatalf("Count = %d, want 3", r.Count())
	}
	if a, ok := r.GetToken(asset.ChainIDGnosis, asset.AddrGNOGnosis); !ok || a.Symbol() != "GNO" {
		t.Fatalf("GetToken(GNO) = %v, %v", a, ok)
	}
}

func TestRegistry_ResolveLoadsOnce(t *testing.T) {
	r := asset.NewRegistry()
	addr := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	loads := 0
	load := func() (*asset.Asset, error) {
		loads++
		return asset.NewAsset(asset.NewAssetID(asset.ChainIDGnosis, addr), "YES_GNO", 18)
	}

	first, err := r.Resolve(asset.ChainIDGnosis, addr, load)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(asset.ChainIDGnosis, addr, load)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || loads != 1 {
		t.Errorf("loads = %d, same instance = %v", loads, first == second)
	}

	failing := func() (*asset.Asset, error) { return nil, errors.New("rpc down") }
	if _, err := r.Resolve(asset.ChainIDGnosis, common.HexToAddress("0x02"), failing); err == nil {
		t.Error("expected load error")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
}
