// Package domain contains the arbitrage value objects and the reference
// pricing policy that turns market beliefs into per-pool target prices.
package domain

import (
	"fmt"
	"math/big"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
)

var (
	wad        = big.NewInt(1_000_000_000_000_000_000)
	wadSquared = new(big.Int).Mul(wad, wad)
)

// Targets are the human prices the YES and NO pools should be moved to.
type Targets struct {
	Yes asset.Price
	No  asset.Price
}

// ReferenceModel derives the YES/NO target prices from an exogenous spot
// price, the market's probability of the proposal passing, and the signed
// price impact the proposal is expected to have.
type ReferenceModel interface {
	Name() string
	ComputeTargets(spot asset.Price, probability, impact *big.Int) (Targets, error)
}

// ValidateInputs checks the common reference inputs.
func ValidateInputs(spot asset.Price, probability, impact *big.Int) error {
	if spot.IsZero() {
		return apperror.Validation(apperror.CodeInvalidInput, "spot price must be positive")
	}
	if probability == nil || probability.Sign() < 0 || probability.Cmp(wad) > 0 {
		return apperror.Validation(apperror.CodeInvalidProbability, "probability must be in [0, 1e18]")
	}
	if impact == nil {
		return apperror.Validation(apperror.CodeInvalidInput, "price impact is required")
	}
	return fixedpoint.CheckInt256(impact)
}

// ImpactSplitModel spreads the impact between the outcomes so that the
// probability-weighted average of the targets is the spot price:
//
//	yes = spot * (1 + impact*(1-p))
//	no  = spot * (1 - impact*p)
//
// which gives p*yes + (1-p)*no = spot and yes - no = spot*impact.
type ImpactSplitModel struct{}

func (ImpactSplitModel) Name() string { return "impact-split" }

// ComputeTargets implements ReferenceModel. Targets round down.
func (ImpactSplitModel) ComputeTargets(spot asset.Price, probability, impact *big.Int) (Targets, error) {
	if err := ValidateInputs(spot, probability, impact); err != nil {
		return Targets{}, err
	}

	oneMinusP := new(big.Int).Sub(wad, probability)

	yesFactor := new(big.Int).Mul(impact, oneMinusP)
	yesFactor.Add(yesFactor, wadSquared)

	noFactor := new(big.Int).Mul(impact, probability)
	noFactor.Sub(wadSquared, noFactor)

	yes, err := scaleTarget(spot, yesFactor, "YES")
	if err != nil {
		return Targets{}, err
	}
	no, err := scaleTarget(spot, noFactor, "NO")
	if err != nil {
		return Targets{}, err
	}
	return Targets{Yes: yes, No: no}, nil
}

// scaleTarget returns spot * factor / 1e36 and rejects non-positive results.
func scaleTarget(spot asset.Price, factor *big.Int, side string) (asset.Price, error) {
	if factor.Sign() <= 0 {
		return asset.Price{}, apperror.Validation(apperror.CodeInvalidTarget,
			fmt.Sprintf("impact drives the %s target to zero or below", side))
	}
	v := new(big.Int).Mul(spot.Wad(), factor)
	v.Quo(v, wadSquared)
	if v.Sign() == 0 {
		return asset.Price{}, apperror.Validation(apperror.CodeInvalidTarget,
			fmt.Sprintf("%s target rounds to zero", side))
	}
	return asset.NewPriceFromWad(v)
}

// FixedTargetsModel ignores the inputs and returns configured targets. It lets
// callers pin (input, target) fixtures or plug in prices computed elsewhere.
type FixedTargetsModel struct {
	Targets Targets
}

func (FixedTargetsModel) Name() string { return "fixed" }

// ComputeTargets implements ReferenceModel.
func (m FixedTargetsModel) ComputeTargets(spot asset.Price, probability, impact *big.Int) (Targets, error) {
	if m.Targets.Yes.IsZero() || m.Targets.No.IsZero() {
		return Targets{}, apperror.Validation(apperror.CodeInvalidTarget, "fixed targets must be positive")
	}
	return m.Targets, nil
}
