package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// ArbitrageRequest carries the reference inputs of a simulation. Probability
// and PriceImpact are 18-decimal fractions; PriceImpact may be negative.
// A zero SpotPrice asks the service to fetch one from its spot source.
type ArbitrageRequest struct {
	Proposal    common.Address
	SpotPrice   asset.Price
	Probability *big.Int
	PriceImpact *big.Int
}

// ParseRequest builds a request from human decimal strings. An empty spot
// leaves the price to the spot source.
func ParseRequest(proposal common.Address, spot, probability, impact string) (ArbitrageRequest, error) {
	req := ArbitrageRequest{Proposal: proposal}
	if spot != "" {
		p, err := asset.ParsePrice(spot)
		if err != nil {
			return req, apperror.Validation(apperror.CodeInvalidInput, "spot: "+err.Error())
		}
		req.SpotPrice = p
	}

	var err error
	if req.Probability, err = parseWad(probability); err != nil {
		return req, apperror.Validation(apperror.CodeInvalidProbability, "probability: "+err.Error())
	}
	if req.PriceImpact, err = parseWad(impact); err != nil {
		return req, apperror.Validation(apperror.CodeInvalidInput, "impact: "+err.Error())
	}
	return req, nil
}

func parseWad(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	scaled := d.Shift(asset.PricePrecision)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, asset.ErrTooManyDecimals
	}
	return scaled.BigInt(), nil
}

// ArbitrageResult always holds both legs; a missing pool is a sentinel leg.
type ArbitrageResult struct {
	Proposal common.Address
	Block    uint64
	Model    string
	Targets  Targets
	Yes      PoolLeg
	No       PoolLeg
}

// Legs returns the YES then NO leg.
func (r *ArbitrageResult) Legs() []PoolLeg {
	return []PoolLeg{r.Yes, r.No}
}
