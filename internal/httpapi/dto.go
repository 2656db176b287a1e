package httpapi

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	arbitrage "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	pricing "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

// Integers that may exceed 2^53 travel as decimal strings.

type tokenDTO struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

type rangeDTO struct {
	Lower     string `json:"lower"`
	Upper     string `json:"upper"`
	Liquidity string `json:"liquidity"`
}

// poolDTO is a caller-supplied pool snapshot.
type poolDTO struct {
	Address      string     `json:"address"`
	Token0       tokenDTO   `json:"token0"`
	Token1       tokenDTO   `json:"token1"`
	IsInverted   bool       `json:"isInverted"`
	SqrtPriceX96 string     `json:"sqrtPriceX96"`
	Liquidity    string     `json:"liquidity"`
	FeePips      uint32     `json:"feePips"`
	Ranges       []rangeDTO `json:"ranges,omitempty"`
}

func invalidFormat(field string, err error) error {
	return apperror.New(apperror.CodeInvalidFormat, apperror.WithContext(field), apperror.WithCause(err))
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, invalidFormat(field, fmt.Errorf("not a hex address: %q", s))
	}
	return common.HexToAddress(s), nil
}

func parseUint(field, s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, invalidFormat(field, err)
	}
	return v, nil
}

func (t tokenDTO) toAsset(field string, chainID uint64) (*asset.Asset, error) {
	addr, err := parseAddress(field+".address", t.Address)
	if err != nil {
		return nil, err
	}
	a, err := asset.NewAsset(asset.NewAssetID(chainID, addr), t.Symbol, t.Decimals)
	if err != nil {
		return nil, invalidFormat(field, err)
	}
	return a, nil
}

// toPool converts the snapshot; curve validation happens in the services.
func (p *poolDTO) toPool(chainID uint64) (*curve.CurvePool, error) {
	if p == nil {
		return nil, nil
	}
	addr, err := parseAddress("pool.address", p.Address)
	if err != nil {
		return nil, err
	}
	pool := &curve.CurvePool{Address: addr, IsInverted: p.IsInverted, FeePips: p.FeePips}
	if pool.Token0, err = p.Token0.toAsset("pool.token0", chainID); err != nil {
		return nil, err
	}
	if pool.Token1, err = p.Token1.toAsset("pool.token1", chainID); err != nil {
		return nil, err
	}
	if pool.SqrtPrice, err = parseUint("pool.sqrtPriceX96", p.SqrtPriceX96); err != nil {
		return nil, err
	}
	if pool.Liquidity, err = parseUint("pool.liquidity", p.Liquidity); err != nil {
		return nil, err
	}
	for i, r := range p.Ranges {
		field := fmt.Sprintf("pool.ranges[%d]", i)
		var lr curve.LiquidityRange
		if lr.Lower, err = parseUint(field+".lower", r.Lower); err != nil {
			return nil, err
		}
		if lr.Upper, err = parseUint(field+".upper", r.Upper); err != nil {
			return nil, err
		}
		if lr.Liquidity, err = parseUint(field+".liquidity", r.Liquidity); err != nil {
			return nil, err
		}
		pool.Ranges = append(pool.Ranges, lr)
	}
	return pool, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func uintString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

type tokenView struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

func viewToken(a *asset.Asset) tokenView {
	if a == nil {
		return tokenView{}
	}
	return tokenView{Address: a.Address().Hex(), Symbol: a.Symbol(), Decimals: a.Decimals()}
}

type impactView struct {
	Before      string `json:"before"`
	After       string `json:"after"`
	BasisPoints string `json:"basisPoints"`
	Direction   string `json:"direction"`
}

type quoteView struct {
	Pool             string     `json:"pool"`
	Block            uint64     `json:"block,omitempty"`
	Direction        string     `json:"direction"`
	TokenIn          tokenView  `json:"tokenIn"`
	TokenOut         tokenView  `json:"tokenOut"`
	AmountIn         string     `json:"amountIn"`
	ExpectedReceive  string     `json:"expectedReceive"`
	MinReceive       string     `json:"minReceive"`
	RawAmountOut     string     `json:"rawAmountOut"`
	FeeAmount        string     `json:"feeAmount"`
	ExecutionPrice   string     `json:"executionPrice"`
	EffectivePrice   string     `json:"effectivePrice"`
	CurrentPoolPrice string     `json:"currentPoolPrice"`
	PriceAfter       string     `json:"priceAfter"`
	StartSqrtPrice   string     `json:"startSqrtPrice"`
	SqrtPriceAfter   string     `json:"sqrtPriceAfter"`
	RangesCrossed    int        `json:"rangesCrossed"`
	PriceImpact      impactView `json:"priceImpact"`
}

func viewQuote(q *pricing.QuoteResult) quoteView {
	return quoteView{
		Pool:             q.Pool.Hex(),
		Block:            q.Block,
		Direction:        q.Direction.String(),
		TokenIn:          viewToken(q.TokenIn()),
		TokenOut:         viewToken(q.TokenOut()),
		AmountIn:         q.AmountIn.ToDecimal().String(),
		ExpectedReceive:  q.ExpectedReceive.ToDecimal().String(),
		MinReceive:       q.MinReceive.ToDecimal().String(),
		RawAmountOut:     bigString(q.RawAmountOut),
		FeeAmount:        bigString(q.FeeAmount),
		ExecutionPrice:   q.ExecutionPrice.String(),
		EffectivePrice:   q.EffectivePrice.String(),
		CurrentPoolPrice: q.CurrentPoolPrice.String(),
		PriceAfter:       q.PriceAfter.String(),
		StartSqrtPrice:   uintString(q.StartSqrtPrice),
		SqrtPriceAfter:   uintString(q.SqrtPriceAfter),
		RangesCrossed:    q.RangesCrossed,
		PriceImpact: impactView{
			Before:      q.PriceImpact.Before.String(),
			After:       q.PriceImpact.After.String(),
			BasisPoints: q.PriceImpact.BasisPoints.StringFixed(2),
			Direction:   string(q.PriceImpact.Direction),
		},
	}
}

type actionView struct {
	Kind   string `json:"kind"`
	Token  string `json:"token"`
	Symbol string `json:"symbol"`
	Raw    string `json:"raw"`
	Amount string `json:"amount"`
}

type legView struct {
	Side             string       `json:"side"`
	Found            bool         `json:"found"`
	Pool             string       `json:"pool"`
	Token0           tokenView    `json:"token0"`
	Token1           tokenView    `json:"token1"`
	IsInverted       bool         `json:"isInverted"`
	Amount0Delta     string       `json:"amount0Delta"`
	Amount1Delta     string       `json:"amount1Delta"`
	CurrentSqrtPrice string       `json:"currentSqrtPrice"`
	TargetSqrtPrice  string       `json:"targetSqrtPrice"`
	CurrentPrice     string       `json:"currentPrice"`
	TargetPrice      string       `json:"targetPrice"`
	TargetInGap      bool         `json:"targetInGap,omitempty"`
	Actions          []actionView `json:"actions"`
	Error            string       `json:"error,omitempty"`
	ErrorCode        string       `json:"errorCode,omitempty"`
}

func viewLeg(l arbitrage.PoolLeg) legView {
	v := legView{
		Side:       string(l.Side),
		Found:      l.Found(),
		Pool:       l.Pool.Hex(),
		IsInverted: l.IsInverted,
		Token0: tokenView{
			Address: l.Token0.Hex(), Symbol: l.Token0Symbol, Decimals: l.Token0Decimals,
		},
		Token1: tokenView{
			Address: l.Token1.Hex(), Symbol: l.Token1Symbol, Decimals: l.Token1Decimals,
		},
		Amount0Delta:     bigString(l.Amount0Delta),
		Amount1Delta:     bigString(l.Amount1Delta),
		CurrentSqrtPrice: uintString(l.CurrentSqrtPrice),
		TargetSqrtPrice:  uintString(l.TargetSqrtPrice),
		CurrentPrice:     l.CurrentPriceHuman.String(),
		TargetPrice:      l.TargetPriceHuman.String(),
		TargetInGap:      l.TargetInGap,
		Actions:          []actionView{},
	}
	if l.Err != nil {
		v.Error = l.Err.Error()
		v.ErrorCode = string(apperror.GetCode(l.Err))
	}
	for _, a := range l.Actions() {
		v.Actions = append(v.Actions, actionView{
			Kind:   string(a.Kind),
			Token:  a.Token.Hex(),
			Symbol: a.Symbol,
			Raw:    a.Raw.String(),
			Amount: a.Amount.String(),
		})
	}
	return v
}

type arbitrageView struct {
	Proposal string `json:"proposal"`
	Block    uint64 `json:"block,omitempty"`
	Model    string `json:"model"`
	Targets  struct {
		Yes string `json:"yes"`
		No  string `json:"no"`
	} `json:"targets"`
	Yes legView `json:"yes"`
	No  legView `json:"no"`
}

func viewArbitrage(r *arbitrage.ArbitrageResult) arbitrageView {
	v := arbitrageView{
		Proposal: r.Proposal.Hex(),
		Block:    r.Block,
		Model:    r.Model,
		Yes:      viewLeg(r.Yes),
		No:       viewLeg(r.No),
	}
	v.Targets.Yes = r.Targets.Yes.String()
	v.Targets.No = r.Targets.No.String()
	return v
}
