package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/business/pricing/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const (
	tracerName = "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	meterName  = "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"

	executionPricePlaces = 18
)

type quoteMetrics struct {
	quotesTotal metric.Int64Counter
	quoteErrors metric.Int64Counter
	latency     metric.Float64Histogram
}

// QuoteService prices single-pool swaps.
type QuoteService struct {
	pools   PoolReader
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *quoteMetrics
}

// NewQuoteService creates a QuoteService. pools may be nil when only
// caller-supplied snapshots are quoted.
func NewQuoteService(pools PoolReader, log logger.LoggerInterface) (*QuoteService, error) {
	s := &QuoteService{
		pools:  pools,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return s, nil
}

func (s *QuoteService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &quoteMetrics{}

	s.metrics.quotesTotal, err = meter.Int64Counter(
		"quotes_total",
		metric.WithDescription("Total swap quotes computed"),
	)
	if err != nil {
		return err
	}

	s.metrics.quoteErrors, err = meter.Int64Counter(
		"quote_errors_total",
		metric.WithDescription("Swap quotes that failed"),
	)
	if err != nil {
		return err
	}

	s.metrics.latency, err = meter.Float64Histogram(
		"quote_latency_ms",
		metric.WithDescription("Quote latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// QuoteProposal resolves the requested pool of a proposal and quotes against it.
func (s *QuoteService) QuoteProposal(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteResult, error) {
	if s.pools == nil {
		return nil, apperror.New(apperror.CodeServiceUnavailable,
			apperror.WithContext("no ledger reader configured"))
	}
	pool, err := s.pools.ReadPool(ctx, req.Proposal, req.IsYesPool)
	if err != nil {
		return nil, err
	}
	return s.Quote(ctx, pool, req)
}

// Quote prices a swap against an immutable pool snapshot. The same snapshot
// and request always produce the same result.
func (s *QuoteService) Quote(ctx context.Context, pool *curve.CurvePool, req domain.QuoteRequest) (*domain.QuoteResult, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.quote",
		trace.WithAttributes(
			attribute.String("side", req.Side()),
			attribute.Bool("input_company_token", req.IsInputCompanyToken),
			attribute.String("amount", req.Amount.String()),
			attribute.String("slippage", req.Slippage.String()),
		),
	)
	defer span.End()

	start := time.Now()
	s.metrics.quotesTotal.Add(ctx, 1)
	defer func() {
		s.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()))
	}()

	result, err := s.quote(pool, req)
	if err != nil {
		s.metrics.quoteErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("code", string(apperror.GetCode(err))),
		))
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")
		s.logger.Debug(ctx, "quote failed", "side", req.Side(), "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("pool", result.Pool.Hex()),
		attribute.String("amount_out", result.RawAmountOut.String()),
		attribute.Int("ranges_crossed", result.RangesCrossed),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (s *QuoteService) quote(pool *curve.CurvePool, req domain.QuoteRequest) (*domain.QuoteResult, error) {
	if pool == nil || pool.Address == (common.Address{}) {
		return nil, apperror.NotFound(apperror.CodePoolNotFound, req.Side()+" pool does not exist")
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	slippage, err := req.SlippageWad()
	if err != nil {
		return nil, err
	}

	tokenIn, tokenOut := pool.CounterToken(), pool.OutcomeToken()
	if req.IsInputCompanyToken {
		tokenIn, tokenOut = tokenOut, tokenIn
	}
	if req.Amount.IsNegative() {
		return nil, apperror.Validation(apperror.CodeInvalidAmount, "amount must not be negative")
	}
	amountIn, err := asset.ParseDecimal(tokenIn, req.Amount)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidAmount, err.Error())
	}
	rawIn, err := fixedpoint.FromBig(amountIn.Raw())
	if err != nil {
		return nil, err
	}

	dir := pool.DirectionFor(req.IsInputCompanyToken)
	swap, err := pool.SwapExactIn(rawIn, dir)
	if err != nil {
		return nil, err
	}

	minOut, err := fixedpoint.ApplyFractionDown(swap.AmountOut, slippage)
	if err != nil {
		return nil, err
	}

	current, err := pool.HumanPrice(swap.SqrtPriceBefore)
	if err != nil {
		return nil, err
	}
	after, err := pool.HumanPrice(swap.SqrtPriceAfter)
	if err != nil {
		return nil, err
	}

	expected := asset.NewAmount(tokenOut, swap.AmountOut.ToBig())
	execution := decimal.Zero
	if !amountIn.IsZero() {
		execution = expected.ToDecimal().DivRound(amountIn.ToDecimal(), executionPricePlaces)
	}
	// effective is counter per outcome whichever token is paid in.
	effective := execution
	if !req.IsInputCompanyToken {
		effective = decimal.Zero
		if !expected.IsZero() {
			effective = amountIn.ToDecimal().DivRound(expected.ToDecimal(), executionPricePlaces)
		}
	}

	return &domain.QuoteResult{
		Pool:             pool.Address,
		Direction:        dir,
		AmountIn:         amountIn,
		ExpectedReceive:  expected,
		MinReceive:       asset.NewAmount(tokenOut, minOut.ToBig()),
		FeeAmount:        swap.FeeAmount.ToBig(),
		ExecutionPrice:   execution,
		EffectivePrice:   effective,
		CurrentPoolPrice: current,
		PriceAfter:       after,
		StartSqrtPrice:   swap.SqrtPriceBefore.Clone(),
		SqrtPriceAfter:   swap.SqrtPriceAfter.Clone(),
		RawAmountOut:     swap.AmountOut.ToBig(),
		RangesCrossed:    swap.RangesCrossed,
		PriceImpact:      domain.CalculatePriceImpact(current.Rate(), after.Rate()),
	}, nil
}
