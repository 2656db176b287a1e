package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const (
	tracerName = "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
	meterName  = "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
)

type serviceMetrics struct {
	simulations metric.Int64Counter
	legErrors   metric.Int64Counter
	latency     metric.Float64Histogram
}

// ArbitrageService computes, for each of a proposal's pools, the trade that
// moves it to the price implied by the reference model.
type ArbitrageService struct {
	model  domain.ReferenceModel
	pools  ProposalReader
	spot   SpotSource
	logger logger.LoggerInterface

	tracer  trace.Tracer
	metrics *serviceMetrics
}

// Option configures optional collaborators.
type Option func(*ArbitrageService)

// WithProposalReader enables SimulateProposal.
func WithProposalReader(r ProposalReader) Option {
	return func(s *ArbitrageService) {
		s.pools = r
	}
}

// WithSpotSource fills in the spot price when a request omits it.
func WithSpotSource(src SpotSource) Option {
	return func(s *ArbitrageService) {
		s.spot = src
	}
}

// NewArbitrageService creates an ArbitrageService.
func NewArbitrageService(model domain.ReferenceModel, log logger.LoggerInterface, opts ...Option) (*ArbitrageService, error) {
	if model == nil {
		model = domain.ImpactSplitModel{}
	}
	s := &ArbitrageService{
		model:  model,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return s, nil
}

func (s *ArbitrageService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.simulations, err = meter.Int64Counter(
		"arbitrage_simulations_total",
		metric.WithDescription("Total arbitrage simulations"),
	)
	if err != nil {
		return err
	}

	s.metrics.legErrors, err = meter.Int64Counter(
		"arbitrage_leg_errors_total",
		metric.WithDescription("Arbitrage legs that could not be solved"),
	)
	if err != nil {
		return err
	}

	s.metrics.latency, err = meter.Float64Histogram(
		"arbitrage_simulation_latency_ms",
		metric.WithDescription("Arbitrage simulation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Model returns the reference model in use.
func (s *ArbitrageService) Model() domain.ReferenceModel {
	return s.model
}

// legInput is one side's snapshot together with the error from reading it.
type legInput struct {
	pool *curve.CurvePool
	err  error
}

// Simulate solves both legs against caller-supplied snapshots. A nil pool or
// one at the zero address yields the not-found sentinel. A leg that fails
// keeps its error on the leg and does not affect the other; only invalid
// reference inputs fail the call.
func (s *ArbitrageService) Simulate(ctx context.Context, req domain.ArbitrageRequest, yesPool, noPool *curve.CurvePool) (*domain.ArbitrageResult, error) {
	return s.simulate(ctx, req, legInput{pool: yesPool}, legInput{pool: noPool})
}

func (s *ArbitrageService) simulate(ctx context.Context, req domain.ArbitrageRequest, yes, no legInput) (*domain.ArbitrageResult, error) {
	ctx, span := s.tracer.Start(ctx, "arbitrage.simulate",
		trace.WithAttributes(
			attribute.String("proposal", req.Proposal.Hex()),
			attribute.String("model", s.model.Name()),
		),
	)
	defer span.End()

	start := time.Now()
	s.metrics.simulations.Add(ctx, 1)
	defer func() {
		s.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()))
	}()

	if req.SpotPrice.IsZero() && s.spot != nil {
		spot, err := s.spot.SpotPrice(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "spot price")
			return nil, err
		}
		req.SpotPrice = spot
	}

	targets, err := s.model.ComputeTargets(req.SpotPrice, req.Probability, req.PriceImpact)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "targets")
		return nil, err
	}

	result := &domain.ArbitrageResult{
		Proposal: req.Proposal,
		Model:    s.model.Name(),
		Targets:  targets,
	}

	var g errgroup.Group
	g.Go(func() error {
		result.Yes = solveLeg(domain.SideYes, yes, targets.Yes)
		return nil
	})
	g.Go(func() error {
		result.No = solveLeg(domain.SideNo, no, targets.No)
		return nil
	})
	_ = g.Wait()

	for _, leg := range result.Legs() {
		if leg.Err != nil {
			s.metrics.legErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("side", string(leg.Side)),
				attribute.String("code", string(apperror.GetCode(leg.Err))),
			))
			s.logger.Warn(ctx, "arbitrage leg failed",
				"side", leg.Side,
				"pool", leg.Pool.Hex(),
				"error", leg.Err,
			)
		}
	}

	span.SetAttributes(
		attribute.Bool("yes_found", result.Yes.Found()),
		attribute.Bool("no_found", result.No.Found()),
		attribute.String("yes_target", targets.Yes.String()),
		attribute.String("no_target", targets.No.String()),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// SimulateProposal reads both pools at one block and simulates against them.
// A side whose read failed becomes a leg carrying that error.
func (s *ArbitrageService) SimulateProposal(ctx context.Context, req domain.ArbitrageRequest) (*domain.ArbitrageResult, error) {
	if s.pools == nil {
		return nil, apperror.New(apperror.CodeServiceUnavailable,
			apperror.WithContext("no ledger reader configured"))
	}
	pools, err := s.pools.ReadProposalPools(ctx, req.Proposal)
	if err != nil {
		return nil, err
	}
	result, err := s.simulate(ctx, req,
		legInput{pool: pools.Yes, err: pools.YesErr},
		legInput{pool: pools.No, err: pools.NoErr},
	)
	if err != nil {
		return nil, err
	}
	result.Block = pools.Block
	return result, nil
}

// solveLeg computes one leg from its own pool and target only.
func solveLeg(side domain.Side, in legInput, target asset.Price) domain.PoolLeg {
	pool := in.pool
	if in.err == nil && (pool == nil || pool.Address == (common.Address{})) {
		return domain.NotFoundLeg(side)
	}

	leg := domain.NotFoundLeg(side)
	if pool == nil {
		leg.Err = in.err
		return leg
	}
	leg.Pool = pool.Address
	leg.IsInverted = pool.IsInverted
	if pool.Token0 != nil && pool.Token1 != nil {
		leg.Token0, leg.Token1 = pool.Token0.Address(), pool.Token1.Address()
		leg.Token0Symbol, leg.Token1Symbol = pool.Token0.Symbol(), pool.Token1.Symbol()
		leg.Token0Decimals, leg.Token1Decimals = pool.Token0.Decimals(), pool.Token1.Decimals()
	}
	if in.err != nil {
		leg.Err = in.err
		return leg
	}
	if err := pool.Validate(); err != nil {
		leg.Err = err
		return leg
	}
	leg.CurrentSqrtPrice = pool.SqrtPrice.Clone()
	if current, err := pool.CurrentHumanPrice(); err == nil {
		leg.CurrentPriceHuman = current
	}

	targetSqrt, err := pool.SqrtPriceForHuman(target)
	if err != nil {
		leg.Err = err
		return leg
	}
	leg.TargetSqrtPrice = targetSqrt

	delta, err := pool.SolveToTarget(targetSqrt)
	if err != nil {
		leg.Err = err
		return leg
	}
	leg.Amount0Delta = delta.Amount0
	leg.Amount1Delta = delta.Amount1
	leg.TargetInGap = delta.InGap()

	if human, err := pool.HumanPrice(targetSqrt); err == nil {
		leg.TargetPriceHuman = human
	} else {
		leg.TargetPriceHuman = target
	}
	return leg
}
