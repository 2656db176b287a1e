package algebra

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/circuitbreaker"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/ratelimit"
)

const (
	tracerName = "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/infra/algebra"
	meterName  = "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/infra/algebra"
)

// Ensure Reader implements ChainReader.
var _ app.ChainReader = (*Reader)(nil)

// Backend is the slice of ethclient.Client the reader needs.
type Backend interface {
	ethereum.ContractCaller
	BlockNumber(ctx context.Context) (uint64, error)
}

// Config holds reader settings.
type Config struct {
	FactoryAddress common.Address
	CallTimeout    time.Duration
}

type readerMetrics struct {
	callsTotal  metric.Int64Counter
	callErrors  metric.Int64Counter
	callLatency metric.Float64Histogram
}

// Reader implements ChainReader against a futarchy proposal and an Algebra factory.
type Reader struct {
	backend Backend
	cfg     Config

	proposalABI abi.ABI
	factoryABI  abi.ABI
	poolABI     abi.ABI
	erc20ABI    abi.ABI

	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	blockCB *circuitbreaker.CircuitBreaker[uint64]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewReader parses the contract ABIs and wires the breaker, limiter and metrics.
func NewReader(backend Backend, cfg Config, limiter *ratelimit.Limiter, log logger.LoggerInterface) (*Reader, error) {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	r := &Reader{
		backend: backend,
		cfg:     cfg,
		limiter: limiter,
		cb:      circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("ledger-call")),
		blockCB: circuitbreaker.New[uint64](circuitbreaker.DefaultConfig("ledger-block")),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	for _, def := range []struct {
		dst  *abi.ABI
		json string
		name string
	}{
		{&r.proposalABI, ProposalABI, "proposal"},
		{&r.factoryABI, FactoryABI, "factory"},
		{&r.poolABI, PoolABI, "pool"},
		{&r.erc20ABI, ERC20ABI, "erc20"},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.json))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s ABI: %w", def.name, err)
		}
		*def.dst = parsed
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.callsTotal, err = meter.Int64Counter(
		"ledger_calls_total",
		metric.WithDescription("Total contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.callErrors, err = meter.Int64Counter(
		"ledger_call_errors_total",
		metric.WithDescription("Total failed contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.callLatency, err = meter.Float64Histogram(
		"ledger_call_latency_ms",
		metric.WithDescription("Contract call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// BlockNumber returns the latest block.
func (r *Reader) BlockNumber(ctx context.Context) (uint64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()

	n, err := r.blockCB.Execute(func() (uint64, error) {
		return r.backend.BlockNumber(ctx)
	})
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeCircuitOpen {
			return 0, err
		}
		return 0, apperror.External(apperror.CodeEthereumRPCError, "eth_blockNumber", err)
	}
	return n, nil
}

// OutcomeToken returns the wrapped ERC20 for one outcome of a proposal.
func (r *Reader) OutcomeToken(ctx context.Context, proposal common.Address, index domain.OutcomeIndex, block uint64) (common.Address, error) {
	out, err := r.call(ctx, proposal, r.proposalABI, "wrappedOutcome", blockArg(block), index.BigInt())
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out, "wrappedOutcome")
}

// PoolByPair looks up the pool for a pair on the factory. Algebra sorts the
// pair internally, so argument order does not matter.
func (r *Reader) PoolByPair(ctx context.Context, tokenA, tokenB common.Address, block uint64) (common.Address, error) {
	out, err := r.call(ctx, r.cfg.FactoryAddress, r.factoryABI, "poolByPair", blockArg(block), tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out, "poolByPair")
}

// PoolState reads globalState, liquidity and token order at block.
func (r *Reader) PoolState(ctx context.Context, pool common.Address, block uint64) (*domain.PoolState, error) {
	ctx, span := r.tracer.Start(ctx, "ledger.pool_state",
		trace.WithAttributes(
			attribute.String("pool", pool.Hex()),
			attribute.Int64("block", int64(block)),
		),
	)
	defer span.End()

	at := blockArg(block)
	gs, err := r.call(ctx, pool, r.poolABI, "globalState", at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "globalState")
		return nil, err
	}
	if len(gs) < 3 {
		return nil, malformed("globalState", len(gs))
	}
	price, ok1 := gs[0].(*big.Int)
	tick, ok2 := gs[1].(*big.Int)
	fee, ok3 := gs[2].(uint16)
	if !ok1 || !ok2 || !ok3 {
		return nil, malformed("globalState", len(gs))
	}

	liq, err := r.call(ctx, pool, r.poolABI, "liquidity", at)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	liquidity, ok := firstBig(liq)
	if !ok {
		return nil, malformed("liquidity", len(liq))
	}

	t0, err := r.call(ctx, pool, r.poolABI, "token0", at)
	if err != nil {
		return nil, err
	}
	token0, err := asAddress(t0, "token0")
	if err != nil {
		return nil, err
	}
	t1, err := r.call(ctx, pool, r.poolABI, "token1", at)
	if err != nil {
		return nil, err
	}
	token1, err := asAddress(t1, "token1")
	if err != nil {
		return nil, err
	}

	sqrtPrice, err := fixedpoint.FromBig(price)
	if err != nil {
		return nil, err
	}
	liquidityU, err := fixedpoint.FromBig(liquidity)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sqrt_price", price.String()),
		attribute.String("liquidity", liquidity.String()),
	)
	span.SetStatus(codes.Ok, "")

	return &domain.PoolState{
		Address:      pool,
		Token0:       token0,
		Token1:       token1,
		SqrtPriceX96: sqrtPrice,
		Tick:         int32(tick.Int64()),
		FeePips:      uint32(fee),
		Liquidity:    liquidityU,
		Block:        block,
	}, nil
}

// TokenMetadata reads symbol and decimals at the latest block. Tokens that
// return a non-string symbol get an empty one and are labeled by address.
func (r *Reader) TokenMetadata(ctx context.Context, token common.Address) (string, uint8, error) {
	dec, err := r.call(ctx, token, r.erc20ABI, "decimals", nil)
	if err != nil {
		return "", 0, err
	}
	if len(dec) == 0 {
		return "", 0, malformed("decimals", 0)
	}
	decimals, ok := dec[0].(uint8)
	if !ok {
		return "", 0, malformed("decimals", len(dec))
	}

	symbol := ""
	if sym, err := r.call(ctx, token, r.erc20ABI, "symbol", nil); err == nil && len(sym) > 0 {
		symbol, _ = sym[0].(string)
	} else if err != nil {
		r.logger.Warn(ctx, "token symbol unreadable", "token", token.Hex(), "error", err)
	}
	return symbol, decimals, nil
}

// call packs, rate limits, executes through the breaker and unpacks.
func (r *Reader) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, block *big.Int, args ...any) ([]any, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeInternalError, "pack "+method, err)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("method", method))
	r.metrics.callsTotal.Add(ctx, 1, attrs)
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()

	raw, err := r.cb.Execute(func() ([]byte, error) {
		return r.backend.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, block)
	})
	r.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1, attrs)
		if apperror.GetCode(err) == apperror.CodeCircuitOpen {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s on %s", method, to.Hex())))
	}
	if len(raw) == 0 {
		r.metrics.callErrors.Add(ctx, 1, attrs)
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("%s on %s returned no data", method, to.Hex())))
	}

	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("decode "+method))
	}
	return out, nil
}

func blockArg(block uint64) *big.Int {
	if block == 0 {
		return nil
	}
	return new(big.Int).SetUint64(block)
}

func asAddress(out []any, method string) (common.Address, error) {
	if len(out) == 0 {
		return common.Address{}, malformed(method, 0)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, malformed(method, len(out))
	}
	return addr, nil
}

func firstBig(out []any) (*big.Int, bool) {
	if len(out) == 0 {
		return nil, false
	}
	v, ok := out[0].(*big.Int)
	return v, ok
}

func malformed(method string, n int) error {
	return apperror.New(apperror.CodeContractCallFailed,
		apperror.WithContext(fmt.Sprintf("unexpected %s output (%d values)", method, n)))
}
