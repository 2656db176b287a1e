package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	curve "github.com/futarchy-fi/futarchy-orchestrator/business/curve/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/cache"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const tracerName = "github.com/futarchy-fi/futarchy-orchestrator/business/ledger/app"

// Config tunes the ledger service.
type Config struct {
	ChainID uint64
	// TokenCacheTTL bounds how long a proposal's outcome tokens are reused.
	// They never change once a proposal exists, so this only limits memory.
	TokenCacheTTL time.Duration
}

// LedgerService turns a proposal address into immutable pool snapshots.
type LedgerService struct {
	reader ChainReader
	assets *asset.Registry
	cfg    Config
	tokens *cache.Cache[common.Address, domain.OutcomeTokens]
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(reader ChainReader, assets *asset.Registry, cfg Config, log logger.LoggerInterface) *LedgerService {
	if cfg.TokenCacheTTL <= 0 {
		cfg.TokenCacheTTL = time.Hour
	}
	return &LedgerService{
		reader: reader,
		assets: assets,
		cfg:    cfg,
		tokens: cache.New[common.Address, domain.OutcomeTokens](time.Minute),
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// ReadProposalPools reads both pools of a proposal at the latest block. Both
// legs see the same block so their snapshots are mutually consistent.
func (s *LedgerService) ReadProposalPools(ctx context.Context, proposal common.Address) (*domain.ProposalPools, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.read_proposal_pools",
		trace.WithAttributes(attribute.String("proposal", proposal.Hex())),
	)
	defer span.End()

	block, err := s.reader.BlockNumber(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "block number")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("block", int64(block)))

	tokens, err := s.OutcomeTokens(ctx, proposal, block)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "outcome tokens")
		return nil, err
	}

	// Each side reads on its own: a failing pool must not hide the other one.
	out := &domain.ProposalPools{Tokens: tokens, Block: block}
	var g errgroup.Group
	g.Go(func() error {
		out.Yes, out.YesErr = s.readSide(ctx, tokens, true, block)
		return nil
	})
	g.Go(func() error {
		out.No, out.NoErr = s.readSide(ctx, tokens, false, block)
		return nil
	})
	_ = g.Wait()

	for _, side := range []struct {
		name string
		err  error
	}{{"YES", out.YesErr}, {"NO", out.NoErr}} {
		if side.err != nil {
			span.RecordError(side.err)
			s.logger.Warn(ctx, "pool read failed",
				append([]any{"proposal", proposal.Hex(), "side", side.name}, apperror.LogFields(side.err)...)...)
		}
	}

	s.logger.Debug(ctx, "proposal pools read",
		"proposal", proposal.Hex(),
		"block", block,
		"yes_found", out.Yes != nil && out.YesErr == nil,
		"no_found", out.No != nil && out.NoErr == nil,
	)
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// ReadPool reads one side of a proposal and fails with PoolNotFound when the
// factory has no pool for it.
func (s *LedgerService) ReadPool(ctx context.Context, proposal common.Address, yes bool) (*curve.CurvePool, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.read_pool",
		trace.WithAttributes(
			attribute.String("proposal", proposal.Hex()),
			attribute.Bool("yes", yes),
		),
	)
	defer span.End()

	block, err := s.reader.BlockNumber(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	tokens, err := s.OutcomeTokens(ctx, proposal, block)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	pool, err := s.readSide(ctx, tokens, yes, block)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if pool == nil {
		side := "NO"
		if yes {
			side = "YES"
		}
		return nil, apperror.NotFound(apperror.CodePoolNotFound,
			fmt.Sprintf("no %s pool for proposal %s", side, proposal.Hex()))
	}
	return pool, nil
}

// OutcomeTokens resolves the four wrapped outcome tokens of a proposal.
func (s *LedgerService) OutcomeTokens(ctx context.Context, proposal common.Address, block uint64) (domain.OutcomeTokens, error) {
	if cached, ok := s.tokens.Get(ctx, proposal); ok {
		return cached, nil
	}

	indices := []domain.OutcomeIndex{domain.YesCompany, domain.NoCompany, domain.YesCurrency, domain.NoCurrency}
	addrs := make([]common.Address, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	for i, idx := range indices {
		g.Go(func() error {
			addr, err := s.reader.OutcomeToken(gctx, proposal, idx, block)
			if err != nil {
				return err
			}
			addrs[i] = addr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.OutcomeTokens{}, err
	}

	for i, addr := range addrs {
		if addr == (common.Address{}) {
			return domain.OutcomeTokens{}, apperror.NotFound(apperror.CodeProposalNotFound,
				fmt.Sprintf("proposal %s has no %s token", proposal.Hex(), indices[i]))
		}
	}

	tokens := domain.OutcomeTokens{
		Proposal:    proposal,
		YesCompany:  addrs[0],
		NoCompany:   addrs[1],
		YesCurrency: addrs[2],
		NoCurrency:  addrs[3],
	}
	s.tokens.Set(ctx, proposal, tokens, s.cfg.TokenCacheTTL)
	return tokens, nil
}

// readSide builds the CurvePool for the YES or NO market, or nil when absent.
// Once the pool address is known a failure still returns a pool carrying it.
func (s *LedgerService) readSide(ctx context.Context, tokens domain.OutcomeTokens, yes bool, block uint64) (*curve.CurvePool, error) {
	company, currency := tokens.Pair(yes)

	poolAddr, err := s.reader.PoolByPair(ctx, company, currency, block)
	if err != nil {
		return nil, err
	}
	if poolAddr == (common.Address{}) {
		return nil, nil
	}

	state, err := s.reader.PoolState(ctx, poolAddr, block)
	if err != nil {
		return &curve.CurvePool{Address: poolAddr}, err
	}

	token0, err := s.resolveAsset(ctx, state.Token0)
	if err != nil {
		return &curve.CurvePool{Address: poolAddr}, err
	}
	token1, err := s.resolveAsset(ctx, state.Token1)
	if err != nil {
		return &curve.CurvePool{Address: poolAddr}, err
	}

	pool := &curve.CurvePool{
		Address:    poolAddr,
		Token0:     token0,
		Token1:     token1,
		IsInverted: state.Token0 != company,
		SqrtPrice:  state.SqrtPriceX96,
		Liquidity:  state.Liquidity,
		FeePips:    state.FeePips,
	}
	// An uninitialised pool reports sqrtPrice 0. That is bad ledger state,
	// not bad caller input, so the validation code is replaced.
	if err := pool.Validate(); err != nil {
		return pool, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("pool "+poolAddr.Hex()+" returned unusable state"),
			apperror.WithCause(err))
	}
	return pool, nil
}

// resolveAsset returns the registered token, reading its metadata once.
func (s *LedgerService) resolveAsset(ctx context.Context, addr common.Address) (*asset.Asset, error) {
	return s.assets.Resolve(s.cfg.ChainID, addr, func() (*asset.Asset, error) {
		symbol, decimals, err := s.reader.TokenMetadata(ctx, addr)
		if err != nil {
			return nil, err
		}
		a, err := asset.NewAsset(asset.NewAssetID(s.cfg.ChainID, addr), symbol, decimals)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeContractCallFailed, "token "+addr.Hex())
		}
		return a, nil
	})
}

// Close releases the token cache.
func (s *LedgerService) Close() {
	s.tokens.Close()
}
