package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/fixedpoint"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

var (
	proposal = common.HexToAddress("0x9590dAF4d5cd4009c3F9767C5E7668175cFd37CF")
	tokens   = [4]common.Address{
		common.HexToAddress("0x01"), // YES company
		common.HexToAddress("0x02"), // NO company
		common.HexToAddress("0x03"), // YES currency
		common.HexToAddress("0x04"), // NO currency
	}
	yesPool = common.HexToAddress("0xaa")
	noPool  = common.HexToAddress("0xbb")
)

type fakeReader struct {
	// uninitialisedNo deploys a NO pool whose state was never initialised.
	uninitialisedNo bool

	outcomeCalls atomic.Int32
	metaCalls    atomic.Int32

	mu     sync.Mutex
	blocks map[uint64]int
}

func (f *fakeReader) seen(block uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blocks == nil {
		f.blocks = map[uint64]int{}
	}
	f.blocks[block]++
}

func (f *fakeReader) BlockNumber(context.Context) (uint64, error) {
	return 777, nil
}

func (f *fakeReader) OutcomeToken(_ context.Context, p common.Address, idx domain.OutcomeIndex, block uint64) (common.Address, error) {
	f.outcomeCalls.Add(1)
	f.seen(block)
	if p != proposal {
		return common.Address{}, nil
	}
	return tokens[idx], nil
}

func (f *fakeReader) PoolByPair(_ context.Context, a, b common.Address, block uint64) (common.Address, error) {
	f.seen(block)
	if a == tokens[0] && b == tokens[2] {
		return yesPool, nil
	}
	if f.uninitialisedNo && a == tokens[1] && b == tokens[3] {
		return noPool, nil
	}
	return common.Address{}, nil
}

func (f *fakeReader) PoolState(_ context.Context, pool common.Address, block uint64) (*domain.PoolState, error) {
	f.seen(block)
	if pool == noPool {
		return &domain.PoolState{
			Address:      pool,
			Token0:       tokens[3],
			Token1:       tokens[1],
			SqrtPriceX96: new(uint256.Int),
			Liquidity:    new(uint256.Int),
			Block:        block,
		}, nil
	}
	// currency sorts first, so the company token is token1
	return &domain.PoolState{
		Address:      pool,
		Token0:       tokens[2],
		Token1:       tokens[0],
		SqrtPriceX96: new(uint256.Int).Set(fixedpoint.Q96),
		Liquidity:    uint256.NewInt(1_000_000_000_000_000_000),
		FeePips:      500,
		Block:        block,
	}, nil
}

func (f *fakeReader) TokenMetadata(_ context.Context, token common.Address) (string, uint8, error) {
	f.metaCalls.Add(1)
	if token == tokens[0] {
		return "YES_GNO", 18, nil
	}
	return "YES_sDAI", 18, nil
}

func newService(r app.ChainReader) *app.LedgerService {
	return app.NewLedgerService(r, asset.NewRegistry(), app.Config{ChainID: asset.ChainIDGnosis}, logger.NewNop())
}

func TestReadProposalPools(t *testing.T) {
	reader := &fakeReader{}
	svc := newService(reader)
	defer svc.Close()

	pools, err := svc.ReadProposalPools(context.Background(), proposal)
	if err != nil {
		t.Fatalf("ReadProposalPools: %v", err)
	}
	if pools.Block != 777 {
		t.Errorf("block = %d", pools.Block)
	}
	if pools.No != nil {
		t.Errorf("NO pool should be absent, got %s", pools.No.Address.Hex())
	}
	yes := pools.Pool(true)
	if yes == nil {
		t.Fatal("YES pool missing")
	}
	if !yes.IsInverted {
		t.Error("company token is token1, pool should be inverted")
	}
	if yes.OutcomeToken().Symbol() != "YES_GNO" || yes.FeePips != 500 {
		t.Errorf("outcome token %s fee %d", yes.OutcomeToken().Symbol(), yes.FeePips)
	}

	reader.mu.Lock()
	if len(reader.blocks) != 1 || reader.blocks[777] == 0 {
		t.Errorf("reads spread over blocks %v, want all at 777", reader.blocks)
	}
	reader.mu.Unlock()
}

func TestCachesTokensAndMetadata(t *testing.T) {
	reader := &fakeReader{}
	svc := newService(reader)
	defer svc.Close()

	for i := 0; i < 3; i++ {
		if _, err := svc.ReadProposalPools(context.Background(), proposal); err != nil {
			t.Fatalf("ReadProposalPools: %v", err)
		}
	}
	if got := reader.outcomeCalls.Load(); got != 4 {
		t.Errorf("outcome token reads = %d, want 4", got)
	}
	if got := reader.metaCalls.Load(); got != 2 {
		t.Errorf("metadata reads = %d, want 2", got)
	}
}

func TestReadPool(t *testing.T) {
	svc := newService(&fakeReader{})
	defer svc.Close()

	if _, err := svc.ReadPool(context.Background(), proposal, true); err != nil {
		t.Fatalf("ReadPool(YES): %v", err)
	}

	_, err := svc.ReadPool(context.Background(), proposal, false)
	if apperror.GetCode(err) != apperror.CodePoolNotFound {
		t.Fatalf("err = %v, want pool not found", err)
	}
}

func TestUnknownProposal(t *testing.T) {
	svc := newService(&fakeReader{})
	defer svc.Close()

	_, err := svc.ReadProposalPools(context.Background(), common.HexToAddress("0xbad"))
	if !errors.Is(err, apperror.New(apperror.CodeProposalNotFound)) {
		t.Fatalf("err = %v, want proposal not found", err)
	}
}

func TestReadProposalPools_UnusablePoolStaysOnItsSide(t *testing.T) {
	svc := newService(&fakeReader{uninitialisedNo: true})
	defer svc.Close()

	pools, err := svc.ReadProposalPools(context.Background(), proposal)
	if err != nil {
		t.Fatalf("ReadProposalPools: %v", err)
	}
	if pools.Yes == nil || pools.YesErr != nil {
		t.Fatalf("YES side lost: pool=%v err=%v", pools.Yes, pools.YesErr)
	}
	if got := apperror.GetCode(pools.Err(false)); got != apperror.CodeContractCallFailed {
		t.Errorf("NO err code = %s, want %s", got, apperror.CodeContractCallFailed)
	}
	if apperror.StatusCode(pools.NoErr) == 400 {
		t.Error("bad ledger state must not surface as a client error")
	}
	if pools.No == nil || pools.No.Address != noPool {
		t.Errorf("NO side should keep its address, got %v", pools.No)
	}

	if _, err := svc.ReadPool(context.Background(), proposal, false); apperror.GetCode(err) != apperror.CodeContractCallFailed {
		t.Errorf("ReadPool(NO) err = %v", err)
	}
}
