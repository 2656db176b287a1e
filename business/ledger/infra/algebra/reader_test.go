package algebra_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/business/ledger/infra/algebra"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

var (
	factory  = common.HexToAddress("0xA0864cCA6E114013AB0e27cbd5B6f4c8947da766")
	proposal = common.HexToAddress("0x9590dAF4d5cd4009c3F9767C5E7668175cFd37CF")
	yesGNO   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	noGNO    = common.HexToAddress("0x1000000000000000000000000000000000000002")
	yesSDAI  = common.HexToAddress("0x1000000000000000000000000000000000000003")
	noSDAI   = common.HexToAddress("0x1000000000000000000000000000000000000004")
	yesPool  = common.HexToAddress("0x2000000000000000000000000000000000000001")
	codeless = common.HexToAddress("0x3000000000000000000000000000000000000001")
)

type fakeChain struct {
	t    *testing.T
	abis []abi.ABI

	mu     sync.Mutex
	blocks []*big.Int
}

func newFakeChain(t *testing.T) *fakeChain {
	f := &fakeChain{t: t}
	for _, def := range []string{algebra.ProposalABI, algebra.FactoryABI, algebra.PoolABI, algebra.ERC20ABI} {
		parsed, err := abi.JSON(strings.NewReader(def))
		if err != nil {
			t.Fatalf("parse abi: %v", err)
		}
		f.abis = append(f.abis, parsed)
	}
	return f
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	return 4242, nil
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.blocks = append(f.blocks, block)
	f.mu.Unlock()

	if *msg.To == codeless {
		return nil, nil
	}
	for _, parsed := range f.abis {
		method, err := parsed.MethodById(msg.Data[:4])
		if err != nil {
			continue
		}
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			f.t.Fatalf("unpack %s: %v", method.Name, err)
		}
		out := f.answer(*msg.To, method.Name, args)
		if out == nil {
			return nil, nil
		}
		return method.Outputs.Pack(out...)
	}
	return nil, errors.New("execution reverted")
}

func (f *fakeChain) answer(to common.Address, method string, args []any) []any {
	switch method {
	case "wrappedOutcome":
		if to != proposal {
			return []any{common.Address{}, []byte{}}
		}
		tokens := []common.Address{yesGNO, noGNO, yesSDAI, noSDAI}
		return []any{tokens[args[0].(*big.Int).Int64()], []byte{}}
	case "poolByPair":
		a, b := args[0].(common.Address), args[1].(common.Address)
		if bytes.Compare(a[:], b[:]) > 0 {
			a, b = b, a
		}
		if a == yesGNO && b == yesSDAI {
			return []any{yesPool}
		}
		return []any{common.Address{}}
	case "globalState":
		price, _ := new(big.Int).SetString("79228162514264337593543950336", 10)
		return []any{price, big.NewInt(-12), uint16(3000), uint16(7), uint8(0), uint8(0), true}
	case "liquidity":
		return []any{big.NewInt(1_000_000_000_000_000_000)}
	case "token0":
		return []any{yesGNO}
	case "token1":
		return []any{yesSDAI}
	case "decimals":
		return []any{uint8(18)}
	case "symbol":
		if to == yesGNO {
			return []any{"YES_GNO"}
		}
		return []any{"YES_sDAI"}
	}
	return nil
}

func newReader(t *testing.T, chain *fakeChain) *algebra.Reader {
	t.Helper()
	r, err := algebra.NewReader(chain, algebra.Config{FactoryAddress: factory}, nil, logger.NewNop())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

func TestOutcomeTokens(t *testing.T) {
	r := newReader(t, newFakeChain(t))
	ctx := context.Background()

	got, err := r.OutcomeToken(ctx, proposal, domain.NoCurrency, 100)
	if err != nil {
		t.Fatalf("OutcomeToken: %v", err)
	}
	if got != noSDAI {
		t.Errorf("NO currency = %s, want %s", got.Hex(), noSDAI.Hex())
	}
}

func TestPoolByPairIsOrderInsensitive(t *testing.T) {
	r := newReader(t, newFakeChain(t))
	ctx := context.Background()

	for _, pair := range [][2]common.Address{{yesGNO, yesSDAI}, {yesSDAI, yesGNO}} {
		got, err := r.PoolByPair(ctx, pair[0], pair[1], 100)
		if err != nil {
			t.Fatalf("PoolByPair: %v", err)
		}
		if got != yesPool {
			t.Errorf("pool = %s, want %s", got.Hex(), yesPool.Hex())
		}
	}

	got, err := r.PoolByPair(ctx, noGNO, noSDAI, 100)
	if err != nil {
		t.Fatalf("PoolByPair: %v", err)
	}
	if got != (common.Address{}) {
		t.Errorf("missing pool = %s, want zero address", got.Hex())
	}
}

func TestPoolStatePinsBlock(t *testing.T) {
	chain := newFakeChain(t)
	r := newReader(t, chain)

	state, err := r.PoolState(context.Background(), yesPool, 4242)
	if err != nil {
		t.Fatalf("PoolState: %v", err)
	}
	if state.SqrtPriceX96.Dec() != "79228162514264337593543950336" {
		t.Errorf("sqrt price = %s", state.SqrtPriceX96.Dec())
	}
	if state.Liquidity.Uint64() != 1_000_000_000_000_000_000 {
		t.Errorf("liquidity = %s", state.Liquidity.Dec())
	}
	if state.Tick != -12 || state.FeePips != 3000 {
		t.Errorf("tick/fee = %d/%d", state.Tick, state.FeePips)
	}
	if state.Token0 != yesGNO || state.Token1 != yesSDAI {
		t.Errorf("tokens = %s/%s", state.Token0.Hex(), state.Token1.Hex())
	}

	for i, b := range chain.blocks {
		if b == nil || b.Uint64() != 4242 {
			t.Errorf("call %d read at block %v, want 4242", i, b)
		}
	}
}

func TestTokenMetadata(t *testing.T) {
	r := newReader(t, newFakeChain(t))

	symbol, decimals, err := r.TokenMetadata(context.Background(), yesGNO)
	if err != nil {
		t.Fatalf("TokenMetadata: %v", err)
	}
	if symbol != "YES_GNO" || decimals != 18 {
		t.Errorf("got %s/%d", symbol, decimals)
	}
}

func TestEmptyReturnIsCallFailure(t *testing.T) {
	r := newReader(t, newFakeChain(t))

	// an address without code answers every call with empty data
	_, err := r.PoolState(context.Background(), codeless, 1)
	if apperror.GetCode(err) != apperror.CodeContractCallFailed {
		t.Fatalf("err = %v, want contract call failed", err)
	}
}

func TestRevertMapsToContractCallFailed(t *testing.T) {
	chain := newFakeChain(t)
	chain.abis = nil // every call reverts
	r := newReader(t, chain)

	_, err := r.PoolByPair(context.Background(), yesGNO, yesSDAI, 1)
	if apperror.GetCode(err) != apperror.CodeContractCallFailed {
		t.Fatalf("err = %v, want contract call failed", err)
	}
}
