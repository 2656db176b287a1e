package infra

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/asset"
)

func TestConsoleReporter_Report(t *testing.T) {
	yes := domain.NotFoundLeg(domain.SideYes)
	yes.Pool = common.HexToAddress("0xa1")
	yes.Token0Symbol, yes.Token1Symbol = "YES_GNO", "YES_sDAI"
	yes.Token0Decimals, yes.Token1Decimals = 18, 18
	yes.Amount0Delta = big.NewInt(-1_500_000_000_000_000_000)
	yes.Amount1Delta, _ = new(big.Int).SetString("182000000000000000000", 10)
	yes.TargetPriceHuman = asset.MustPriceFromWad(big.NewInt(121_000_000_000_000_000))

	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(&domain.ArbitrageResult{
		Proposal: common.HexToAddress("0xf0"),
		Model:    "impact-split",
		Yes:      yes,
		No:       domain.NotFoundLeg(domain.SideNo),
	})
	out := buf.String()

	for _, want := range []string{
		"YES POOL (" + yes.Pool.Hex() + ")",
		"BUY  1.5000 YES_GNO",
		"SELL 182.0000 YES_sDAI",
		"NO POOL: NOT FOUND",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleReporter_UnreadableLeg(t *testing.T) {
	no := domain.NotFoundLeg(domain.SideNo)
	no.Err = apperror.New(apperror.CodeEthereumRPCError)

	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(&domain.ArbitrageResult{
		Yes: domain.NotFoundLeg(domain.SideYes),
		No:  no,
	})
	out := buf.String()
	if !strings.Contains(out, "NO POOL: UNAVAILABLE ETHEREUM_RPC_ERROR") {
		t.Errorf("output missing unavailable NO leg:\n%s", out)
	}
	if !strings.Contains(out, "YES POOL: NOT FOUND") {
		t.Errorf("output missing YES sentinel:\n%s", out)
	}
}
