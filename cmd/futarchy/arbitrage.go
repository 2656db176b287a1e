package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	arbitrageDI "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/di"
	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/infra"
)

func newArbitrageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbitrage",
		Short: "Simulate the trades that move both conditional pools to their targets",
		RunE:  runArbitrage,
	}

	cmd.Flags().String("proposal", "", "proposal address")
	cmd.Flags().String("spot", "", "spot price of the company token in currency; empty uses the spot source")
	cmd.Flags().String("probability", "", "probability the proposal passes, in [0, 1]")
	cmd.Flags().String("impact", "0", "expected price impact of the proposal, may be negative")
	_ = cmd.MarkFlagRequired("proposal")
	_ = cmd.MarkFlagRequired("probability")

	return cmd
}

func runArbitrage(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proposal, _ := cmd.Flags().GetString("proposal")
	spot, _ := cmd.Flags().GetString("spot")
	probability, _ := cmd.Flags().GetString("probability")
	impact, _ := cmd.Flags().GetString("impact")

	if !common.IsHexAddress(proposal) {
		return fmt.Errorf("invalid proposal address %q", proposal)
	}
	req, err := domain.ParseRequest(common.HexToAddress(proposal), spot, probability, impact)
	if err != nil {
		return err
	}

	rt, err := bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := arbitrageDI.GetArbitrageService(rt.mono.Services()).SimulateProposal(ctx, req)
	if err != nil {
		return err
	}
	infra.NewConsoleReporter(cmd.OutOrStdout()).Report(res)
	return nil
}
