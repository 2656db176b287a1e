package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	pricingDI "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/di"
	pricing "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/domain"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against a proposal's YES or NO pool",
		RunE:  runQuote,
	}

	cmd.Flags().String("proposal", "", "proposal address")
	cmd.Flags().Bool("yes", true, "quote the YES pool (false for NO)")
	cmd.Flags().Bool("company-in", true, "sell the company token (false to buy it with currency)")
	cmd.Flags().String("amount", "", "input amount in human units")
	cmd.Flags().String("slippage", "", "slippage fraction, default from config")
	_ = cmd.MarkFlagRequired("proposal")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := quoteRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	rt, err := bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer rt.close()

	if req.Slippage.IsZero() && !cmd.Flags().Changed("slippage") {
		req.Slippage = decimal.RequireFromString(rt.cfg.Quote.DefaultSlippage)
	}

	res, err := pricingDI.GetQuoteService(rt.mono.Services()).QuoteProposal(ctx, req)
	if err != nil {
		return err
	}
	printQuote(cmd.OutOrStdout(), req, res)
	return nil
}

func quoteRequestFromFlags(cmd *cobra.Command) (pricing.QuoteRequest, error) {
	proposal, _ := cmd.Flags().GetString("proposal")
	yes, _ := cmd.Flags().GetBool("yes")
	companyIn, _ := cmd.Flags().GetBool("company-in")
	amount, _ := cmd.Flags().GetString("amount")
	slippage, _ := cmd.Flags().GetString("slippage")

	if !common.IsHexAddress(proposal) {
		return pricing.QuoteRequest{}, fmt.Errorf("invalid proposal address %q", proposal)
	}
	req := pricing.QuoteRequest{
		Proposal:            common.HexToAddress(proposal),
		IsYesPool:           yes,
		IsInputCompanyToken: companyIn,
	}
	var err error
	if req.Amount, err = decimal.NewFromString(amount); err != nil {
		return req, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if slippage != "" {
		if req.Slippage, err = decimal.NewFromString(slippage); err != nil {
			return req, fmt.Errorf("invalid slippage %q: %w", slippage, err)
		}
	}
	return req, nil
}

func printQuote(w io.Writer, req pricing.QuoteRequest, q *pricing.QuoteResult) {
	fmt.Fprintln(w, "================================================================================")
	fmt.Fprintf(w, "SWAP QUOTE  %s pool %s  block %d\n", req.Side(), q.Pool.Hex(), q.Block)
	fmt.Fprintln(w, "================================================================================")
	fmt.Fprintf(w, "  Input:              %s %s\n", q.AmountIn.ToDecimal(), q.TokenIn().Symbol())
	fmt.Fprintf(w, "  Expected receive:   %s %s\n", q.ExpectedReceive.ToDecimal(), q.TokenOut().Symbol())
	fmt.Fprintf(w, "  Min receive:        %s %s (slippage %s)\n", q.MinReceive.ToDecimal(), q.TokenOut().Symbol(), req.Slippage)
	fmt.Fprintf(w, "  Execution price:    %s\n", q.ExecutionPrice)
	fmt.Fprintf(w, "  Effective price:    %s\n", q.EffectivePrice)
	fmt.Fprintf(w, "  Current pool price: %s\n", q.CurrentPoolPrice)
	fmt.Fprintf(w, "  Price after:        %s (%s bps)\n", q.PriceAfter, q.PriceImpact.BasisPoints.StringFixed(2))
	fmt.Fprintf(w, "  Start sqrtPriceX96: %s\n", q.StartSqrtPrice.Dec())
	fmt.Fprintf(w, "  Raw amount out:     %s\n", q.RawAmountOut)
}
