// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"fmt"
	"io"
	"os"

	"github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// ConsoleReporter prints simulation results for the CLI.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to w, or stdout when w is nil.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleReporter{out: w}
}

// Report outputs both legs of an arbitrage simulation.
func (r *ConsoleReporter) Report(res *domain.ArbitrageResult) {
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "ARBITRAGE SIMULATION")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Proposal:       %s\n", res.Proposal.Hex())
	if res.Block != 0 {
		fmt.Fprintf(r.out, "Block:          #%d\n", res.Block)
	}
	fmt.Fprintf(r.out, "Model:          %s\n", res.Model)
	fmt.Fprintf(r.out, "YES target:     %s\n", res.Targets.Yes.Rate().StringFixed(6))
	fmt.Fprintf(r.out, "NO target:      %s\n", res.Targets.No.Rate().StringFixed(6))

	for _, leg := range res.Legs() {
		r.reportLeg(leg)
	}
	fmt.Fprintln(r.out, "================================================================================")
}

func (r *ConsoleReporter) reportLeg(leg domain.PoolLeg) {
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	if !leg.Found() {
		if leg.Err != nil {
			fmt.Fprintf(r.out, "%s POOL: UNAVAILABLE %s (%s)\n", leg.Side, apperror.GetCode(leg.Err), leg.Err)
			return
		}
		fmt.Fprintf(r.out, "%s POOL: NOT FOUND\n", leg.Side)
		return
	}
	fmt.Fprintf(r.out, "%s POOL (%s)\n", leg.Side, leg.Pool.Hex())
	fmt.Fprintf(r.out, "  Token0:   %s (%s)\n", leg.Token0.Hex(), leg.Token0Symbol)
	fmt.Fprintf(r.out, "  Token1:   %s (%s)\n", leg.Token1.Hex(), leg.Token1Symbol)
	fmt.Fprintf(r.out, "  Inverted: %t\n", leg.IsInverted)
	fmt.Fprintf(r.out, "  Current:  %s\n", leg.CurrentPriceHuman.Rate().StringFixed(6))

	if leg.Err != nil {
		fmt.Fprintf(r.out, "  Error:    %s (%s)\n", apperror.GetCode(leg.Err), leg.Err)
		return
	}
	fmt.Fprintf(r.out, "  Target:   %s\n", leg.TargetPriceHuman.Rate().StringFixed(6))

	actions := leg.Actions()
	if len(actions) == 0 {
		fmt.Fprintln(r.out, "  Action:   none, pool already at target")
		return
	}
	for _, a := range actions {
		fmt.Fprintf(r.out, "  Action:   %-4s %s %s\n", a.Kind, a.Amount.StringFixed(4), a.Symbol)
	}
}
