package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
	"github.com/hodlwatch/hodlwatch/renderer"
)

// performanceCmd holds the flags for the 'performance' subcommand.
type performanceCmd struct {
	price string
}

func (*performanceCmd) Name() string { return "performance" }
func (*performanceCmd) Synopsis() string {
	return "display time-series performance: returns, CAGR, drawdown"
}
func (*performanceCmd) Usage() string {
	return `hw performance [-price <spot>]

  Reconstructs the portfolio value over time and reports window returns,
  total return, CAGR over the available horizons, the maximum drawdown and
  the HODL time. Windows the history cannot support render as n/a.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "Spot price override; skips the price fetch.")
}

func (c *performanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	client := Prices()

	price, err := spotPrice(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching spot price: %v\n", err)
		return subcommands.ExitFailure
	}

	// A missing all-time high only drops the ATH distance from the report.
	ath, err := client.ATH()
	if err != nil {
		log.Printf("warning, all-time high unavailable: %v", err)
		ath = hodlwatch.ATH{}
	}

	now := hodlwatch.Today()
	p := hodlwatch.ComputePerformance(ledger.Transactions(), price, client.Lookup(), ath, now)

	printMarkdown(renderer.PerformanceMarkdown(p, now))

	return subcommands.ExitSuccess
}
