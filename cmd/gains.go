package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
	"github.com/hodlwatch/hodlwatch/renderer"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	method string
	price  string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "display realized and unrealized capital gains" }
func (*gainsCmd) Usage() string {
	return `hw gains [-method <fifo|lifo|hifo>] [-price <spot>]

  Replays the ledger with the selected lot matching method and reports
  realized gains, the remaining open lots, and the estimated tax liability.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "method", "", "The cost basis method (fifo, lifo, hifo). Defaults to the configured method.")
	f.StringVar(&c.price, "price", "", "Spot price override; skips the price fetch.")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	raw := c.method
	if raw == "" {
		raw = Config().Tax.Method
	}
	method, err := hodlwatch.ParseCostBasisMethod(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	price, err := spotPrice(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching spot price: %v\n", err)
		return subcommands.ExitFailure
	}

	now := hodlwatch.Today()
	r := hodlwatch.ComputeCostBasis(ledger.Transactions(), method, price, now)

	printMarkdown(renderer.GainsMarkdown(r, now))

	return subcommands.ExitSuccess
}
