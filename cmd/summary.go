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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	price string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a portfolio summary at the current price" }
func (*summaryCmd) Usage() string {
	return `hw summary [-price <spot>]

  Displays holdings, cost basis, unrealized gain and the short/long term
  split. The spot price is fetched unless -price overrides it.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "Spot price override; skips the price fetch.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	txs := ledger.Transactions()
	m := hodlwatch.AggregateMetrics(txs, price)
	split := hodlwatch.ClassifyHoldings(txs, now)

	printMarkdown(renderer.SummaryMarkdown(m, split, price, now))

	return subcommands.ExitSuccess
}

// spotPrice resolves the spot price, from the override flag or the price API.
func spotPrice(override string) (hodlwatch.Money, error) {
	if override != "" {
		d, err := parseNumber(override, "price")
		if err != nil {
			return hodlwatch.M(0), err
		}
		return hodlwatch.M(d), nil
	}
	return Prices().Spot()
}
