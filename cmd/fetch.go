package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct {
	date string
	ath  bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch the BTC price from the market data API" }
func (*fetchCmd) Usage() string {
	return `hw fetch [-d <date>] [-ath]

  Fetches the current spot price, a historical daily close, or the all-time
  high. Responses are cached on disk for the day.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Fetch the daily close for this date instead of the spot price.")
	f.BoolVar(&c.ath, "ath", false, "Fetch the all-time high instead of the spot price.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client := Prices()

	switch {
	case c.ath:
		ath, err := client.ATH()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("BTC all-time high: %s on %s\n", ath.Price, ath.Date)

	case c.date != "":
		day, err := hodlwatch.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		price, ok, err := client.PriceOn(day)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if !ok {
			fmt.Printf("No price recorded for %s.\n", day)
			return subcommands.ExitSuccess
		}
		fmt.Printf("BTC on %s: %s\n", day, price)

	default:
		price, err := client.Spot()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("BTC spot price: %s\n", price)
	}

	return subcommands.ExitSuccess
}
