package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	start string
	end   string
	file  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions to CSV" }
func (*exportCmd) Usage() string {
	return `hw export [-s <start_date>] [-d <end_date>] [-f <file.csv>]

  Exports the ledger in the CSV import/export format, optionally restricted
  to a date range. Writes to stdout unless -f is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "The start date of the range. Defaults to the first transaction.")
	f.StringVar(&c.end, "d", "", "The end date of the range. Defaults to the last transaction.")
	f.StringVar(&c.file, "f", "", "Output file. Writes to stdout when omitted.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	start := ledger.OldestTransactionDate()
	if c.start != "" {
		if start, err = hodlwatch.ParseDate(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	end := ledger.NewestTransactionDate()
	if c.end != "" {
		if end, err = hodlwatch.ParseDate(c.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	period := hodlwatch.NewRange(start, end)

	selected := hodlwatch.NewLedger()
	for _, tx := range ledger.Transactions() {
		if period.Contains(tx.When()) {
			selected.Append(tx)
		}
	}

	out := os.Stdout
	if c.file != "" {
		if out, err = os.Create(c.file); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	if err := hodlwatch.ExportCSV(out, selected); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
