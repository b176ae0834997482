package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV export" }
func (*importCmd) Usage() string {
	return `hw import -f <file.csv>

  Imports exchange CSV exports into the ledger. The file must carry at least
  the date, type and btc columns; rows are validated before anything is
  written.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "CSV file to import. Reads stdin when omitted.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := os.Stdin
	if c.file != "" {
		var err error
		if in, err = os.Open(c.file); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer in.Close()
	}

	txs, err := hodlwatch.ImportCSV(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(txs) == 0 {
		fmt.Println("Nothing to import.")
		return subcommands.ExitSuccess
	}

	for _, tx := range txs {
		if status := EncodeTransaction(tx); status != subcommands.ExitSuccess {
			return status
		}
	}

	fmt.Printf("Imported %d transactions.\n", len(txs))
	return subcommands.ExitSuccess
}
