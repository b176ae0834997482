// Package cmd implements the CLI application to track a bitcoin portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
	"github.com/hodlwatch/hodlwatch/coingecko"
	"github.com/hodlwatch/hodlwatch/config"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")
	c.Register(&interestCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&exportCmd{}, "transactions")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")

	c.Register(&fetchCmd{}, "prices")
	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format). Defaults to the configured path.")

var appConfig *config.Config

// Config loads the application configuration once.
func Config() config.Config {
	if appConfig == nil {
		c, err := config.Load()
		if err != nil {
			log.Printf("warning, cannot load config, using defaults: %v", err)
		}
		appConfig = &c
	}
	return *appConfig
}

// LedgerPath returns the ledger file path, preferring the -ledger-file flag.
func LedgerPath() string {
	if *ledgerFile != "" {
		return *ledgerFile
	}
	return Config().Ledger.Path
}

// DecodeLedger loads the ledger from the app ledger path. A missing file is
// an empty ledger, not an error.
func DecodeLedger() (*hodlwatch.Ledger, error) {
	f, err := os.Open(LedgerPath())
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger does not exist, starting from an empty one")
		return hodlwatch.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hodlwatch.DecodeLedger(f)
}

// EncodeTransaction appends a single transaction to the app ledger file.
func EncodeTransaction(tx hodlwatch.Transaction) subcommands.ExitStatus {
	filename := LedgerPath()
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger directory: %v\n", err)
		return subcommands.ExitFailure
	}
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	ledger := hodlwatch.NewLedger()
	ledger.Append(tx)
	if err := hodlwatch.EncodeLedger(f, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended %s to %s\n", tx.What(), filename)
	return subcommands.ExitSuccess
}

// Prices returns the configured price client.
func Prices() *coingecko.Client {
	c := Config()
	return coingecko.NewClient(c.Prices.BaseURL, c.Prices.CacheDir)
}

// printMarkdown renders a markdown report on the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to the raw markdown.
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
