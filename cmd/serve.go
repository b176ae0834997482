package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/subcommands"

	"github.com/hodlwatch/hodlwatch"
	"github.com/hodlwatch/hodlwatch/server"
	"github.com/hodlwatch/hodlwatch/store"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the portfolio JSON API" }
func (*serveCmd) Usage() string {
	return `hw serve [-addr <host:port>]

  Serves the portfolio analytics over HTTP, backed by the SQLite transaction
  database. Runs until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to the configured address.")
}

func (c *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := Config()

	addr := c.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	method, err := hodlwatch.ParseCostBasisMethod(cfg.Tax.Method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", cfg.Database.Path, err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	s := server.New(db, Prices(), method)

	log.Printf("serving on http://%s", addr)
	if err := http.ListenAndServe(addr, s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
