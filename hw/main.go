// Command hw tracks a personal bitcoin portfolio from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/hodlwatch/hodlwatch/cmd"
)

func main() {
	// Shell completion: a no-op in a normal run, answers the shell and exits
	// when invoked as a completer. Must happen before flag.Parse.
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"buy":         {Flags: txCompletion()},
			"sell":        {Flags: txCompletion()},
			"deposit":     {Flags: txCompletion()},
			"withdraw":    {Flags: txCompletion()},
			"interest":    {Flags: txCompletion()},
			"import":      {Flags: map[string]complete.Predictor{"f": predict.Files("*.csv")}},
			"export":      {Flags: map[string]complete.Predictor{"f": predict.Files("*.csv")}},
			"summary":     {},
			"gains":       {Flags: map[string]complete.Predictor{"method": predict.Set{"fifo", "lifo", "hifo"}}},
			"performance": {},
			"fetch":       {},
			"serve":       {},
		},
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
		},
	}
	completer.Complete("hw")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func txCompletion() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"d":            predict.Nothing,
		"btc":          predict.Nothing,
		"fiat":         predict.Nothing,
		"price":        predict.Nothing,
		"fee":          predict.Nothing,
		"fee-currency": predict.Set{"USD", "BTC"},
		"exchange":     predict.Nothing,
	}
}
