package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/hodlwatch/hodlwatch"
)

// txFlags holds the flags shared by every transaction subcommand.
type txFlags struct {
	date        string
	btc         string
	fiat        string
	price       string
	fee         string
	feeCurrency string
	exchange    string
	from        string
	to          string
	memo        string
}

func (c *txFlags) setCommon(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", hodlwatch.Today().String(), "Date of the transaction (YYYY-MM-DD).")
	f.StringVar(&c.btc, "btc", "", "BTC quantity.")
	f.StringVar(&c.price, "price", "", "Fiat unit price of BTC at transaction time.")
	f.StringVar(&c.fee, "fee", "", "Fee amount.")
	f.StringVar(&c.feeCurrency, "fee-currency", hodlwatch.USD, "Fee currency (USD or BTC).")
	f.StringVar(&c.exchange, "exchange", "", "Exchange or venue of the transaction.")
	f.StringVar(&c.from, "from", "", "Source address or account.")
	f.StringVar(&c.to, "to", "", "Destination address or account.")
	f.StringVar(&c.memo, "memo", "", "Free-form note.")
}

// parse resolves the common flags into their typed values.
func (c *txFlags) parse() (day hodlwatch.Date, btc hodlwatch.BTCAmount, fiat, price hodlwatch.Money, fee hodlwatch.Fee, err error) {
	day, err = hodlwatch.ParseDate(c.date)
	if err != nil {
		return day, btc, fiat, price, fee, fmt.Errorf("parsing date: %w", err)
	}
	b, err := parseNumber(c.btc, "btc")
	if err != nil {
		return day, btc, fiat, price, fee, err
	}
	btc = hodlwatch.B(b)
	v, err := parseNumber(c.fiat, "fiat")
	if err != nil {
		return day, btc, fiat, price, fee, err
	}
	fiat = hodlwatch.M(v)
	p, err := parseNumber(c.price, "price")
	if err != nil {
		return day, btc, fiat, price, fee, err
	}
	price = hodlwatch.M(p)
	famount, err := parseNumber(c.fee, "fee")
	if err != nil {
		return day, btc, fiat, price, fee, err
	}
	fee = hodlwatch.NewFee(famount, c.feeCurrency)
	return day, btc, fiat, price, fee, nil
}

func parseNumber(s, name string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", name, err)
	}
	return d, nil
}

// record validates the transaction and appends it to the ledger.
func record(tx hodlwatch.Transaction, from, to, memo string) subcommands.ExitStatus {
	tx = hodlwatch.WithProvenance(tx, from, to, memo)
	if err := tx.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return EncodeTransaction(tx)
}

// --- buy ---

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of bitcoin for fiat" }
func (*buyCmd) Usage() string {
	return `hw buy -btc <quantity> -fiat <cost> [-price <unit price>] [-d <date>] [-fee <amount>]

  Records a buy in the ledger. The fiat cost excludes fees; when -price is
  omitted the unit price is derived from cost and quantity.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.setCommon(f)
	f.StringVar(&c.fiat, "fiat", "", "Fiat amount spent, excluding fees.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, btc, fiat, price, fee, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return record(hodlwatch.NewBuy(day, c.exchange, btc, fiat, price, fee), c.from, c.to, c.memo)
}

// --- sell ---

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a disposal of bitcoin for fiat" }
func (*sellCmd) Usage() string {
	return `hw sell -btc <quantity> -fiat <proceeds> [-price <unit price>] [-d <date>] [-fee <amount>]

  Records a sell in the ledger. Realized gains are computed later from the
  full transaction history, using the configured cost basis method.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.setCommon(f)
	f.StringVar(&c.fiat, "fiat", "", "Fiat amount received.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, btc, fiat, price, fee, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return record(hodlwatch.NewSell(day, c.exchange, btc, fiat, price, fee), c.from, c.to, c.memo)
}

// --- deposit ---

type depositCmd struct{ txFlags }

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record bitcoin transferred into the wallet" }
func (*depositCmd) Usage() string {
	return `hw deposit -btc <quantity> [-price <unit price>] [-d <date>] [-from <address>]

  Records an incoming transfer. Transfers move no fiat and create no tax lot;
  they only affect the BTC balance.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) { c.setCommon(f) }

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, btc, _, price, fee, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return record(hodlwatch.NewDeposit(day, c.exchange, btc, price, fee), c.from, c.to, c.memo)
}

// --- withdraw ---

type withdrawCmd struct{ txFlags }

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record bitcoin transferred out of the wallet" }
func (*withdrawCmd) Usage() string {
	return `hw withdraw -btc <quantity> [-price <unit price>] [-d <date>] [-to <address>]

  Records an outgoing transfer. Withdrawals are not disposals: they reduce the
  BTC balance but realize no gain.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) { c.setCommon(f) }

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, btc, _, price, fee, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return record(hodlwatch.NewWithdraw(day, c.exchange, btc, price, fee), c.from, c.to, c.memo)
}

// --- interest ---

type interestCmd struct{ txFlags }

func (*interestCmd) Name() string     { return "interest" }
func (*interestCmd) Synopsis() string { return "record bitcoin earned as yield" }
func (*interestCmd) Usage() string {
	return `hw interest -btc <quantity> [-price <unit price>] [-d <date>]

  Records bitcoin earned from an exchange earn program or lending.
`
}

func (c *interestCmd) SetFlags(f *flag.FlagSet) { c.setCommon(f) }

func (c *interestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, btc, _, price, fee, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return record(hodlwatch.NewInterest(day, c.exchange, btc, price, fee), c.from, c.to, c.memo)
}
