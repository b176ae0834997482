package hodlwatch

// helpers for tests to build dated transactions from consts. The fiat leg and
// the recorded price are kept consistent so engine results are exact.

func day(s string) Date { return MustParseDate(s) }

func buy(date string, btc, cost float64) Buy {
	return NewBuy(day(date), "", B(btc), M(cost), M(cost/btc), Fee{})
}

func sellTx(date string, btc, proceeds float64) Sell {
	return NewSell(day(date), "", B(btc), M(proceeds), M(proceeds/btc), Fee{})
}

func deposit(date string, btc float64) Deposit {
	return NewDeposit(day(date), "", B(btc), M(0), Fee{})
}

func withdraw(date string, btc float64) Withdraw {
	return NewWithdraw(day(date), "", B(btc), M(0), Fee{})
}

func interest(date string, btc, price float64) Interest {
	return NewInterest(day(date), "", B(btc), M(price), Fee{})
}
