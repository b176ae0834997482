package hodlwatch

import (
	"iter"
	"sort"
)

// Ledger represents the list of all transactions of a portfolio.
//
// In a Ledger transactions are always in chronological order. Transactions on
// the same day keep their insertion order (the sort is stable).
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Append appends transactions to this ledger and maintains the chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns the chronologically ordered transaction list.
// The returned slice is the ledger's backing store; callers must not mutate it.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// All returns an iterator over transactions in chronological order.
func (l *Ledger) All() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// OldestTransactionDate returns the date of the earliest transaction, or the
// zero date if the ledger is empty.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].When()
}

// NewestTransactionDate returns the date of the latest transaction, or the
// zero date if the ledger is empty.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}

// BTCBalance computes the total bitcoin held on a specific date, counting
// buys, sells, transfers and interest.
func (l *Ledger) BTCBalance(on Date) BTCAmount {
	var balance BTCAmount
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		switch v := tx.(type) {
		case Buy:
			balance = balance.Add(v.BTC)
		case Sell:
			balance = balance.Sub(v.BTC)
		case Deposit:
			balance = balance.Add(v.BTC)
		case Withdraw:
			balance = balance.Sub(v.BTC)
		case Interest:
			balance = balance.Add(v.BTC)
		}
	}
	return balance
}

// FirstBuyDate returns the date of the first buy, and whether one exists.
func (l *Ledger) FirstBuyDate() (Date, bool) {
	for _, tx := range l.transactions {
		if tx.What() == KindBuy {
			return tx.When(), true
		}
	}
	return Date{}, false
}

// LastSellDate returns the date of the most recent sell, and whether one exists.
func (l *Ledger) LastSellDate() (Date, bool) {
	for i := len(l.transactions) - 1; i >= 0; i-- {
		if l.transactions[i].What() == KindSell {
			return l.transactions[i].When(), true
		}
	}
	return Date{}, false
}

// ByKind returns a predicate that filters transactions by kind.
func ByKind(kinds ...Kind) func(Transaction) bool {
	return func(tx Transaction) bool {
		for _, k := range kinds {
			if tx.What() == k {
				return true
			}
		}
		return false
	}
}
