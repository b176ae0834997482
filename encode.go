package hodlwatch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are persisted as plain JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// txRow is the superset of all transaction fields, used to decode a single
// JSONL line before dispatching on its type tag.
type txRow struct {
	baseTx
	BTC         BTCAmount       `json:"btc"`
	Cost        decimal.Decimal `json:"cost"`
	Proceeds    decimal.Decimal `json:"proceeds"`
	Price       decimal.Decimal `json:"price"`
	FeeAmount   decimal.Decimal `json:"fee"`
	FeeCurrency string          `json:"feeCurrency"`
}

func (r txRow) fee() Fee {
	if r.FeeAmount.IsZero() {
		return Fee{}
	}
	return NewFee(r.FeeAmount, r.FeeCurrency)
}

// DecodeLedger reads a ledger in JSONL format: one transaction object per
// line, dispatched on the "type" field. Empty lines are skipped. Every
// transaction is validated before being appended.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var row txRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("line %d: invalid transaction: %w", line, err)
		}
		var tx Transaction
		switch row.Type {
		case KindBuy:
			tx = Buy{baseTx: row.baseTx, BTC: row.BTC, Cost: NewMoney(row.Cost, USD), Price: NewMoney(row.Price, USD), Fee: row.fee()}
		case KindSell:
			tx = Sell{baseTx: row.baseTx, BTC: row.BTC, Proceeds: NewMoney(row.Proceeds, USD), Price: NewMoney(row.Price, USD), Fee: row.fee()}
		case KindDeposit:
			tx = Deposit{baseTx: row.baseTx, BTC: row.BTC, Price: NewMoney(row.Price, USD), Fee: row.fee()}
		case KindWithdraw:
			tx = Withdraw{baseTx: row.baseTx, BTC: row.BTC, Price: NewMoney(row.Price, USD), Fee: row.fee()}
		case KindInterest:
			tx = Interest{baseTx: row.baseTx, BTC: row.BTC, Price: NewMoney(row.Price, USD), Fee: row.fee()}
		default:
			return nil, fmt.Errorf("line %d: unknown transaction type %q", line, row.Type)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, row.Type, err)
		}
		ledger.Append(tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger in JSONL format, one transaction per line,
// in chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.Transactions() {
		raw, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("encoding %s transaction: %w", tx.What(), err)
		}
		if _, err := w.Write(append(raw, '\n')); err != nil {
			return err
		}
	}
	return nil
}
