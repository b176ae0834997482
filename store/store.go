// Package store persists the transaction history in a local SQLite database.
// It backs the HTTP server, where transactions are managed through the API
// rather than a hand-edited ledger file.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hodlwatch/hodlwatch"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id            TEXT PRIMARY KEY,
	date          TEXT NOT NULL,
	type          TEXT NOT NULL,
	btc           TEXT NOT NULL,
	fiat          TEXT NOT NULL DEFAULT '0',
	price         TEXT NOT NULL DEFAULT '0',
	fee           TEXT NOT NULL DEFAULT '0',
	fee_currency  TEXT NOT NULL DEFAULT '',
	exchange      TEXT NOT NULL DEFAULT '',
	from_address  TEXT NOT NULL DEFAULT '',
	to_address    TEXT NOT NULL DEFAULT '',
	memo          TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

// Open opens (or creates) the SQLite database at path and ensures the schema
// exists. Amounts are stored as decimal strings, never floats, so nothing is
// lost to binary rounding. A single connection is enough for a personal tool
// and sidesteps SQLite write contention.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{db: db}, nil
}

// DB wraps the SQLite handle and exposes the transaction repository.
type DB struct {
	db *sql.DB
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }

// Insert stores one transaction. A transaction without an ID gets one.
func (d *DB) Insert(tx hodlwatch.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid transaction: %w", err)
	}
	row := rowOf(tx)
	if row.id == "" {
		row.id = uuid.NewString()
	}
	_, err := d.db.Exec(`
		INSERT INTO transactions (id, date, type, btc, fiat, price, fee, fee_currency, exchange, from_address, to_address, memo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.date, row.kind, row.btc, row.fiat, row.price, row.fee, row.feeCurrency,
		row.exchange, row.fromAddress, row.toAddress, row.memo)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List returns every stored transaction in chronological order.
func (d *DB) List() ([]hodlwatch.Transaction, error) {
	rows, err := d.db.Query(`
		SELECT id, date, type, btc, fiat, price, fee, fee_currency, exchange, from_address, to_address, memo
		FROM transactions ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []hodlwatch.Transaction
	for rows.Next() {
		var r txRow
		if err := rows.Scan(&r.id, &r.date, &r.kind, &r.btc, &r.fiat, &r.price, &r.fee, &r.feeCurrency,
			&r.exchange, &r.fromAddress, &r.toAddress, &r.memo); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := r.transaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Delete removes a transaction by ID. Deleting an unknown ID is an error.
func (d *DB) Delete(id string) error {
	res, err := d.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no transaction with id %q", id)
	}
	return nil
}

// txRow is the flat SQL representation of a transaction.
type txRow struct {
	id, date, kind             string
	btc, fiat, price, fee      string
	feeCurrency                string
	exchange                   string
	fromAddress, toAddress     string
	memo                       string
}

func rowOf(tx hodlwatch.Transaction) txRow {
	r := txRow{
		id:   tx.Ref(),
		date: tx.When().String(),
		kind: string(tx.What()),
	}
	switch v := tx.(type) {
	case hodlwatch.Buy:
		r.btc, r.fiat, r.price = v.BTC.String(), v.Cost.Decimal().String(), v.Price.Decimal().String()
		r.fee, r.feeCurrency = v.Fee.Amount.String(), v.Fee.Currency
		r.exchange, r.fromAddress, r.toAddress, r.memo = v.Exchange, v.FromAddress, v.ToAddress, v.Memo
	case hodlwatch.Sell:
		r.btc, r.fiat, r.price = v.BTC.String(), v.Proceeds.Decimal().String(), v.Price.Decimal().String()
		r.fee, r.feeCurrency = v.Fee.Amount.String(), v.Fee.Currency
		r.exchange, r.fromAddress, r.toAddress, r.memo = v.Exchange, v.FromAddress, v.ToAddress, v.Memo
	case hodlwatch.Deposit:
		r.btc, r.fiat, r.price = v.BTC.String(), "0", v.Price.Decimal().String()
		r.fee, r.feeCurrency = v.Fee.Amount.String(), v.Fee.Currency
		r.exchange, r.fromAddress, r.toAddress, r.memo = v.Exchange, v.FromAddress, v.ToAddress, v.Memo
	case hodlwatch.Withdraw:
		r.btc, r.fiat, r.price = v.BTC.String(), "0", v.Price.Decimal().String()
		r.fee, r.feeCurrency = v.Fee.Amount.String(), v.Fee.Currency
		r.exchange, r.fromAddress, r.toAddress, r.memo = v.Exchange, v.FromAddress, v.ToAddress, v.Memo
	case hodlwatch.Interest:
		r.btc, r.fiat, r.price = v.BTC.String(), "0", v.Price.Decimal().String()
		r.fee, r.feeCurrency = v.Fee.Amount.String(), v.Fee.Currency
		r.exchange, r.fromAddress, r.toAddress, r.memo = v.Exchange, v.FromAddress, v.ToAddress, v.Memo
	}
	return r
}

func (r txRow) transaction() (hodlwatch.Transaction, error) {
	day, err := hodlwatch.ParseDate(r.date)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", r.id, err)
	}
	num := func(s string) (decimal.Decimal, error) {
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}
	btc, err := num(r.btc)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: invalid btc: %w", r.id, err)
	}
	fiat, err := num(r.fiat)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: invalid fiat: %w", r.id, err)
	}
	price, err := num(r.price)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: invalid price: %w", r.id, err)
	}
	feeAmount, err := num(r.fee)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: invalid fee: %w", r.id, err)
	}
	fee := hodlwatch.NewFee(feeAmount, r.feeCurrency)

	var tx hodlwatch.Transaction
	switch hodlwatch.Kind(r.kind) {
	case hodlwatch.KindBuy:
		tx = hodlwatch.NewBuy(day, r.exchange, hodlwatch.B(btc), hodlwatch.M(fiat), hodlwatch.M(price), fee)
	case hodlwatch.KindSell:
		tx = hodlwatch.NewSell(day, r.exchange, hodlwatch.B(btc), hodlwatch.M(fiat), hodlwatch.M(price), fee)
	case hodlwatch.KindDeposit:
		tx = hodlwatch.NewDeposit(day, r.exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	case hodlwatch.KindWithdraw:
		tx = hodlwatch.NewWithdraw(day, r.exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	case hodlwatch.KindInterest:
		tx = hodlwatch.NewInterest(day, r.exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	default:
		return nil, fmt.Errorf("transaction %s: unknown type %q", r.id, r.kind)
	}
	tx = hodlwatch.WithProvenance(tx, r.fromAddress, r.toAddress, r.memo)
	return hodlwatch.WithRef(tx, r.id), nil
}
