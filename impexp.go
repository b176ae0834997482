package hodlwatch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the CSV import/export format.
// It should remain human readable, single file and easy to produce from an
// exchange export with a spreadsheet.

// csvHeader is the canonical column order of the import/export format.
var csvHeader = []string{"date", "type", "btc", "fiat", "price", "fee", "feeCurrency", "exchange", "fromAddress", "toAddress", "memo"}

// ImportCSV imports transactions from 'r' in the import/export format.
//
// The format is a CSV file with a header row. Each row is one transaction:
// 'date' in YYYY-MM-DD, 'type' one of buy/sell/deposit/withdrawal/interest,
// 'btc' the bitcoin quantity, 'fiat' the fiat leg (cost of a buy, proceeds of
// a sell, empty for transfers), 'price' the unit price at transaction time,
// 'fee' and 'feeCurrency' the optional fee. Malformed rows are rejected with
// their row number; nothing is returned on error.
func ImportCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"date", "type", "btc"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(row []string, name string) (decimal.Decimal, error) {
		s := field(row, name)
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}

	var txs []Transaction
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		day, err := ParseDate(field(row, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		btc, err := number(row, "btc")
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid btc amount: %w", rowNum, err)
		}
		fiat, err := number(row, "fiat")
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid fiat amount: %w", rowNum, err)
		}
		price, err := number(row, "price")
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", rowNum, err)
		}
		feeAmount, err := number(row, "fee")
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid fee: %w", rowNum, err)
		}
		feeCurrency := field(row, "feeCurrency")
		if feeCurrency == "" {
			feeCurrency = USD
		}
		fee := NewFee(feeAmount, feeCurrency)
		exchange := field(row, "exchange")

		var tx Transaction
		switch kind := Kind(strings.ToLower(field(row, "type"))); kind {
		case KindBuy:
			tx = NewBuy(day, exchange, B(btc), M(fiat), M(price), fee)
		case KindSell:
			tx = NewSell(day, exchange, B(btc), M(fiat), M(price), fee)
		case KindDeposit:
			tx = NewDeposit(day, exchange, B(btc), M(price), fee)
		case KindWithdraw:
			tx = NewWithdraw(day, exchange, B(btc), M(price), fee)
		case KindInterest:
			tx = NewInterest(day, exchange, B(btc), M(price), fee)
		default:
			return nil, fmt.Errorf("row %d: unknown transaction type %q", rowNum, field(row, "type"))
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ExportCSV exports the ledger to 'w' in the import/export format, one row
// per transaction in chronological order.
func ExportCSV(w io.Writer, ledger *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for _, tx := range ledger.Transactions() {
		var base baseTx
		var btc BTCAmount
		var fiat, price Money
		var fee Fee
		switch v := tx.(type) {
		case Buy:
			base, btc, fiat, price, fee = v.baseTx, v.BTC, v.Cost, v.Price, v.Fee
		case Sell:
			base, btc, fiat, price, fee = v.baseTx, v.BTC, v.Proceeds, v.Price, v.Fee
		case Deposit:
			base, btc, price, fee = v.baseTx, v.BTC, v.Price, v.Fee
		case Withdraw:
			base, btc, price, fee = v.baseTx, v.BTC, v.Price, v.Fee
		case Interest:
			base, btc, price, fee = v.baseTx, v.BTC, v.Price, v.Fee
		}
		row := []string{
			base.Date.String(),
			string(base.Type),
			btc.String(),
			numberOrEmpty(fiat.Decimal()),
			numberOrEmpty(price.Decimal()),
			numberOrEmpty(fee.Amount),
			fee.Currency,
			base.Exchange,
			base.FromAddress,
			base.ToAddress,
			base.Memo,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func numberOrEmpty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
