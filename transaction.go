package hodlwatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is a typed string identifying the transaction variant.
type Kind string

// Transaction kinds recorded in the ledger.
const (
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdrawal"
	KindInterest Kind = "interest"
)

// Transaction defines the common interface for all events recorded in the
// ledger. Transactions are immutable facts: once created they are never
// mutated, and every derived figure is recomputed from the full list.
type Transaction interface {
	What() Kind   // What returns the kind of the transaction (e.g., "buy", "sell").
	When() Date   // When returns the date on which the economic event occurred.
	Ref() string  // Ref returns the opaque unique identifier of the transaction.
	Equal(Transaction) bool
	Validate() error
}

// Fee is a transaction fee, charged either in fiat or in BTC.
// A zero Fee means no fee was recorded.
type Fee struct {
	Amount   decimal.Decimal
	Currency string // USD or BTC
}

// NewFee creates a fee in the given currency. Negative magnitudes from source
// data are normalized to positive.
func NewFee(amount decimal.Decimal, currency string) Fee {
	if amount.IsZero() {
		return Fee{}
	}
	return Fee{Amount: amount.Abs(), Currency: currency}
}

func (f Fee) IsZero() bool { return f.Amount.IsZero() }

// Equal compares two fees by value.
func (f Fee) Equal(g Fee) bool { return f.Amount.Equal(g.Amount) && f.Currency == g.Currency }

// InBTC reports whether the fee was charged in bitcoin.
func (f Fee) InBTC() bool { return f.Currency == "BTC" }

// Fiat returns the fee expressed in fiat. A BTC fee is converted using the
// transaction's own recorded price, never today's price; without a price the
// fee is informational only and converts to zero.
func (f Fee) Fiat(price Money) Money {
	if f.IsZero() {
		return M(0)
	}
	if !f.InBTC() {
		return NewMoney(f.Amount, USD)
	}
	if price.IsZero() {
		return M(0)
	}
	return price.Scale(f.Amount)
}

// baseTx carries the fields shared by every transaction variant.
type baseTx struct {
	Type        Kind   `json:"type"`
	ID          string `json:"id,omitempty"`
	Date        Date   `json:"date"`
	Exchange    string `json:"exchange,omitempty"`    // provenance only, not used in calculations
	FromAddress string `json:"fromAddress,omitempty"` // provenance only
	ToAddress   string `json:"toAddress,omitempty"`   // provenance only
	Memo        string `json:"memo,omitempty"`
}

func newBaseTx(kind Kind, day Date, exchange string) baseTx {
	return baseTx{Type: kind, ID: uuid.NewString(), Date: day, Exchange: exchange}
}

// What returns the kind of the transaction.
func (t baseTx) What() Kind { return t.Type }

// When returns the date of the transaction.
func (t baseTx) When() Date { return t.Date }

// Ref returns the unique identifier of the transaction.
func (t baseTx) Ref() string { return t.ID }

func (t baseTx) validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", t.Type)
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Optional("exchange", t.Exchange)
	w.Optional("fromAddress", t.FromAddress)
	w.Optional("toAddress", t.ToAddress)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// WithRef returns a copy of the transaction carrying the given identifier.
// Storage layers that keep IDs outside the JSONL ledger use it to restore a
// transaction without minting a fresh ID.
func WithRef(tx Transaction, id string) Transaction {
	switch v := tx.(type) {
	case Buy:
		v.ID = id
		return v
	case Sell:
		v.ID = id
		return v
	case Deposit:
		v.ID = id
		return v
	case Withdraw:
		v.ID = id
		return v
	case Interest:
		v.ID = id
		return v
	}
	return tx
}

// WithProvenance returns a copy of the transaction carrying the address and
// memo metadata. Provenance fields never enter any calculation.
func WithProvenance(tx Transaction, from, to, memo string) Transaction {
	set := func(b *baseTx) {
		b.FromAddress, b.ToAddress, b.Memo = from, to, memo
	}
	switch v := tx.(type) {
	case Buy:
		set(&v.baseTx)
		return v
	case Sell:
		set(&v.baseTx)
		return v
	case Deposit:
		set(&v.baseTx)
		return v
	case Withdraw:
		set(&v.baseTx)
		return v
	case Interest:
		set(&v.baseTx)
		return v
	}
	return tx
}

// writeFee appends the fee fields when a fee was recorded.
func writeFee(w *jsonObjectWriter, f Fee) {
	if f.IsZero() {
		return
	}
	w.Append("fee", f.Amount)
	w.Append("feeCurrency", f.Currency)
}

// --- Buy ---

// Buy represents a purchase of bitcoin for fiat.
type Buy struct {
	baseTx
	BTC   BTCAmount // BTC is the quantity of bitcoin received.
	Cost  Money     // Cost is the fiat amount sent, excluding fees.
	Price Money     // Price is the fiat unit price of BTC at transaction time.
	Fee   Fee
}

// NewBuy creates a new Buy transaction with a fresh identifier.
func NewBuy(day Date, exchange string, btc BTCAmount, cost, price Money, fee Fee) Buy {
	return Buy{baseTx: newBaseTx(KindBuy, day, exchange), BTC: btc, Cost: cost, Price: price, Fee: fee}
}

// UnitPrice returns the effective fiat price per BTC for this buy: the
// recorded price when present, otherwise derived from cost and quantity.
func (t Buy) UnitPrice() Money {
	if !t.Price.IsZero() {
		return t.Price
	}
	if t.BTC.IsZero() {
		return M(0)
	}
	return t.Cost.Div(t.BTC)
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.baseTx == o.baseTx && t.BTC.Equal(o.BTC) && t.Cost.Equal(o.Cost) &&
		t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Buy transaction's fields: both the received BTC and the
// fiat spent must be present and positive.
func (t Buy) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.BTC.IsPositive() {
		return fmt.Errorf("buy BTC amount must be positive, got %s", t.BTC)
	}
	if !t.Cost.IsPositive() {
		return fmt.Errorf("buy cost must be positive, got %s", t.Cost)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("buy price cannot be negative, got %s", t.Price)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("btc", t.BTC)
	w.Append("cost", t.Cost)
	w.Optional("price", t.Price.Decimal())
	writeFee(&w, t.Fee)
	return w.MarshalJSON()
}

// --- Sell ---

// Sell represents a disposal of bitcoin for fiat.
type Sell struct {
	baseTx
	BTC      BTCAmount // BTC is the quantity of bitcoin sent.
	Proceeds Money     // Proceeds is the fiat amount received.
	Price    Money     // Price is the fiat unit price of BTC at transaction time.
	Fee      Fee
}

// NewSell creates a new Sell transaction with a fresh identifier.
func NewSell(day Date, exchange string, btc BTCAmount, proceeds, price Money, fee Fee) Sell {
	return Sell{baseTx: newBaseTx(KindSell, day, exchange), BTC: btc, Proceeds: proceeds, Price: price, Fee: fee}
}

// UnitPrice returns the effective sale price per BTC, derived from the actual
// proceeds rather than the quoted price.
func (t Sell) UnitPrice() Money {
	if t.BTC.IsZero() {
		return M(0)
	}
	return t.Proceeds.Div(t.BTC)
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.baseTx == o.baseTx && t.BTC.Equal(o.BTC) && t.Proceeds.Equal(o.Proceeds) &&
		t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Sell transaction's fields: both the BTC sent and the
// fiat received must be present and positive.
func (t Sell) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.BTC.IsPositive() {
		return fmt.Errorf("sell BTC amount must be positive, got %s", t.BTC)
	}
	if !t.Proceeds.IsPositive() {
		return fmt.Errorf("sell proceeds must be positive, got %s", t.Proceeds)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("btc", t.BTC)
	w.Append("proceeds", t.Proceeds)
	w.Optional("price", t.Price.Decimal())
	writeFee(&w, t.Fee)
	return w.MarshalJSON()
}

// --- Deposit ---

// Deposit represents bitcoin transferred into the tracked wallet. It moves no
// fiat and creates no lot; it only affects the BTC balance.
type Deposit struct {
	baseTx
	BTC   BTCAmount // BTC is the quantity received, always a positive magnitude.
	Price Money     // Price is the fiat unit price at transfer time, when known.
	Fee   Fee
}

// NewDeposit creates a new Deposit transaction. Negative magnitudes from
// source data are normalized to positive.
func NewDeposit(day Date, exchange string, btc BTCAmount, price Money, fee Fee) Deposit {
	if btc.IsNegative() {
		btc = BTCAmount{}.Sub(btc)
	}
	return Deposit{baseTx: newBaseTx(KindDeposit, day, exchange), BTC: btc, Price: price, Fee: fee}
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseTx == o.baseTx && t.BTC.Equal(o.BTC) && t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Deposit transaction's fields.
func (t Deposit) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.BTC.IsPositive() {
		return fmt.Errorf("deposit BTC amount must be positive, got %s", t.BTC)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("btc", t.BTC)
	w.Optional("price", t.Price.Decimal())
	writeFee(&w, t.Fee)
	return w.MarshalJSON()
}

// --- Withdraw ---

// Withdraw represents bitcoin transferred out of the tracked wallet.
type Withdraw struct {
	baseTx
	BTC   BTCAmount // BTC is the quantity sent, always a positive magnitude.
	Price Money
	Fee   Fee
}

// NewWithdraw creates a new Withdraw transaction. Negative magnitudes from
// source data are normalized to positive.
func NewWithdraw(day Date, exchange string, btc BTCAmount, price Money, fee Fee) Withdraw {
	if btc.IsNegative() {
		btc = BTCAmount{}.Sub(btc)
	}
	return Withdraw{baseTx: newBaseTx(KindWithdraw, day, exchange), BTC: btc, Price: price, Fee: fee}
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseTx == o.baseTx && t.BTC.Equal(o.BTC) && t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Withdraw transaction's fields.
func (t Withdraw) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.BTC.IsPositive() {
		return fmt.Errorf("withdrawal BTC amount must be positive, got %s", t.BTC)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Withdraw.
func (t Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("btc", t.BTC)
	w.Optional("price", t.Price.Decimal())
	writeFee(&w, t.Fee)
	return w.MarshalJSON()
}

// --- Interest ---

// Interest represents bitcoin earned as yield (exchange earn programs,
// lending interest). Like a deposit it has no fiat leg and no cost basis.
type Interest struct {
	baseTx
	BTC   BTCAmount
	Price Money
	Fee   Fee
}

// NewInterest creates a new Interest transaction.
func NewInterest(day Date, exchange string, btc BTCAmount, price Money, fee Fee) Interest {
	return Interest{baseTx: newBaseTx(KindInterest, day, exchange), BTC: btc, Price: price, Fee: fee}
}

func (t Interest) Equal(other Transaction) bool {
	o, ok := other.(Interest)
	return ok && t.baseTx == o.baseTx && t.BTC.Equal(o.BTC) && t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Interest transaction's fields.
func (t Interest) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.BTC.IsPositive() {
		return fmt.Errorf("interest BTC amount must be positive, got %s", t.BTC)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Interest.
func (t Interest) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("btc", t.BTC)
	w.Optional("price", t.Price.Decimal())
	writeFee(&w, t.Fee)
	return w.MarshalJSON()
}
