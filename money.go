package hodlwatch

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the reporting currency of the tracker. Transactions imported from
// exchange exports are normalized to it before they reach the engines.
const USD = "USD"

// Money represents a fiat monetary value with exact decimal arithmetic.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money value in the reporting currency.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value), cur: USD}
}

// NewMoney creates a Money value in an explicit currency.
func NewMoney(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// currency returns the money's full currency definition, never nil.
func (m Money) currency() money.Currency {
	cur := m.cur
	if cur == "" {
		cur = USD
	}
	return *money.New(0, cur).Currency()
}

// String formats the value with its currency symbol and grouping, e.g. "$10,000.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString is like String with an explicit leading sign; zero renders as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.currency().Code }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value), cur: m.cur} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value), cur: m.cur} }

// Mul scales a money amount by a BTC quantity: price per BTC times quantity.
func (m Money) Mul(q BTCAmount) Money { return Money{value: m.value.Mul(q.value), cur: m.cur} }

// Div divides a money amount by a BTC quantity, giving a unit price.
// Division by zero is the caller's responsibility to guard.
func (m Money) Div(q BTCAmount) Money { return Money{value: m.value.Div(q.value), cur: m.cur} }

// Scale multiplies by a dimensionless decimal ratio.
func (m Money) Scale(r decimal.Decimal) Money { return Money{value: m.value.Mul(r), cur: m.cur} }

// ClampZero returns zero when the value is negative, m otherwise.
func (m Money) ClampZero() Money {
	if m.value.IsNegative() {
		return Money{value: decimal.Zero, cur: m.cur}
	}
	return m
}

// AsFloat returns the value as a float64 for ratio computations; the exact
// decimal value is kept for everything that is summed or persisted.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// Decimal returns the underlying exact value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// MarshalJSON implements the json.Marshaler interface for Money.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	m.cur = USD
	return m.value.UnmarshalJSON(data)
}
