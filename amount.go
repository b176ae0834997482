package hodlwatch

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal.
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// dust is the threshold under which a BTC amount is considered residue of
// decimal division rather than an actual position (one hundredth of a satoshi).
var dust = decimal.New(1, -9) // 1e-9

// BTCAmount represents a quantity of bitcoin with exact decimal arithmetic.
type BTCAmount struct {
	value decimal.Decimal
}

// B creates a BTCAmount.
func B[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) BTCAmount {
	return BTCAmount{value: newDecimal(value)}
}

func (a BTCAmount) Equal(b BTCAmount) bool       { return a.value.Equal(b.value) }
func (a BTCAmount) LessThan(b BTCAmount) bool    { return a.value.LessThan(b.value) }
func (a BTCAmount) GreaterThan(b BTCAmount) bool { return a.value.GreaterThan(b.value) }
func (a BTCAmount) Add(b BTCAmount) BTCAmount    { return BTCAmount{value: a.value.Add(b.value)} }
func (a BTCAmount) Sub(b BTCAmount) BTCAmount    { return BTCAmount{value: a.value.Sub(b.value)} }
func (a BTCAmount) IsZero() bool                 { return a.value.IsZero() }
func (a BTCAmount) IsPositive() bool             { return a.value.IsPositive() }
func (a BTCAmount) IsNegative() bool             { return a.value.IsNegative() }
func (a BTCAmount) String() string               { return a.value.String() }

// Div returns the dimensionless ratio a/b.
func (a BTCAmount) Div(b BTCAmount) decimal.Decimal { return a.value.Div(b.value) }

// IsDust reports whether the amount is at or below the 1e-9 threshold that
// absorbs decimal residue left by proportional lot consumption.
func (a BTCAmount) IsDust() bool { return a.value.LessThanOrEqual(dust) }

// ClampZero returns zero when the value is negative, a otherwise.
func (a BTCAmount) ClampZero() BTCAmount {
	if a.value.IsNegative() {
		return BTCAmount{}
	}
	return a
}

// AsFloat returns the quantity as a float64 for valuation ratios.
func (a BTCAmount) AsFloat() float64 { return a.value.InexactFloat64() }

// Decimal returns the underlying exact value.
func (a BTCAmount) Decimal() decimal.Decimal { return a.value }

// MarshalJSON implements the json.Marshaler interface for BTCAmount.
func (a BTCAmount) MarshalJSON() ([]byte, error) {
	return a.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for BTCAmount.
func (a *BTCAmount) UnmarshalJSON(data []byte) error {
	return a.value.UnmarshalJSON(data)
}
