package hodlwatch

// SpotPriceSource provides the current BTC price in fiat.
type SpotPriceSource interface {
	Spot() (Money, error)
}

// HistoricalPriceSource provides the daily close for a past date. A date with
// no data available returns (zero, false, nil): absence is not an error.
type HistoricalPriceSource interface {
	PriceOn(day Date) (Money, bool, error)
}

// ATH is the all-time-high price of bitcoin and the date it was reached.
type ATH struct {
	Price Money `json:"price"`
	Date  Date  `json:"date"`
}

// ATHSource provides the all-time-high.
type ATHSource interface {
	ATH() (ATH, error)
}

// HistoricalPriceLookup is the price-history collaborator injected into the
// performance engine: already-fetched or lazily-fetched daily prices, with
// absence reported through the boolean. The engine degrades the dependent
// metric to nil on a miss and never fails the whole computation.
type HistoricalPriceLookup func(day Date) (Money, bool)
