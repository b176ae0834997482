package hodlwatch

// HoldingsSplit partitions the BTC position into the short-term bucket
// (acquired less than a year before the reference date) and the long-term
// bucket (held a year or more).
type HoldingsSplit struct {
	ShortTerm BTCAmount `json:"shortTerm"`
	LongTerm  BTCAmount `json:"longTerm"`
}

// Total returns the combined holdings across both buckets.
func (s HoldingsSplit) Total() BTCAmount { return s.ShortTerm.Add(s.LongTerm) }

// ClassifyHoldings buckets the BTC position by holding period. Buys land in
// the short or long bucket depending on their age relative to now minus one
// year. Sells reduce both buckets proportionally to their share of the total
// at that point in the fold, not by matching specific lots, so the split is
// an approximation and can disagree with the per-lot tax classification of
// ComputeCostBasis. Both buckets are clamped to zero after each sell.
func ClassifyHoldings(txs []Transaction, now Date) HoldingsSplit {
	oneYearAgo := now.AddYear(-1)
	var split HoldingsSplit
	for _, tx := range txs {
		switch v := tx.(type) {
		case Buy:
			if v.When().After(oneYearAgo) {
				split.ShortTerm = split.ShortTerm.Add(v.BTC)
			} else {
				split.LongTerm = split.LongTerm.Add(v.BTC)
			}
		case Sell:
			total := split.Total()
			if total.IsZero() || total.IsDust() {
				continue
			}
			shortShare := split.ShortTerm.Div(total)
			sold := v.BTC
			soldShort := BTCAmount{value: sold.value.Mul(shortShare)}
			split.ShortTerm = split.ShortTerm.Sub(soldShort).ClampZero()
			split.LongTerm = split.LongTerm.Sub(sold.Sub(soldShort)).ClampZero()
		}
	}
	return split
}
