package hodlwatch

// PortfolioMetrics holds the point-in-time totals of the portfolio: position,
// cost basis, fees paid, and the mark-to-market valuation at the supplied
// spot price.
type PortfolioMetrics struct {
	TotalBTC              BTCAmount `json:"totalBtc"`
	TotalCostBasis        Money     `json:"totalCostBasis"`
	TotalFees             Money     `json:"totalFees"`
	CurrentValue          Money     `json:"currentValue"`
	UnrealizedGain        Money     `json:"unrealizedGain"`
	UnrealizedGainPercent Percent   `json:"unrealizedGainPercent"`
	AverageBuyPrice       Money     `json:"averageBuyPrice"`
	TotalTransactions     int       `json:"totalTransactions"` // buys and sells only
}

// AggregateMetrics folds the transaction list once into point-in-time totals
// and marks the position to market at currentPrice.
//
// Fees are accumulated in fiat; a fee charged in BTC converts at the
// transaction's own recorded price, never at today's price. Totals are
// clamped to zero at the end so malformed histories cannot produce a negative
// position. Transfers and interest contribute their fees only: the totals track the
// traded position, so they stay reconcilable with the lot inventory of
// ComputeCostBasis. Use Ledger.BTCBalance for the full wallet balance.
func AggregateMetrics(txs []Transaction, currentPrice Money) PortfolioMetrics {
	var m PortfolioMetrics
	for _, tx := range txs {
		switch v := tx.(type) {
		case Buy:
			m.TotalBTC = m.TotalBTC.Add(v.BTC)
			cost := v.Cost
			if !v.Fee.IsZero() && !v.Fee.InBTC() {
				cost = cost.Add(NewMoney(v.Fee.Amount, USD))
			}
			m.TotalCostBasis = m.TotalCostBasis.Add(cost)
			m.TotalFees = m.TotalFees.Add(v.Fee.Fiat(v.Price))
			m.TotalTransactions++
		case Sell:
			m.TotalBTC = m.TotalBTC.Sub(v.BTC)
			m.TotalFees = m.TotalFees.Add(v.Fee.Fiat(v.Price))
			m.TotalTransactions++
		case Deposit:
			m.TotalFees = m.TotalFees.Add(v.Fee.Fiat(v.Price))
		case Withdraw:
			m.TotalFees = m.TotalFees.Add(v.Fee.Fiat(v.Price))
		case Interest:
			m.TotalFees = m.TotalFees.Add(v.Fee.Fiat(v.Price))
		}
	}
	m.TotalBTC = m.TotalBTC.ClampZero()
	m.TotalCostBasis = m.TotalCostBasis.ClampZero()

	m.CurrentValue = currentPrice.Mul(m.TotalBTC)
	m.UnrealizedGain = m.CurrentValue.Sub(m.TotalCostBasis)
	if m.TotalCostBasis.IsPositive() {
		m.UnrealizedGainPercent = Percent(m.UnrealizedGain.AsFloat() / m.TotalCostBasis.AsFloat() * 100)
	}
	if !m.TotalBTC.IsZero() {
		m.AverageBuyPrice = m.TotalCostBasis.Div(m.TotalBTC)
	} else {
		m.AverageBuyPrice = M(0)
	}
	return m
}
