package hodlwatch

import (
	"math"
	"sort"
)

// ValuePoint is one point of the reconstructed portfolio value series: the
// traded BTC balance on that date, its fiat valuation, and the cumulative
// fiat invested so far. The series is an approximation built from the prices
// recorded on the transactions themselves, not from a full price history.
type ValuePoint struct {
	Date       Date      `json:"date"`
	BTC        BTCAmount `json:"btc"`
	Value      float64   `json:"value"`
	Investment float64   `json:"investment"`
	synthetic  bool
}

// WindowReturn is the cumulative return over one look-back window.
type WindowReturn struct {
	Percent Percent `json:"percent"`
	Dollar  float64 `json:"dollar"`
}

// CAGR is the compound annual growth rate over one horizon. Approximate is
// set when the rate was derived from the first transaction's recorded price
// instead of a true historical price lookup.
type CAGR struct {
	Years       int     `json:"years"`
	ActualYears float64 `json:"actualYears"`
	Percent     Percent `json:"percent"`
	Approximate bool    `json:"approximate,omitempty"`
}

// Drawdown is the largest peak-to-trough decline found in the value series.
type Drawdown struct {
	Percent     Percent `json:"percent"`
	PeakDate    Date    `json:"peakDate"`
	PeakValue   float64 `json:"peakValue"`
	TroughDate  Date    `json:"troughDate"`
	TroughValue float64 `json:"troughValue"`
}

// PerformanceMetrics is the time-series view of the portfolio. Every pointer
// field is nil when the history is too short to compute it; nil means "not
// applicable" and is distinct from a computed zero.
type PerformanceMetrics struct {
	Series []ValuePoint `json:"series"`

	Return1d  *WindowReturn `json:"return1d"`
	Return1w  *WindowReturn `json:"return1w"`
	Return1m  *WindowReturn `json:"return1m"`
	Return3m  *WindowReturn `json:"return3m"`
	ReturnYTD *WindowReturn `json:"returnYtd"`
	Return1y  *WindowReturn `json:"return1y"`
	Return2y  *WindowReturn `json:"return2y"`
	Return3y  *WindowReturn `json:"return3y"`
	Return4y  *WindowReturn `json:"return4y"`
	Return5y  *WindowReturn `json:"return5y"`

	// TotalReturn nets the current value against the cumulative investment
	// (ROI), unlike the windowed returns which compare against a past
	// valuation snapshot.
	TotalReturn *WindowReturn `json:"totalReturn"`

	CAGRs []CAGR `json:"cagr"`

	MaxDrawdown *Drawdown `json:"maxDrawdown"`

	// ATHDistance is how far the current price sits below the all-time high.
	ATHDistance *Percent `json:"athDistancePercent"`

	// HodlDays counts days since the most recent sell, or since the first buy
	// when nothing was ever sold.
	HodlDays int `json:"hodlDays"`
}

// ComputePerformance reconstructs the portfolio value history from the
// transaction stream and derives windowed returns, CAGR per horizon, maximum
// drawdown and HODL time, all relative to the injected reference date.
//
// txs must be in chronological order, as returned by Ledger.Transactions or
// DB.List; the value series is replayed in list order.
//
// The lookup collaborator supplies true historical prices for the CAGR
// horizons; a miss degrades that horizon to nil without failing the rest.
func ComputePerformance(txs []Transaction, currentPrice Money, lookup HistoricalPriceLookup, ath ATH, now Date) PerformanceMetrics {
	var perf PerformanceMetrics
	if len(txs) == 0 {
		return perf
	}

	series := replayValueSeries(txs)
	series = densifyMonthly(series, currentPrice, now)
	repriceRecent(series, currentPrice, now)
	perf.Series = series

	last := series[len(series)-1]
	currentValue := currentPrice.AsFloat() * last.BTC.AsFloat()
	firstDate := series[0].Date

	windows := []struct {
		target **WindowReturn
		start  Date
	}{
		{&perf.Return1d, now.Add(-1)},
		{&perf.Return1w, now.Add(-7)},
		{&perf.Return1m, now.AddMonth(-1)},
		{&perf.Return3m, now.AddMonth(-3)},
		{&perf.ReturnYTD, now.StartOfYear()},
		{&perf.Return1y, now.AddYear(-1)},
		{&perf.Return2y, now.AddYear(-2)},
		{&perf.Return3y, now.AddYear(-3)},
		{&perf.Return4y, now.AddYear(-4)},
		{&perf.Return5y, now.AddYear(-5)},
	}
	for _, w := range windows {
		*w.target = windowReturn(series, firstDate, w.start, currentValue)
	}

	if invested := last.Investment; invested > 0 {
		perf.TotalReturn = &WindowReturn{
			Percent: Percent((currentValue - invested) / invested * 100),
			Dollar:  currentValue - invested,
		}
	}

	perf.CAGRs = cagrHorizons(series, firstDate, currentValue, lookup, now)
	if len(perf.CAGRs) == 0 {
		if approx := approximateCAGR(series, currentValue, now); approx != nil {
			perf.CAGRs = append(perf.CAGRs, *approx)
		}
	}

	perf.MaxDrawdown = maxDrawdown(series)

	if ath.Price.IsPositive() && currentPrice.IsPositive() {
		dist := Percent((ath.Price.AsFloat() - currentPrice.AsFloat()) / ath.Price.AsFloat() * 100)
		perf.ATHDistance = &dist
	}

	perf.HodlDays = hodlDays(txs, now)
	return perf
}

// replayValueSeries folds the transactions chronologically into value points.
// The BTC balance moves on buys and sells; the investment accumulates on buys
// only, so realized gains are never netted out of it; each point is valued at
// the price recorded on that transaction.
func replayValueSeries(txs []Transaction) []ValuePoint {
	var series []ValuePoint
	var balance BTCAmount
	var investment float64
	for _, tx := range txs {
		var price Money
		switch v := tx.(type) {
		case Buy:
			balance = balance.Add(v.BTC)
			investment += v.Cost.AsFloat()
			price = v.UnitPrice()
		case Sell:
			balance = balance.Sub(v.BTC)
			price = v.UnitPrice()
		default:
			continue
		}
		series = append(series, ValuePoint{
			Date:       tx.When(),
			BTC:        balance,
			Value:      price.AsFloat() * balance.AsFloat(),
			Investment: investment,
		})
	}
	return series
}

// densifyMonthly inserts one synthetic point per calendar month between the
// first transaction and now in months with no real point, carrying the last
// known balance forward and valuing it at the current price. The extra points
// improve drawdown resolution over long gaps between transactions.
func densifyMonthly(series []ValuePoint, currentPrice Money, now Date) []ValuePoint {
	if len(series) == 0 {
		return series
	}
	covered := make(map[string]bool)
	for _, p := range series {
		covered[p.Date.Format("2006-01")] = true
	}
	out := series
	// Iterate on the first of each month: stepping from the transaction's own
	// day-of-month would overflow short months (Jan 31 plus a month is Mar 3)
	// and skip them entirely.
	first := series[0].Date
	for month := NewDate(first.Year(), first.Month()+1, 1); !month.After(now); month = month.AddMonth(1) {
		key := month.Format("2006-01")
		if covered[key] {
			continue
		}
		covered[key] = true
		prev := lastPointAtOrBefore(series, month)
		if prev == nil {
			continue
		}
		out = append(out, ValuePoint{
			Date:       month,
			BTC:        prev.BTC,
			Value:      currentPrice.AsFloat() * prev.BTC.AsFloat(),
			Investment: prev.Investment,
			synthetic:  true,
		})
	}
	sortValuePoints(out)
	return out
}

func sortValuePoints(series []ValuePoint) {
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
}

// repriceRecent revalues points of the last 30 days at the current price, so
// fresh activity is not shown at a stale transaction-time valuation. Points
// holding BTC with a non-positive value are repriced too, as a fallback for
// transactions recorded without a price.
func repriceRecent(series []ValuePoint, currentPrice Money, now Date) {
	for i := range series {
		p := &series[i]
		if now.DaysSince(p.Date) <= 30 || (p.Value <= 0 && p.BTC.IsPositive()) {
			p.Value = currentPrice.AsFloat() * p.BTC.AsFloat()
		}
	}
}

// lastPointAtOrBefore returns the latest series point dated at or before day,
// or nil when the series starts later.
func lastPointAtOrBefore(series []ValuePoint, day Date) *ValuePoint {
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].Date.After(day) {
			return &series[i]
		}
	}
	return nil
}

// windowReturn computes the cumulative return against the series point
// nearest to (at or before) the window start. A window starting before the
// first transaction yields nil: insufficient history, not a zero return.
func windowReturn(series []ValuePoint, firstDate, start Date, currentValue float64) *WindowReturn {
	if start.Before(firstDate) {
		return nil
	}
	past := lastPointAtOrBefore(series, start)
	if past == nil {
		return nil
	}
	ret := WindowReturn{Dollar: currentValue - past.Value}
	if past.Value > 0 {
		ret.Percent = Percent((currentValue/past.Value - 1) * 100)
	}
	return &ret
}

// cagrHorizons computes the true CAGR for every whole-year horizon from 1 to
// 8 that the history reaches back to. Each horizon needs a historical price
// for its start date and a positive balance held on that date; otherwise the
// horizon is skipped.
func cagrHorizons(series []ValuePoint, firstDate Date, currentValue float64, lookup HistoricalPriceLookup, now Date) []CAGR {
	var out []CAGR
	if lookup == nil || currentValue <= 0 {
		return out
	}
	for years := 1; years <= 8; years++ {
		start := now.AddYear(-years)
		if start.Before(firstDate) {
			continue
		}
		price, ok := lookup(start)
		if !ok || !price.IsPositive() {
			continue
		}
		held := lastPointAtOrBefore(series, start)
		if held == nil || !held.BTC.IsPositive() {
			continue
		}
		historicalValue := price.AsFloat() * held.BTC.AsFloat()
		if historicalValue <= 0 {
			continue
		}
		actual := now.YearsSince(start)
		if actual <= 0 {
			continue
		}
		rate := math.Pow(currentValue/historicalValue, 1/actual) - 1
		out = append(out, CAGR{Years: years, ActualYears: actual, Percent: Percent(rate * 100)})
	}
	return out
}

// approximateCAGR covers portfolios with 3 to 11 months of history, where no
// whole-year horizon applies: the first transaction's own recorded value
// stands in for a true historical price, and the result is flagged.
func approximateCAGR(series []ValuePoint, currentValue float64, now Date) *CAGR {
	if len(series) == 0 || currentValue <= 0 {
		return nil
	}
	first := series[0]
	months := now.DaysSince(first.Date) * 12 / 365
	if months < 3 || months > 11 {
		return nil
	}
	if first.Value <= 0 {
		return nil
	}
	actual := now.YearsSince(first.Date)
	if actual <= 0 {
		return nil
	}
	rate := math.Pow(currentValue/first.Value, 1/actual) - 1
	return &CAGR{Years: 1, ActualYears: actual, Percent: Percent(rate * 100), Approximate: true}
}

// maxDrawdown finds the deepest peak-to-later-trough decline. The global-peak
// scan is a fast path; the pairwise scan over every peak and later trough is
// the correctness guarantee, since the worst drawdown can start from a local
// peak before the global one.
func maxDrawdown(series []ValuePoint) *Drawdown {
	if len(series) < 2 {
		return nil
	}
	var best *Drawdown

	consider := func(peak, trough ValuePoint) {
		if peak.Value <= 0 || trough.Value >= peak.Value {
			return
		}
		pct := Percent((peak.Value - trough.Value) / peak.Value * 100)
		if best == nil || pct > best.Percent {
			best = &Drawdown{
				Percent:     pct,
				PeakDate:    peak.Date,
				PeakValue:   peak.Value,
				TroughDate:  trough.Date,
				TroughValue: trough.Value,
			}
		}
	}

	// Fast path: global peak, then the minimum after it.
	peakIdx := 0
	for i, p := range series {
		if p.Value > series[peakIdx].Value {
			peakIdx = i
		}
	}
	troughIdx := peakIdx
	for i := peakIdx + 1; i < len(series); i++ {
		if series[i].Value < series[troughIdx].Value {
			troughIdx = i
		}
	}
	if troughIdx > peakIdx {
		consider(series[peakIdx], series[troughIdx])
	}

	// Exhaustive scan over every peak and later trough.
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			consider(series[i], series[j])
		}
	}
	return best
}

// hodlDays counts days since the most recent sell, falling back to the first
// buy for portfolios that never sold. No buys and no sells yields zero.
func hodlDays(txs []Transaction, now Date) int {
	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].What() == KindSell {
			return now.DaysSince(txs[i].When())
		}
	}
	for _, tx := range txs {
		if tx.What() == KindBuy {
			return now.DaysSince(tx.When())
		}
	}
	return 0
}
