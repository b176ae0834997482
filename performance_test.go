package hodlwatch

import (
	"math"
	"testing"
)

func TestComputePerformance_NullVersusZero(t *testing.T) {
	// One transaction dated yesterday: short windows compute, long windows
	// must be nil (insufficient history), not zero.
	now := day("2025-06-01")
	txs := []Transaction{buy("2025-05-31", 1.0, 10000)}

	got := ComputePerformance(txs, M(20000), nil, ATH{}, now)

	if got.Return1d == nil {
		t.Error("Return1d = nil, want a computed return")
	}
	if got.Return1y != nil {
		t.Errorf("Return1y = %+v, want nil", got.Return1y)
	}
	if got.Return5y != nil {
		t.Errorf("Return5y = %+v, want nil", got.Return5y)
	}
	if len(got.CAGRs) != 0 {
		t.Errorf("CAGRs = %+v, want none for a one-day-old portfolio", got.CAGRs)
	}
}

func TestComputePerformance_CAGRHorizons(t *testing.T) {
	now := day("2026-01-01")
	txs := []Transaction{buy("2024-01-01", 1.0, 10000)}
	lookup := func(d Date) (Money, bool) {
		switch d {
		case day("2024-01-01"):
			return M(10000), true
		case day("2025-01-01"):
			return M(30000), true
		}
		return M(0), false
	}

	got := ComputePerformance(txs, M(40000), lookup, ATH{}, now)

	if len(got.CAGRs) != 2 {
		t.Fatalf("got %d CAGR horizons, want 2", len(got.CAGRs))
	}
	oneYear, twoYear := got.CAGRs[0], got.CAGRs[1]
	if oneYear.Years != 1 || twoYear.Years != 2 {
		t.Fatalf("horizons = %d, %d, want 1 and 2", oneYear.Years, twoYear.Years)
	}
	// $30,000 -> $40,000 over one year: about +33%.
	if math.Abs(float64(oneYear.Percent)-33.4) > 1 {
		t.Errorf("1y CAGR = %s, want about 33.4%%", oneYear.Percent)
	}
	// $10,000 -> $40,000 over two years: doubling per year, about +100%.
	if math.Abs(float64(twoYear.Percent)-100) > 1 {
		t.Errorf("2y CAGR = %s, want about 100%%", twoYear.Percent)
	}
	if oneYear.Approximate || twoYear.Approximate {
		t.Error("true lookups must not be flagged approximate")
	}
}

func TestComputePerformance_CAGRNilOnMissingHistory(t *testing.T) {
	now := day("2026-01-01")
	txs := []Transaction{buy("2024-01-01", 1.0, 10000)}
	lookup := func(Date) (Money, bool) { return M(0), false }

	got := ComputePerformance(txs, M(40000), lookup, ATH{}, now)
	if len(got.CAGRs) != 0 {
		t.Errorf("CAGRs = %+v, want none when every lookup misses", got.CAGRs)
	}
}

func TestComputePerformance_ApproximateCAGR(t *testing.T) {
	// Five months of history: no whole-year horizon applies, the first
	// transaction's own valuation stands in.
	now := day("2025-06-01")
	txs := []Transaction{buy("2025-01-01", 1.0, 10000)}

	got := ComputePerformance(txs, M(20000), nil, ATH{}, now)

	if len(got.CAGRs) != 1 {
		t.Fatalf("got %d CAGR entries, want 1 approximate", len(got.CAGRs))
	}
	if !got.CAGRs[0].Approximate {
		t.Error("CAGR should be flagged approximate")
	}
	if got.CAGRs[0].Percent <= 0 {
		t.Errorf("approximate CAGR = %s, want positive for a doubling", got.CAGRs[0].Percent)
	}
}

func TestComputePerformance_MaxDrawdown(t *testing.T) {
	now := day("2026-01-01")
	txs := []Transaction{
		buy("2025-01-15", 1.0, 10000),
		sellTx("2025-06-15", 0.5, 10000),
		buy("2025-09-15", 0.5, 5000),
	}

	got := ComputePerformance(txs, M(15000), nil, ATH{}, now)

	if got.MaxDrawdown == nil {
		t.Fatal("MaxDrawdown = nil, want a drawdown")
	}
	// Synthetic months value the full balance at $15,000; the half position
	// over the summer is worth $7,500: a 50% decline.
	if !got.MaxDrawdown.Percent.Equal(50) {
		t.Errorf("MaxDrawdown = %s, want 50%%", got.MaxDrawdown.Percent)
	}
	if !got.MaxDrawdown.PeakDate.Before(got.MaxDrawdown.TroughDate) {
		t.Errorf("peak %s must precede trough %s", got.MaxDrawdown.PeakDate, got.MaxDrawdown.TroughDate)
	}

	// Monotonicity: the reported drawdown is at least as deep as any single
	// peak-to-next-trough drop in the series.
	for i := 0; i+1 < len(got.Series); i++ {
		a, b := got.Series[i], got.Series[i+1]
		if a.Value <= 0 || b.Value >= a.Value {
			continue
		}
		single := Percent((a.Value - b.Value) / a.Value * 100)
		if single > got.MaxDrawdown.Percent {
			t.Errorf("adjacent drawdown %s exceeds reported max %s", single, got.MaxDrawdown.Percent)
		}
	}
}

func TestComputePerformance_DensifiesShortMonths(t *testing.T) {
	// A month-end first buy must not skip February: the synthetic month
	// iteration anchors on the first of each month, where stepping from
	// Jan 31 would normalize Feb 31 to Mar 3 and never land in February.
	now := day("2025-06-15")
	txs := []Transaction{buy("2025-01-31", 1.0, 10000)}

	got := ComputePerformance(txs, M(20000), nil, ATH{}, now)

	months := make(map[string]bool)
	for _, p := range got.Series {
		months[p.Date.Format("2006-01")] = true
	}
	for _, want := range []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"} {
		if !months[want] {
			t.Errorf("no series point in month %s: %v", want, months)
		}
	}
}

func TestComputePerformance_HodlDays(t *testing.T) {
	now := day("2026-01-01")

	sold := ComputePerformance([]Transaction{
		buy("2025-01-15", 1.0, 10000),
		sellTx("2025-06-15", 0.5, 10000),
	}, M(15000), nil, ATH{}, now)
	if sold.HodlDays != 200 {
		t.Errorf("HodlDays = %d, want 200 (since the last sell)", sold.HodlDays)
	}

	neverSold := ComputePerformance([]Transaction{
		buy("2025-12-22", 1.0, 10000),
	}, M(15000), nil, ATH{}, now)
	if neverSold.HodlDays != 10 {
		t.Errorf("HodlDays = %d, want 10 (since the first buy)", neverSold.HodlDays)
	}
}

func TestComputePerformance_TotalReturnIsROI(t *testing.T) {
	now := day("2026-01-01")
	txs := []Transaction{
		buy("2025-01-15", 1.0, 10000),
		sellTx("2025-06-15", 0.5, 10000), // realized gain does not reduce investment
		buy("2025-09-15", 0.5, 5000),
	}

	got := ComputePerformance(txs, M(30000), nil, ATH{}, now)

	if got.TotalReturn == nil {
		t.Fatal("TotalReturn = nil, want a value")
	}
	// $15,000 invested in total, final position 1 BTC worth $30,000.
	if !got.TotalReturn.Percent.Equal(100) {
		t.Errorf("TotalReturn = %s, want 100%%", got.TotalReturn.Percent)
	}
	if got.TotalReturn.Dollar != 15000 {
		t.Errorf("TotalReturn.Dollar = %v, want 15000", got.TotalReturn.Dollar)
	}
}

func TestComputePerformance_ATHDistance(t *testing.T) {
	now := day("2026-01-01")
	txs := []Transaction{buy("2025-01-15", 1.0, 10000)}
	ath := ATH{Price: M(100000), Date: day("2025-11-20")}

	got := ComputePerformance(txs, M(75000), nil, ath, now)

	if got.ATHDistance == nil {
		t.Fatal("ATHDistance = nil, want a value")
	}
	if !got.ATHDistance.Equal(25) {
		t.Errorf("ATHDistance = %s, want 25%%", *got.ATHDistance)
	}
}

func TestComputePerformance_EmptyTransactions(t *testing.T) {
	got := ComputePerformance(nil, M(20000), nil, ATH{}, day("2026-01-01"))
	if got.MaxDrawdown != nil || got.TotalReturn != nil || got.HodlDays != 0 || len(got.Series) != 0 {
		t.Errorf("empty history must yield an empty result, got %+v", got)
	}
}

func TestComputePerformance_RepricesRecentPoints(t *testing.T) {
	now := day("2025-06-01")
	txs := []Transaction{
		buy("2025-03-01", 1.0, 10000),
		buy("2025-05-25", 1.0, 12000),
	}

	got := ComputePerformance(txs, M(20000), nil, ATH{}, now)

	for _, p := range got.Series {
		if p.Date == day("2025-05-25") {
			// Within 30 days of now: valued at the current price, not the
			// transaction-time price.
			if p.Value != 40000 {
				t.Errorf("recent point value = %v, want 40000", p.Value)
			}
			return
		}
	}
	t.Error("recent transaction point not found in the series")
}
