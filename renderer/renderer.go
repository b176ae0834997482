// Package renderer turns analytics results into markdown reports for the
// command line.
package renderer

import (
	"fmt"
	"strings"

	"github.com/hodlwatch/hodlwatch"
)

// SummaryMarkdown renders the point-in-time portfolio overview.
func SummaryMarkdown(m hodlwatch.PortfolioMetrics, split hodlwatch.HoldingsSplit, price hodlwatch.Money, on hodlwatch.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary on %s\n\n", on)
	fmt.Fprintf(&b, "BTC price: %s\n\n", price)

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Holdings | %s BTC |\n", m.TotalBTC)
	fmt.Fprintf(&b, "| Current Value | %s |\n", m.CurrentValue)
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", m.TotalCostBasis)
	fmt.Fprintf(&b, "| Average Buy Price | %s |\n", m.AverageBuyPrice)
	fmt.Fprintf(&b, "| Unrealized Gain | %s (%s) |\n", m.UnrealizedGain.SignedString(), m.UnrealizedGainPercent.SignedString())
	fmt.Fprintf(&b, "| Fees Paid | %s |\n", m.TotalFees)
	fmt.Fprintf(&b, "| Trades | %d |\n", m.TotalTransactions)

	fmt.Fprint(&b, "\n## Holding Periods\n\n")
	fmt.Fprintln(&b, "| Bucket | BTC |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Short term (less than a year) | %s |\n", split.ShortTerm)
	fmt.Fprintf(&b, "| Long term | %s |\n", split.LongTerm)

	return b.String()
}

// GainsMarkdown renders the cost basis report for one matching method.
func GainsMarkdown(r hodlwatch.CostBasisResult, on hodlwatch.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report on %s\n\n", on)
	fmt.Fprintf(&b, "Method: %s\n\n", strings.ToUpper(r.Method.String()))

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Realized Gain | %s |\n", r.RealizedGain.SignedString())
	fmt.Fprintf(&b, "| Unrealized Gain | %s (%s) |\n", r.UnrealizedGain.SignedString(), r.UnrealizedGainPercent.SignedString())
	fmt.Fprintf(&b, "| Remaining | %s BTC |\n", r.RemainingBTC)
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", r.TotalCostBasis)
	fmt.Fprintf(&b, "| Average Cost | %s |\n", r.AverageCost)
	fmt.Fprintf(&b, "| Est. Tax (short term) | %s |\n", r.TaxLiabilityShortTerm)
	fmt.Fprintf(&b, "| Est. Tax (long term) | %s |\n", r.TaxLiabilityLongTerm)

	if len(r.Lots) > 0 {
		fmt.Fprint(&b, "\n## Open Lots\n\n")
		fmt.Fprintln(&b, "| Acquired | BTC | Cost Basis | Unit Price |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, lot := range r.Lots {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", lot.AcquiredOn, lot.BTC, lot.CostBasis, lot.UnitPrice)
		}
	}

	if r.Oversold.IsPositive() {
		fmt.Fprintf(&b, "\n> Warning: sells exceed recorded buys by %s BTC; the realized gain is understated.\n", r.Oversold)
	}

	return b.String()
}

// PerformanceMarkdown renders the time-series report. Metrics the history
// cannot support render as "n/a".
func PerformanceMarkdown(p hodlwatch.PerformanceMetrics, on hodlwatch.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Performance Report on %s\n\n", on)

	fmt.Fprintln(&b, "| Window | Return | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	rows := []struct {
		label string
		ret   *hodlwatch.WindowReturn
	}{
		{"1 day", p.Return1d},
		{"1 week", p.Return1w},
		{"1 month", p.Return1m},
		{"3 months", p.Return3m},
		{"Year to date", p.ReturnYTD},
		{"1 year", p.Return1y},
		{"2 years", p.Return2y},
		{"3 years", p.Return3y},
		{"4 years", p.Return4y},
		{"5 years", p.Return5y},
		{"Total (ROI)", p.TotalReturn},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.label, windowPercent(row.ret), windowDollar(row.ret))
	}

	if len(p.CAGRs) > 0 {
		fmt.Fprint(&b, "\n## CAGR\n\n")
		fmt.Fprintln(&b, "| Horizon | Rate |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, c := range p.CAGRs {
			label := fmt.Sprintf("%d years", c.Years)
			if c.Years == 1 {
				label = "1 year"
			}
			if c.Approximate {
				label += " (approx.)"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", label, c.Percent.SignedString())
		}
	}

	if p.MaxDrawdown != nil {
		fmt.Fprint(&b, "\n## Max Drawdown\n\n")
		fmt.Fprintf(&b, "%s from %s (%.0f) to %s (%.0f)\n",
			p.MaxDrawdown.Percent, p.MaxDrawdown.PeakDate, p.MaxDrawdown.PeakValue,
			p.MaxDrawdown.TroughDate, p.MaxDrawdown.TroughValue)
	}

	fmt.Fprintf(&b, "\nHODL time: %d days", p.HodlDays)
	if p.ATHDistance != nil {
		fmt.Fprintf(&b, " | %s below the all-time high", *p.ATHDistance)
	}
	fmt.Fprintln(&b)

	return b.String()
}

func windowPercent(r *hodlwatch.WindowReturn) string {
	if r == nil {
		return "n/a"
	}
	return r.Percent.SignedString()
}

func windowDollar(r *hodlwatch.WindowReturn) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", r.Dollar)
}
