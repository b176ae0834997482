package hodlwatch

import (
	"fmt"
	"log"
	"strings"
)

// CostBasisMethod selects how sells are matched against acquisition lots.
type CostBasisMethod string

const (
	// FIFO consumes the oldest lots first.
	FIFO CostBasisMethod = "fifo"
	// LIFO consumes the newest lots first.
	LIFO CostBasisMethod = "lifo"
	// HIFO consumes the most expensive lots first.
	HIFO CostBasisMethod = "hifo"
)

func (m CostBasisMethod) String() string { return string(m) }

// ParseCostBasisMethod parses a method name, case-insensitively.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch CostBasisMethod(strings.ToLower(s)) {
	case FIFO:
		return FIFO, nil
	case LIFO:
		return LIFO, nil
	case HIFO:
		return HIFO, nil
	}
	return "", fmt.Errorf("unknown cost basis method %q (want fifo, lifo or hifo)", s)
}

// Tax rates applied to the unrealized gain of remaining lots, by holding
// period at the reference date.
const (
	shortTermTaxRate = 0.37
	longTermTaxRate  = 0.20
)

// RemainingLot is an acquisition lot still held after all sells have been
// matched, with its remaining quantity and cost basis.
type RemainingLot struct {
	AcquiredOn Date      `json:"acquiredOn"`
	BTC        BTCAmount `json:"btc"`
	CostBasis  Money     `json:"costBasis"`
	UnitPrice  Money     `json:"unitPrice"`
}

// CostBasisResult is the outcome of matching every sell against the
// acquisition lots under one method.
type CostBasisResult struct {
	Method                CostBasisMethod `json:"method"`
	RemainingBTC          BTCAmount       `json:"remainingBtc"`
	TotalCostBasis        Money           `json:"totalCostBasis"`
	AverageCost           Money           `json:"averageCost"`
	CurrentValue          Money           `json:"currentValue"`
	UnrealizedGain        Money           `json:"unrealizedGain"`
	UnrealizedGainPercent Percent         `json:"unrealizedGainPercent"`
	RealizedGain          Money           `json:"realizedGain"`
	TaxLiabilityShortTerm Money           `json:"potentialTaxLiabilityShortTerm"`
	TaxLiabilityLongTerm  Money           `json:"potentialTaxLiabilityLongTerm"`
	Lots                  []RemainingLot  `json:"lots"`

	// Oversold is the BTC quantity that sells tried to match but no lot
	// inventory could cover. Non-zero means the history is incomplete and the
	// realized gain is understated.
	Oversold BTCAmount `json:"oversold"`
}

// ComputeCostBasis matches every sell in the transaction list against the buy
// lots under the given method and values what remains at currentPrice.
//
// Lots are built from buys (fiat spent plus fiat fees) and ordered per the
// method; sells are then replayed in their original chronological order, each
// consuming lots from the front of the ordered list and accumulating realized
// gain against the proportional cost basis removed. Tax liability classifies
// each remaining lot with a positive unrealized gain as short or long term by
// its acquisition date relative to now minus one year.
//
// txs must be in chronological order, as returned by Ledger.Transactions or
// DB.List; an unsorted list matches sells against the wrong lots.
//
// The computation is pure: it reads no clock and performs no I/O beyond a
// logged warning when a sell exceeds the available lot inventory.
func ComputeCostBasis(txs []Transaction, method CostBasisMethod, currentPrice Money, now Date) CostBasisResult {
	working := lotsFromBuys(txs)
	working.order(method)

	result := CostBasisResult{Method: method}
	for _, tx := range txs {
		sell, ok := tx.(Sell)
		if !ok {
			continue
		}
		remaining, costRemoved, unfilled := working.consume(sell.BTC)
		working = remaining
		filled := sell.BTC.Sub(unfilled)
		proceeds := sell.UnitPrice().Mul(filled)
		result.RealizedGain = result.RealizedGain.Add(proceeds.Sub(costRemoved))
		if !unfilled.IsZero() {
			result.Oversold = result.Oversold.Add(unfilled)
			log.Printf("warning: sell of %s BTC on %s exceeds lot inventory by %s BTC; realized gain is understated",
				sell.BTC, sell.When(), unfilled)
		}
	}

	result.RemainingBTC = working.totalBTC()
	result.TotalCostBasis = working.totalCost()
	if !result.RemainingBTC.IsZero() {
		result.AverageCost = result.TotalCostBasis.Div(result.RemainingBTC)
	} else {
		result.AverageCost = M(0)
	}
	result.CurrentValue = currentPrice.Mul(result.RemainingBTC)
	result.UnrealizedGain = result.CurrentValue.Sub(result.TotalCostBasis)
	if result.TotalCostBasis.IsPositive() {
		result.UnrealizedGainPercent = Percent(result.UnrealizedGain.AsFloat() / result.TotalCostBasis.AsFloat() * 100)
	}

	oneYearAgo := now.AddYear(-1)
	for _, lt := range working {
		result.Lots = append(result.Lots, RemainingLot{
			AcquiredOn: lt.Date,
			BTC:        lt.BTC,
			CostBasis:  lt.Cost,
			UnitPrice:  lt.UnitPrice,
		})
		gain := currentPrice.Mul(lt.BTC).Sub(lt.Cost)
		if !gain.IsPositive() {
			continue
		}
		if lt.Date.After(oneYearAgo) {
			result.TaxLiabilityShortTerm = result.TaxLiabilityShortTerm.Add(gain.Scale(newDecimal(shortTermTaxRate)))
		} else {
			result.TaxLiabilityLongTerm = result.TaxLiabilityLongTerm.Add(gain.Scale(newDecimal(longTermTaxRate)))
		}
	}
	return result
}
