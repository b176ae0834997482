package hodlwatch

import "sort"

// lot represents a single purchase of bitcoin, used for cost basis
// calculations. Lots are ephemeral: they are rebuilt from the full
// transaction history on every computation and never persisted.
type lot struct {
	Date      Date
	BTC       BTCAmount // BTC remaining in this lot.
	Cost      Money     // Remaining cost basis (fiat spent plus fiat fees).
	UnitPrice Money     // Fiat per BTC at acquisition.
}

type lots []lot

// lotsFromBuys builds one lot per buy transaction. The lot's cost basis is the
// fiat spent plus the fee when the fee was charged in fiat; BTC fees do not
// enter the cost basis.
func lotsFromBuys(txs []Transaction) lots {
	var ls lots
	for _, tx := range txs {
		buy, ok := tx.(Buy)
		if !ok {
			continue
		}
		cost := buy.Cost
		if !buy.Fee.IsZero() && !buy.Fee.InBTC() {
			cost = cost.Add(NewMoney(buy.Fee.Amount, USD))
		}
		ls = append(ls, lot{
			Date:      buy.When(),
			BTC:       buy.BTC,
			Cost:      cost,
			UnitPrice: buy.UnitPrice(),
		})
	}
	return ls
}

// order sorts the lots into consumption order for the given matching method:
// FIFO ascending by acquisition date, LIFO descending by acquisition date,
// HIFO descending by unit price. The sort is stable so same-day (or
// same-price) lots keep their chronological order.
func (l lots) order(method CostBasisMethod) {
	switch method {
	case LIFO:
		sort.SliceStable(l, func(i, j int) bool { return l[j].Date.Before(l[i].Date) })
	case HIFO:
		sort.SliceStable(l, func(i, j int) bool { return l[j].UnitPrice.LessThan(l[i].UnitPrice) })
	default: // FIFO
		sort.SliceStable(l, func(i, j int) bool { return l[i].Date.Before(l[j].Date) })
	}
}

// consume removes toSell bitcoin from the front of the ordered lot list,
// reducing each consumed lot's quantity and cost basis proportionally. It
// returns the remaining lots, the cost basis removed, and any quantity left
// unfilled because the lots ran out.
func (l lots) consume(toSell BTCAmount) (remaining lots, costRemoved Money, unfilled BTCAmount) {
	for _, currentLot := range l {
		if toSell.IsZero() || toSell.IsDust() {
			remaining = append(remaining, currentLot)
			continue
		}
		if currentLot.BTC.GreaterThan(toSell) {
			// Partial sale from this lot.
			costOfSoldPortion := currentLot.Cost.Scale(toSell.Div(currentLot.BTC))
			costRemoved = costRemoved.Add(costOfSoldPortion)
			newLot := lot{
				Date:      currentLot.Date,
				BTC:       currentLot.BTC.Sub(toSell),
				Cost:      currentLot.Cost.Sub(costOfSoldPortion),
				UnitPrice: currentLot.UnitPrice,
			}
			if !newLot.BTC.IsDust() {
				remaining = append(remaining, newLot)
			}
			toSell = BTCAmount{}
		} else {
			// Full sale of this lot.
			costRemoved = costRemoved.Add(currentLot.Cost)
			toSell = toSell.Sub(currentLot.BTC)
		}
	}
	if toSell.IsDust() {
		toSell = BTCAmount{}
	}
	return remaining, costRemoved, toSell
}

// totalBTC sums the bitcoin remaining across all lots.
func (l lots) totalBTC() BTCAmount {
	var total BTCAmount
	for _, lt := range l {
		total = total.Add(lt.BTC)
	}
	return total
}

// totalCost sums the cost basis remaining across all lots.
func (l lots) totalCost() Money {
	var total Money
	for _, lt := range l {
		total = total.Add(lt.Cost)
	}
	return total
}
