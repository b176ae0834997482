package hodlwatch

import "testing"

func TestLedger_AppendKeepsChronologicalOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2025-03-01", 1.0, 30000),
		buy("2025-01-01", 1.0, 10000),
		sellTx("2025-02-01", 0.5, 10000),
	)

	var dates []string
	for _, tx := range ledger.Transactions() {
		dates = append(dates, tx.When().String())
	}
	want := []string{"2025-01-01", "2025-02-01", "2025-03-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("order = %v, want %v", dates, want)
		}
	}
}

func TestLedger_BTCBalance(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2025-01-10", 1.0, 10000),
		deposit("2025-02-05", 0.5),
		sellTx("2025-03-01", 0.25, 5000),
		withdraw("2025-04-01", 0.1),
		interest("2025-05-01", 0.01, 20000),
	)

	testCases := []struct {
		date string
		want BTCAmount
	}{
		{"2025-01-09", B(0)},
		{"2025-01-10", B(1.0)},
		{"2025-02-05", B(1.5)},
		{"2025-03-01", B(1.25)},
		{"2025-04-01", B(1.15)},
		{"2025-06-01", B(1.16)},
	}
	for _, tc := range testCases {
		if got := ledger.BTCBalance(day(tc.date)); !got.Equal(tc.want) {
			t.Errorf("BTCBalance(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestLedger_FirstBuyAndLastSell(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		deposit("2024-12-01", 0.5),
		buy("2025-01-10", 1.0, 10000),
		sellTx("2025-03-01", 0.25, 5000),
		sellTx("2025-04-01", 0.25, 6000),
	)

	if got, ok := ledger.FirstBuyDate(); !ok || got != day("2025-01-10") {
		t.Errorf("FirstBuyDate = %s, %v; want 2025-01-10", got, ok)
	}
	if got, ok := ledger.LastSellDate(); !ok || got != day("2025-04-01") {
		t.Errorf("LastSellDate = %s, %v; want 2025-04-01", got, ok)
	}

	empty := NewLedger()
	if _, ok := empty.FirstBuyDate(); ok {
		t.Error("FirstBuyDate on an empty ledger should report not found")
	}
}
