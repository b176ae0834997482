package hodlwatch

import "testing"

func TestClassifyHoldings_Buckets(t *testing.T) {
	now := day("2025-06-01")
	txs := []Transaction{
		buy("2023-01-01", 1.0, 10000), // long term
		buy("2025-05-01", 1.0, 50000), // short term
	}

	got := ClassifyHoldings(txs, now)

	if !got.LongTerm.Equal(B(1.0)) {
		t.Errorf("LongTerm = %s, want 1", got.LongTerm)
	}
	if !got.ShortTerm.Equal(B(1.0)) {
		t.Errorf("ShortTerm = %s, want 1", got.ShortTerm)
	}
}

func TestClassifyHoldings_ExactlyOneYearIsLongTerm(t *testing.T) {
	now := day("2025-06-01")
	got := ClassifyHoldings([]Transaction{buy("2024-06-01", 1.0, 10000)}, now)
	if !got.LongTerm.Equal(B(1.0)) || !got.ShortTerm.IsZero() {
		t.Errorf("one year old buy: short %s long %s, want all long", got.ShortTerm, got.LongTerm)
	}
}

func TestClassifyHoldings_SellReducesProportionally(t *testing.T) {
	now := day("2025-06-01")
	txs := []Transaction{
		buy("2023-01-01", 3.0, 30000),  // long term
		buy("2025-05-01", 1.0, 50000),  // short term
		sellTx("2025-05-15", 2.0, 100000),
	}

	got := ClassifyHoldings(txs, now)

	// 75% of the sale comes out of the long bucket, 25% out of the short one.
	if !got.LongTerm.Equal(B(1.5)) {
		t.Errorf("LongTerm = %s, want 1.5", got.LongTerm)
	}
	if !got.ShortTerm.Equal(B(0.5)) {
		t.Errorf("ShortTerm = %s, want 0.5", got.ShortTerm)
	}
}

func TestClassifyHoldings_OversellClampsToZero(t *testing.T) {
	now := day("2025-06-01")
	txs := []Transaction{
		buy("2025-05-01", 1.0, 50000),
		sellTx("2025-05-15", 3.0, 150000),
	}

	got := ClassifyHoldings(txs, now)
	if got.ShortTerm.IsNegative() || got.LongTerm.IsNegative() {
		t.Errorf("buckets must never go negative: short %s long %s", got.ShortTerm, got.LongTerm)
	}
	if !got.Total().IsZero() {
		t.Errorf("Total = %s, want 0", got.Total())
	}
}

func TestClassifyHoldings_SellWithNoHoldings(t *testing.T) {
	now := day("2025-06-01")
	got := ClassifyHoldings([]Transaction{sellTx("2025-05-15", 1.0, 50000)}, now)
	if !got.Total().IsZero() {
		t.Errorf("Total = %s, want 0", got.Total())
	}
}
