package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodlwatch/hodlwatch"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func day(s string) hodlwatch.Date { return hodlwatch.MustParseDate(s) }

func TestInsertAndList(t *testing.T) {
	db := openTestDB(t)

	buy := hodlwatch.NewBuy(day("2025-01-10"), "kraken", hodlwatch.B(1.5), hodlwatch.M(45000), hodlwatch.M(30000), hodlwatch.Fee{})
	sell := hodlwatch.NewSell(day("2025-03-01"), "kraken", hodlwatch.B(0.5), hodlwatch.M(20000), hodlwatch.M(40000), hodlwatch.Fee{})

	// Insert out of order; List must come back chronological.
	require.NoError(t, db.Insert(sell))
	require.NoError(t, db.Insert(buy))

	txs, err := db.List()
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, hodlwatch.KindBuy, txs[0].What())
	assert.Equal(t, hodlwatch.KindSell, txs[1].What())
	assert.True(t, txs[0].Equal(buy), "round trip must preserve the transaction")
	assert.Equal(t, buy.Ref(), txs[0].Ref())
}

func TestInsertRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	bad := hodlwatch.NewBuy(day("2025-01-10"), "", hodlwatch.B(0), hodlwatch.M(100), hodlwatch.M(0), hodlwatch.Fee{})
	assert.Error(t, db.Insert(bad))
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	tx := hodlwatch.NewDeposit(day("2025-04-01"), "", hodlwatch.B(0.25), hodlwatch.M(41000), hodlwatch.Fee{})
	require.NoError(t, db.Insert(tx))

	require.NoError(t, db.Delete(tx.Ref()))
	txs, err := db.List()
	require.NoError(t, err)
	assert.Empty(t, txs)

	assert.Error(t, db.Delete("no-such-id"), "deleting an unknown id must fail")
}

func TestRoundTripAllVariants(t *testing.T) {
	db := openTestDB(t)
	txs := []hodlwatch.Transaction{
		hodlwatch.NewBuy(day("2025-01-10"), "kraken", hodlwatch.B(1), hodlwatch.M(10000), hodlwatch.M(10000), hodlwatch.Fee{}),
		hodlwatch.NewSell(day("2025-02-10"), "kraken", hodlwatch.B(0.5), hodlwatch.M(7500), hodlwatch.M(15000), hodlwatch.Fee{}),
		hodlwatch.NewDeposit(day("2025-03-10"), "", hodlwatch.B(0.1), hodlwatch.M(0), hodlwatch.Fee{}),
		hodlwatch.NewWithdraw(day("2025-04-10"), "", hodlwatch.B(0.05), hodlwatch.M(0), hodlwatch.Fee{}),
		hodlwatch.NewInterest(day("2025-05-10"), "ledn", hodlwatch.B(0.002), hodlwatch.M(42000),
			hodlwatch.NewFee(decimal.NewFromFloat(0.00001), "BTC")),
	}
	for _, tx := range txs {
		require.NoError(t, db.Insert(tx))
	}

	got, err := db.List()
	require.NoError(t, err)
	require.Len(t, got, len(txs))
	for i := range txs {
		assert.True(t, got[i].Equal(txs[i]), "transaction %d changed in the round trip", i)
	}
}
