package hodlwatch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerRoundTrip(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2025-01-10"), "kraken", B(1.5), M(45000), M(30000), NewFee(decimal.NewFromInt(25), USD)),
		NewSell(day("2025-03-01"), "kraken", B(0.5), M(20000), M(40000), NewFee(decimal.NewFromFloat(0.0001), "BTC")),
		NewDeposit(day("2025-04-01"), "", B(0.25), M(41000), Fee{}),
		NewWithdraw(day("2025-05-01"), "", B(0.1), M(0), Fee{}),
		NewInterest(day("2025-06-01"), "ledn", B(0.002), M(42000), NewFee(decimal.NewFromFloat(0.00001), "BTC")),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if decoded.Len() != ledger.Len() {
		t.Fatalf("decoded %d transactions, want %d", decoded.Len(), ledger.Len())
	}
	for i, want := range ledger.Transactions() {
		if got := decoded.Transactions()[i]; !got.Equal(want) {
			t.Errorf("transaction %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestDecodeLedger_SkipsEmptyLines(t *testing.T) {
	input := `{"type":"buy","date":"2025-01-10","btc":1,"cost":10000,"price":10000}

{"type":"sell","date":"2025-02-10","btc":0.5,"proceeds":7500,"price":15000}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if ledger.Len() != 2 {
		t.Errorf("decoded %d transactions, want 2", ledger.Len())
	}
}

func TestDecodeLedger_RejectsUnknownType(t *testing.T) {
	input := `{"type":"airdrop","date":"2025-01-10","btc":1}`
	if _, err := DecodeLedger(strings.NewReader(input)); err == nil {
		t.Error("unknown transaction type should fail decoding")
	}
}

func TestDecodeLedger_RejectsInvalidTransaction(t *testing.T) {
	input := `{"type":"buy","date":"2025-01-10","btc":0,"cost":10000}`
	if _, err := DecodeLedger(strings.NewReader(input)); err == nil {
		t.Error("a buy of zero BTC should fail validation")
	}
}

func TestEncodeLedger_StableFieldOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(NewBuy(day("2025-01-10"), "kraken", B(1), M(10000), M(10000), Fee{}))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}
	line := buf.String()
	if !strings.HasPrefix(line, `{"type":"buy",`) {
		t.Errorf("line must start with the type tag: %s", line)
	}
	if strings.Contains(line, `"btc":"`) {
		t.Errorf("amounts must be plain numbers, not strings: %s", line)
	}
}
