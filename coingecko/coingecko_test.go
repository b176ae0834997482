package coingecko

import (
	"encoding/json"
	"testing"

	"github.com/hodlwatch/hodlwatch"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var jobj any
	if err := json.Unmarshal([]byte(payload), &jobj); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return jobj
}

func TestParseSpot(t *testing.T) {
	jobj := decode(t, `{"bitcoin":{"usd":97432.12}}`)
	got, err := parseSpot(jobj)
	if err != nil {
		t.Fatalf("parseSpot: %v", err)
	}
	if !got.Equal(hodlwatch.M(97432.12)) {
		t.Errorf("spot = %s, want $97,432.12", got)
	}

	if _, err := parseSpot(decode(t, `{"ethereum":{"usd":1}}`)); err == nil {
		t.Error("missing bitcoin key should fail")
	}
}

func TestParseHistory(t *testing.T) {
	jobj := decode(t, `{"id":"bitcoin","market_data":{"current_price":{"usd":42164.93,"eur":38500.1}}}`)
	got, ok, err := parseHistory(jobj)
	if err != nil || !ok {
		t.Fatalf("parseHistory: %v, ok=%v", err, ok)
	}
	if !got.Equal(hodlwatch.M(42164.93)) {
		t.Errorf("close = %s, want $42,164.93", got)
	}
}

func TestParseHistory_AbsentDataIsAMiss(t *testing.T) {
	// Dates before CoinGecko's history have no market_data object.
	jobj := decode(t, `{"id":"bitcoin","name":"Bitcoin"}`)
	_, ok, err := parseHistory(jobj)
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if ok {
		t.Error("absence must report a miss")
	}
}

func TestParseATH(t *testing.T) {
	jobj := decode(t, `{"market_data":{"ath":{"usd":126198.07},"ath_date":{"usd":"2025-10-06T03:05:10.123Z"}}}`)
	got, err := parseATH(jobj)
	if err != nil {
		t.Fatalf("parseATH: %v", err)
	}
	if !got.Price.Equal(hodlwatch.M(126198.07)) {
		t.Errorf("ATH price = %s, want $126,198.07", got.Price)
	}
	if got.Date != hodlwatch.MustParseDate("2025-10-06") {
		t.Errorf("ATH date = %s, want 2025-10-06", got.Date)
	}
}

func TestClient_SpotUsesMemoryCache(t *testing.T) {
	calls := 0
	c := &Client{
		baseURL: "http://example.invalid",
		get: func(addr string, data any) error {
			calls++
			return json.Unmarshal([]byte(`{"bitcoin":{"usd":50000}}`), data)
		},
	}

	for i := 0; i < 3; i++ {
		got, err := c.Spot()
		if err != nil {
			t.Fatalf("Spot: %v", err)
		}
		if !got.Equal(hodlwatch.M(50000)) {
			t.Errorf("spot = %s, want $50,000", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetched %d times, want 1 (TTL cache)", calls)
	}
}

func TestClient_PriceOnMemoizesHits(t *testing.T) {
	calls := 0
	c := &Client{
		baseURL: "http://example.invalid",
		get: func(addr string, data any) error {
			calls++
			return json.Unmarshal([]byte(`{"market_data":{"current_price":{"usd":42000}}}`), data)
		},
	}

	day := hodlwatch.MustParseDate("2024-01-15")
	for i := 0; i < 3; i++ {
		got, ok, err := c.PriceOn(day)
		if err != nil || !ok {
			t.Fatalf("PriceOn: %v, ok=%v", err, ok)
		}
		if !got.Equal(hodlwatch.M(42000)) {
			t.Errorf("close = %s, want $42,000", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetched %d times, want 1 (memoized)", calls)
	}
}

func TestClient_LookupDegradesToMiss(t *testing.T) {
	c := &Client{
		baseURL: "http://example.invalid",
		get: func(addr string, data any) error {
			return json.Unmarshal([]byte(`{"id":"bitcoin"}`), data)
		},
	}
	if _, ok := c.Lookup()(hodlwatch.MustParseDate("2010-01-01")); ok {
		t.Error("missing history must be a miss, not a price")
	}
}
