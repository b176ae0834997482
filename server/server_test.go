package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodlwatch/hodlwatch"
)

type fakeRepo struct {
	txs     []hodlwatch.Transaction
	listErr error
}

func (r *fakeRepo) Insert(tx hodlwatch.Transaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeRepo) List() ([]hodlwatch.Transaction, error) { return r.txs, r.listErr }

func (r *fakeRepo) Delete(id string) error {
	for i, tx := range r.txs {
		if tx.Ref() == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no transaction with id %q", id)
}

type fakePrices struct {
	spot    hodlwatch.Money
	spotErr error
	history map[hodlwatch.Date]hodlwatch.Money
	ath     hodlwatch.ATH
}

func (p *fakePrices) Spot() (hodlwatch.Money, error) { return p.spot, p.spotErr }

func (p *fakePrices) PriceOn(day hodlwatch.Date) (hodlwatch.Money, bool, error) {
	price, ok := p.history[day]
	return price, ok, nil
}

func (p *fakePrices) ATH() (hodlwatch.ATH, error) { return p.ath, nil }

func day(s string) hodlwatch.Date { return hodlwatch.MustParseDate(s) }

func newTestServer(repo *fakeRepo, prices *fakePrices) *Server {
	s := New(repo, prices, hodlwatch.FIFO)
	s.now = func() hodlwatch.Date { return day("2025-06-01") }
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func seedRepo() *fakeRepo {
	return &fakeRepo{txs: []hodlwatch.Transaction{
		hodlwatch.NewBuy(day("2025-01-01"), "kraken", hodlwatch.B(1), hodlwatch.M(10000), hodlwatch.M(10000), hodlwatch.Fee{}),
	}}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spot: hodlwatch.M(20000)})

	rec := get(t, s, "/api/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalBTC       json.Number `json:"totalBtc"`
		CurrentValue   json.Number `json:"currentValue"`
		UnrealizedGain json.Number `json:"unrealizedGain"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1", body.TotalBTC.String())
	assert.Equal(t, "20000", body.CurrentValue.String())
	assert.Equal(t, "10000", body.UnrealizedGain.String())
}

func TestCostBasisEndpoint(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spot: hodlwatch.M(20000)})

	rec := get(t, s, "/api/costbasis?method=hifo")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Method string      `json:"method"`
		Basis  json.Number `json:"totalCostBasis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hifo", body.Method)
	assert.Equal(t, "10000", body.Basis.String())
}

func TestCostBasisEndpoint_RejectsUnknownMethod(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spot: hodlwatch.M(20000)})
	rec := get(t, s, "/api/costbasis?method=acb")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldingsEndpoint(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spot: hodlwatch.M(20000)})

	rec := get(t, s, "/api/holdings")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ShortTerm json.Number `json:"shortTerm"`
		LongTerm  json.Number `json:"longTerm"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1", body.ShortTerm.String())
	assert.Equal(t, "0", body.LongTerm.String())
}

func TestPerformanceEndpoint(t *testing.T) {
	prices := &fakePrices{
		spot: hodlwatch.M(20000),
		ath:  hodlwatch.ATH{Price: hodlwatch.M(40000), Date: day("2025-03-01")},
	}
	s := newTestServer(seedRepo(), prices)

	rec := get(t, s, "/api/performance")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Return1y    *json.RawMessage `json:"return1y"`
		ATHDistance json.Number      `json:"athDistancePercent"`
		HodlDays    int              `json:"hodlDays"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Return1y, "five months of history cannot have a 1y return")
	assert.Equal(t, "50", body.ATHDistance.String())
	assert.Equal(t, 151, body.HodlDays)
}

func TestTransactionsCRUD(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestServer(repo, &fakePrices{spot: hodlwatch.M(20000)})

	payload := `{"type":"buy","date":"2025-01-01","btc":1,"fiat":10000,"price":10000,"exchange":"kraken"}`
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.txs, 1)
	id := repo.txs[0].Ref()
	require.NotEmpty(t, id)

	rec = get(t, s, "/api/transactions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"buy"`)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.txs)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionsPost_RejectsInvalid(t *testing.T) {
	s := newTestServer(&fakeRepo{}, &fakePrices{spot: hodlwatch.M(20000)})

	for name, payload := range map[string]string{
		"zero btc":     `{"type":"buy","date":"2025-01-01","btc":0,"fiat":10000}`,
		"unknown type": `{"type":"airdrop","date":"2025-01-01","btc":1}`,
		"bad date":     `{"type":"buy","date":"January","btc":1,"fiat":10000}`,
		"not json":     `buy 1 btc`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(payload)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSpotFailureIsBadGateway(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spotErr: errors.New("rate limited")})
	rec := get(t, s, "/api/metrics")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(seedRepo(), &fakePrices{spot: hodlwatch.M(20000)})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
