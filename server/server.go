// Package server exposes the portfolio analytics over a small JSON API.
// Handlers fetch the transactions and prices once per request, then call the
// pure calculation functions; no state is kept between requests.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hodlwatch/hodlwatch"
)

// TransactionRepository is the persistence contract the server depends on.
type TransactionRepository interface {
	Insert(tx hodlwatch.Transaction) error
	List() ([]hodlwatch.Transaction, error)
	Delete(id string) error
}

// PriceSource bundles the price providers the handlers need.
type PriceSource interface {
	hodlwatch.SpotPriceSource
	hodlwatch.HistoricalPriceSource
	hodlwatch.ATHSource
}

// Server routes API requests to the analytics core.
type Server struct {
	repo          TransactionRepository
	prices        PriceSource
	defaultMethod hodlwatch.CostBasisMethod
	now           func() hodlwatch.Date
	mux           *http.ServeMux
}

// New creates a server over the given repository and price source.
func New(repo TransactionRepository, prices PriceSource, defaultMethod hodlwatch.CostBasisMethod) *Server {
	s := &Server{
		repo:          repo,
		prices:        prices,
		defaultMethod: defaultMethod,
		now:           hodlwatch.Today,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/metrics", s.handleMetrics)          // GET
	s.mux.HandleFunc("/api/costbasis", s.handleCostBasis)      // GET ?method=fifo|lifo|hifo
	s.mux.HandleFunc("/api/holdings", s.handleHoldings)        // GET
	s.mux.HandleFunc("/api/performance", s.handlePerformance)  // GET
	s.mux.HandleFunc("/api/transactions", s.handleTxs)         // GET, POST
	s.mux.HandleFunc("/api/transactions/", s.handleTxItem)     // DELETE /api/transactions/{id}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Simple JSON-only API
	w.Header().Set("Content-Type", "application/json")
	s.mux.ServeHTTP(w, r)
}

// fetch loads the transaction list and the spot price, the two inputs every
// calculation endpoint needs.
func (s *Server) fetch(w http.ResponseWriter) ([]hodlwatch.Transaction, hodlwatch.Money, bool) {
	txs, err := s.repo.List()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return nil, hodlwatch.M(0), false
	}
	price, err := s.prices.Spot()
	if err != nil {
		httpError(w, http.StatusBadGateway, "spot price unavailable: "+err.Error())
		return nil, hodlwatch.M(0), false
	}
	return txs, price, true
}

// GET /api/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	txs, price, ok := s.fetch(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, hodlwatch.AggregateMetrics(txs, price))
}

// GET /api/costbasis?method=fifo|lifo|hifo
func (s *Server) handleCostBasis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	method := s.defaultMethod
	if raw := r.URL.Query().Get("method"); raw != "" {
		var err error
		if method, err = hodlwatch.ParseCostBasisMethod(raw); err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	txs, price, ok := s.fetch(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, hodlwatch.ComputeCostBasis(txs, method, price, s.now()))
}

// GET /api/holdings
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	txs, err := s.repo.List()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hodlwatch.ClassifyHoldings(txs, s.now()))
}

// GET /api/performance
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	txs, price, ok := s.fetch(w)
	if !ok {
		return
	}
	// ATH and history failures degrade the dependent fields to null; the
	// rest of the result is still served.
	ath, err := s.prices.ATH()
	if err != nil {
		log.Printf("all-time high unavailable: %v", err)
		ath = hodlwatch.ATH{}
	}
	lookup := func(day hodlwatch.Date) (hodlwatch.Money, bool) {
		p, ok, err := s.prices.PriceOn(day)
		if err != nil || !ok {
			return hodlwatch.M(0), false
		}
		return p, true
	}
	writeJSON(w, http.StatusOK, hodlwatch.ComputePerformance(txs, price, lookup, ath, s.now()))
}

// transactionDTO is the wire shape of a transaction posted to the API.
type transactionDTO struct {
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	BTC         json.Number     `json:"btc"`
	Fiat        json.Number     `json:"fiat"`
	Price       json.Number     `json:"price"`
	Fee         json.Number     `json:"fee"`
	FeeCurrency string          `json:"feeCurrency"`
	Exchange    string          `json:"exchange"`
	FromAddress string          `json:"fromAddress"`
	ToAddress   string          `json:"toAddress"`
	Memo        string          `json:"memo"`
}

// GET, POST /api/transactions
func (s *Server) handleTxs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.repo.List()
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if txs == nil {
			txs = []hodlwatch.Transaction{}
		}
		writeJSON(w, http.StatusOK, txs)
	case http.MethodPost:
		defer r.Body.Close()
		var dto transactionDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			httpError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
			return
		}
		tx, err := dto.transaction()
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.repo.Insert(tx); err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// DELETE /api/transactions/{id}
func (s *Server) handleTxItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.repo.Delete(id); err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (dto transactionDTO) transaction() (hodlwatch.Transaction, error) {
	day, err := hodlwatch.ParseDate(dto.Date)
	if err != nil {
		return nil, err
	}
	btc, err := decimalOf(dto.BTC)
	if err != nil {
		return nil, err
	}
	fiat, err := decimalOf(dto.Fiat)
	if err != nil {
		return nil, err
	}
	price, err := decimalOf(dto.Price)
	if err != nil {
		return nil, err
	}
	feeAmount, err := decimalOf(dto.Fee)
	if err != nil {
		return nil, err
	}
	feeCurrency := dto.FeeCurrency
	if feeCurrency == "" {
		feeCurrency = hodlwatch.USD
	}
	fee := hodlwatch.NewFee(feeAmount, feeCurrency)

	var tx hodlwatch.Transaction
	switch hodlwatch.Kind(strings.ToLower(dto.Type)) {
	case hodlwatch.KindBuy:
		tx = hodlwatch.NewBuy(day, dto.Exchange, hodlwatch.B(btc), hodlwatch.M(fiat), hodlwatch.M(price), fee)
	case hodlwatch.KindSell:
		tx = hodlwatch.NewSell(day, dto.Exchange, hodlwatch.B(btc), hodlwatch.M(fiat), hodlwatch.M(price), fee)
	case hodlwatch.KindDeposit:
		tx = hodlwatch.NewDeposit(day, dto.Exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	case hodlwatch.KindWithdraw:
		tx = hodlwatch.NewWithdraw(day, dto.Exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	case hodlwatch.KindInterest:
		tx = hodlwatch.NewInterest(day, dto.Exchange, hodlwatch.B(btc), hodlwatch.M(price), fee)
	default:
		return nil, fmt.Errorf("unknown transaction type %q", dto.Type)
	}
	tx = hodlwatch.WithProvenance(tx, dto.FromAddress, dto.ToAddress, dto.Memo)
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// decimalOf parses a JSON number field, treating absence as zero.
func decimalOf(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

/* ======= small helpers ======= */

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":  http.StatusText(status),
		"detail": msg,
	})
}
