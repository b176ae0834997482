// Package coingecko fetches bitcoin prices from the CoinGecko public API:
// the current spot price, daily historical closes, and the all-time high.
// Responses are cached on disk with daily expiry, and the spot price is
// additionally held in memory for a short TTL so bursts of requests do not
// hammer the API.
package coingecko

import (
	"fmt"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/hodlwatch/hodlwatch"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// spotTTL is how long a fetched spot price is served from memory.
const spotTTL = 5 * time.Minute

// Client queries the CoinGecko API. It implements hodlwatch.SpotPriceSource,
// hodlwatch.HistoricalPriceSource and hodlwatch.ATHSource.
type Client struct {
	baseURL string
	get     func(addr string, data any) error

	mu        sync.Mutex
	spot      hodlwatch.Money
	spotStamp time.Time
	closes    hodlwatch.History[float64]
}

// NewClient creates a client backed by the daily disk cache in cacheDir (the
// system temp dir when empty). baseURL overrides the public API endpoint,
// mainly for tests.
func NewClient(baseURL, cacheDir string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := newDailyCachingClient(cacheDir)
	return &Client{
		baseURL: baseURL,
		get:     func(addr string, data any) error { return jwget(httpClient, addr, data) },
	}
}

// Spot returns the current BTC price in USD.
func (c *Client) Spot() (hodlwatch.Money, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.spot.IsZero() && time.Since(c.spotStamp) < spotTTL {
		return c.spot, nil
	}

	addr := c.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd"
	var jobj any
	if err := c.get(addr, &jobj); err != nil {
		return hodlwatch.M(0), fmt.Errorf("cannot fetch spot price: %w", err)
	}
	price, err := parseSpot(jobj)
	if err != nil {
		return hodlwatch.M(0), err
	}
	c.spot, c.spotStamp = price, time.Now()
	return price, nil
}

// PriceOn returns the daily close for a past date. A date CoinGecko has no
// data for yields (zero, false, nil): absence is not an error.
func (c *Client) PriceOn(day hodlwatch.Date) (hodlwatch.Money, bool, error) {
	c.mu.Lock()
	if val, ok := c.closes.Get(day); ok {
		c.mu.Unlock()
		return hodlwatch.M(val), true, nil
	}
	c.mu.Unlock()

	// CoinGecko wants dd-mm-yyyy here, unlike everywhere else.
	addr := fmt.Sprintf("%s/coins/bitcoin/history?date=%s&localization=false", c.baseURL, day.Format("02-01-2006"))
	var jobj any
	if err := c.get(addr, &jobj); err != nil {
		return hodlwatch.M(0), false, fmt.Errorf("cannot fetch price for %s: %w", day, err)
	}
	price, ok, err := parseHistory(jobj)
	if ok && err == nil {
		c.mu.Lock()
		c.closes.Append(day, price.AsFloat())
		c.mu.Unlock()
	}
	return price, ok, err
}

// ATH returns the all-time-high USD price and the date it was reached.
func (c *Client) ATH() (hodlwatch.ATH, error) {
	addr := c.baseURL + "/coins/bitcoin?localization=false&tickers=false&community_data=false&developer_data=false"
	var jobj any
	if err := c.get(addr, &jobj); err != nil {
		return hodlwatch.ATH{}, fmt.Errorf("cannot fetch all-time high: %w", err)
	}
	return parseATH(jobj)
}

// Lookup adapts the client to the performance engine's price-history
// collaborator: lookup failures and absent dates degrade to a miss.
func (c *Client) Lookup() hodlwatch.HistoricalPriceLookup {
	return func(day hodlwatch.Date) (hodlwatch.Money, bool) {
		price, ok, err := c.PriceOn(day)
		if err != nil || !ok {
			return hodlwatch.M(0), false
		}
		return price, true
	}
}

// extract evaluates a jsonpath expression and returns its float value.
func extract(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("cannot parse payload at %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("cannot parse payload at %q: not a number: %v", path, jval)
	}
	return val, nil
}

// parseSpot extracts the USD spot price from the simple/price payload:
//
//	{"bitcoin": {"usd": 97432.12}}
func parseSpot(jobj any) (hodlwatch.Money, error) {
	val, err := extract(jobj, "$.bitcoin.usd")
	if err != nil {
		return hodlwatch.M(0), err
	}
	if val <= 0 {
		return hodlwatch.M(0), fmt.Errorf("spot price is not positive: %v", val)
	}
	return hodlwatch.M(val), nil
}

// parseHistory extracts the USD close from the coins/bitcoin/history payload:
//
//	{"market_data": {"current_price": {"usd": 42164.93, ...}, ...}, ...}
//
// The market_data object is absent for dates before CoinGecko's history
// starts; that is a miss, not an error.
func parseHistory(jobj any) (hodlwatch.Money, bool, error) {
	if m, ok := jobj.(map[string]any); ok {
		if _, present := m["market_data"]; !present {
			return hodlwatch.M(0), false, nil
		}
	}
	val, err := extract(jobj, "$.market_data.current_price.usd")
	if err != nil {
		return hodlwatch.M(0), false, err
	}
	if val <= 0 {
		return hodlwatch.M(0), false, nil
	}
	return hodlwatch.M(val), true, nil
}

// parseATH extracts the USD all-time high and its date from the
// coins/bitcoin payload:
//
//	{"market_data": {"ath": {"usd": 126198.07}, "ath_date": {"usd": "2025-10-06T..."}}}
func parseATH(jobj any) (hodlwatch.ATH, error) {
	price, err := extract(jobj, "$.market_data.ath.usd")
	if err != nil {
		return hodlwatch.ATH{}, err
	}
	jval, err := jsonpath.Get("$.market_data.ath_date.usd", jobj)
	if err != nil {
		return hodlwatch.ATH{}, fmt.Errorf("cannot parse payload at ath_date: %w", err)
	}
	stamp, ok := jval.(string)
	if !ok {
		return hodlwatch.ATH{}, fmt.Errorf("ath_date is not a string: %v", jval)
	}
	var day hodlwatch.Date
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		day = hodlwatch.DateOf(t)
	} else if day, err = hodlwatch.ParseDate(stamp); err != nil {
		return hodlwatch.ATH{}, fmt.Errorf("cannot parse ath_date %q: %w", stamp, err)
	}
	return hodlwatch.ATH{Price: hodlwatch.M(price), Date: day}, nil
}
