// Package alphavantage fetches market prices from the Alpha Vantage
// GLOBAL_QUOTE endpoint.
//
// The free tier allows 5 requests per minute and 25 per day, so the
// client rate-limits itself and caches responses on disk for the day.
package alphavantage

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rebalance"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// pricePath extracts the quote from the GLOBAL_QUOTE response:
//
//	{"Global Quote": {"01. symbol": "VTI", "05. price": "245.0000", ...}}
const pricePath = `$["Global Quote"]["05. price"]`

// Client talks to the Alpha Vantage API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client for the given API key, with the free-tier rate
// limit (one request every 12 seconds) and a daily response cache.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    daily(),
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
	}
}

// Quote fetches the latest price for one ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (rebalance.Money, error) {
	if c.apiKey == "" {
		return rebalance.Money{}, fmt.Errorf("alphavantage: an API key is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return rebalance.Money{}, err
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", ticker)
	q.Set("apikey", c.apiKey)
	addr := c.baseURL + "?" + q.Encode()

	var jobj any
	if err := jwget(ctx, c.http, addr, &jobj); err != nil {
		return rebalance.Money{}, fmt.Errorf("fetching %q: %w", ticker, err)
	}

	// The API reports its errors in the body with status 200.
	if msg, err := jsonpath.Get(`$["Error Message"]`, jobj); err == nil {
		return rebalance.Money{}, fmt.Errorf("fetching %q: %v", ticker, msg)
	}
	if note, err := jsonpath.Get("$.Note", jobj); err == nil {
		return rebalance.Money{}, fmt.Errorf("fetching %q: rate limited: %v", ticker, note)
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		return rebalance.Money{}, fmt.Errorf("no quote for %q in response: %w", ticker, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return rebalance.Money{}, fmt.Errorf("quote for %q is not a string: %v", ticker, jval)
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return rebalance.Money{}, fmt.Errorf("quote for %q is not a number %q: %w", ticker, s, err)
	}
	return rebalance.ParseMoney(s, "USD")
}

// Fetch retrieves prices for all tickers. It fails on the first error:
// a partial price map would only defer the failure to the valuation.
func (c *Client) Fetch(ctx context.Context, tickers []string) (rebalance.PriceMap, error) {
	prices := make(rebalance.PriceMap, len(tickers))
	for _, ticker := range tickers {
		price, err := c.Quote(ctx, ticker)
		if err != nil {
			return nil, err
		}
		log.Printf("%s: %s", ticker, price)
		prices[ticker] = price
	}
	return prices, nil
}
