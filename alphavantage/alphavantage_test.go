package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/rebalance"
	"golang.org/x/time/rate"
)

// testClient returns a client pointed at a fake API, without the disk
// cache and without the free-tier pacing.
func testClient(handler http.Handler) (*Client, func()) {
	srv := httptest.NewServer(handler)
	c := &Client{
		apiKey:  "test-key",
		baseURL: srv.URL,
		http:    srv.Client(),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	return c, srv.Close
}

func TestQuote(t *testing.T) {
	c, close := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want test-key", got)
		}
		symbol := r.URL.Query().Get("symbol")
		fmt.Fprintf(w, `{"Global Quote": {"01. symbol": %q, "05. price": "245.0000"}}`, symbol)
	}))
	defer close()

	price, err := c.Quote(context.Background(), "VTI")
	if err != nil {
		t.Fatalf("Quote(VTI): %v", err)
	}
	if !price.Equal(rebalance.USD(245)) {
		t.Errorf("price = %s, want $245.00", price)
	}
}

func TestQuote_APIErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string // substring of the returned error
	}{
		{"invalid ticker", `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"rate limited", `{"Note": "Thank you for using Alpha Vantage! 5 calls per minute."}`, "rate limited"},
		{"empty quote", `{"Global Quote": {}}`, "no quote"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, close := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer close()
			_, err := c.Quote(context.Background(), "NOPE")
			if err == nil {
				t.Fatal("Quote should fail on an API error body")
			}
			// The body's own message must surface, not a generic
			// missing-quote error.
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Quote error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestQuote_NoKey(t *testing.T) {
	c := &Client{limiter: rate.NewLimiter(rate.Inf, 1)}
	if _, err := c.Quote(context.Background(), "VTI"); err == nil {
		t.Error("Quote without an API key should fail")
	}
}

func TestFetch(t *testing.T) {
	quotes := map[string]string{"VTI": "245.0000", "BND": "68.7500"}
	c, close := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		price, ok := quotes[symbol]
		if !ok {
			fmt.Fprint(w, `{"Error Message": "Invalid API call."}`)
			return
		}
		fmt.Fprintf(w, `{"Global Quote": {"01. symbol": %q, "05. price": %q}}`, symbol, price)
	}))
	defer close()

	prices, err := c.Fetch(context.Background(), []string{"VTI", "BND"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("fetched %d prices, want 2", len(prices))
	}
	if !prices["BND"].Equal(rebalance.USD(68.75)) {
		t.Errorf("BND = %s, want $68.75", prices["BND"])
	}

	if _, err := c.Fetch(context.Background(), []string{"VTI", "NOPE"}); err == nil {
		t.Error("Fetch with an unknown ticker should fail, not return a partial map")
	}
}

func TestFetch_ContextCancel(t *testing.T) {
	c, close := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {"05. price": "1.0"}}`)
	}))
	defer close()
	// Force the limiter to block, then cancel.
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.Quote(ctx, "VTI"); err != nil {
		t.Fatalf("first quote uses the burst: %v", err)
	}
	cancel()
	if _, err := c.Quote(ctx, "BND"); err == nil {
		t.Error("Quote on a canceled context should fail")
	}
}

func TestPricesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	asOf := rebalance.NewDate(2026, 6, 15)
	prices := rebalance.PriceMap{
		"VTI": rebalance.USD(245),
		"BND": rebalance.USD(68.75),
	}
	if err := SavePrices(path, prices, asOf); err != nil {
		t.Fatalf("SavePrices: %v", err)
	}
	loaded, date, err := LoadPrices(path)
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}
	if date != asOf {
		t.Errorf("as_of = %s, want %s", date, asOf)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d prices, want 2", len(loaded))
	}
	if !loaded["BND"].Equal(rebalance.USD(68.75)) {
		t.Errorf("BND = %s, want $68.75", loaded["BND"])
	}
}

func TestLoadPrices_Errors(t *testing.T) {
	if _, _, err := LoadPrices(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}
