package rebalance

import (
	"fmt"
	"slices"
	"strings"
)

// Lot is one tax lot: a discrete purchase of shares of one security, with
// its own cost basis and date. Lots are immutable once created; every
// later stage consumes and annotates copies.
type Lot struct {
	Ticker       string   // upper-cased security symbol
	Shares       Quantity // strictly positive
	CostBasis    Money    // price paid per share, never negative
	PurchaseDate Date
	// Provisional marks a purchase date that was substituted by a loader
	// because the source format lacks lot-level dates. Holding-period
	// classification on a provisional lot is a guess, and reports say so.
	Provisional bool
}

// NewLot builds a validated lot. The ticker is case-normalized to upper
// case; non-positive share counts and negative cost bases are rejected
// here so they never reach the engine.
func NewLot(ticker string, shares Quantity, costBasis Money, purchase Date) (Lot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Lot{}, &ValidationError{Field: "ticker", Reason: "must not be empty"}
	}
	if !shares.IsPositive() {
		return Lot{}, &ValidationError{Field: "shares", Reason: "must be strictly positive, got " + shares.String()}
	}
	if costBasis.IsNegative() {
		return Lot{}, &ValidationError{Field: "cost_basis", Reason: "must not be negative, got " + costBasis.String()}
	}
	if purchase.IsZero() {
		return Lot{}, &ValidationError{Field: "purchase_date", Reason: "must be set"}
	}
	return Lot{Ticker: ticker, Shares: shares, CostBasis: costBasis, PurchaseDate: purchase}, nil
}

// HoldingSet is the canonical in-memory representation of a portfolio's
// lots, in input order.
type HoldingSet []Lot

// Tickers returns the sorted set of distinct tickers held.
func (h HoldingSet) Tickers() []string {
	var tickers []string
	for _, lot := range h {
		if !slices.Contains(tickers, lot.Ticker) {
			tickers = append(tickers, lot.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}

// PriceMap maps a ticker to its current price, supplied by a market-data
// collaborator. It must cover every distinct ticker present in the
// holdings before valuation runs.
type PriceMap map[string]Money

// Price looks up the price for a ticker.
func (p PriceMap) Price(ticker string) (Money, bool) {
	m, ok := p[strings.ToUpper(ticker)]
	return m, ok
}

// TargetAllocation maps a ticker to its target weight in [0,1].
//
// Weights are not forced to sum to 1: any residual weight is implicitly
// "out of the targeted universe", and a held ticker absent from the map
// has target 0, which the trade generator treats as a full-liquidation
// signal.
type TargetAllocation map[string]float64

// Weight returns the target weight for a ticker, 0 when unmapped.
func (t TargetAllocation) Weight(ticker string) float64 {
	return t[strings.ToUpper(ticker)]
}

// Tickers returns the sorted tickers with a strictly positive target.
func (t TargetAllocation) Tickers() []string {
	var tickers []string
	for ticker, w := range t {
		if w > 0 {
			tickers = append(tickers, ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}

// Validate checks that every weight is in [0,1] and that the weights do
// not sum over 1. A sum under 1 is fine: the remainder stays in cash.
func (t TargetAllocation) Validate() error {
	for ticker, w := range t {
		if w < 0 || w > 1 {
			return &ConfigurationError{Key: ticker, Reason: "target weight must be in [0,1]"}
		}
	}
	if sum := t.Sum(); sum > 1+1e-6 {
		return &ConfigurationError{Key: "targets", Reason: fmt.Sprintf("target weights sum to %.4f, must not exceed 1", sum)}
	}
	return nil
}

// Sum returns the total targeted weight. Callers may warn when it is not
// 1; the engine itself does not require it.
func (t TargetAllocation) Sum() float64 {
	var sum float64
	for _, w := range t {
		sum += w
	}
	return sum
}
