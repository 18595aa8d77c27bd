package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/rebalance"
)

func TestLoadHoldings(t *testing.T) {
	holdings, err := LoadHoldings(strings.NewReader(Sample()))
	if err != nil {
		t.Fatalf("LoadHoldings(sample): %v", err)
	}
	if len(holdings) != 5 {
		t.Fatalf("loaded %d lots, want 5", len(holdings))
	}

	first := holdings[0]
	if first.Ticker != "VTI" {
		t.Errorf("first lot ticker = %q, want VTI", first.Ticker)
	}
	if !first.Shares.Equal(rebalance.Q(100)) {
		t.Errorf("first lot shares = %s, want 100", first.Shares)
	}
	if !first.CostBasis.Equal(rebalance.USD(220)) {
		t.Errorf("first lot basis = %s, want $220.00", first.CostBasis)
	}
	if got, want := first.PurchaseDate.String(), "2023-01-15"; got != want {
		t.Errorf("first lot purchase date = %s, want %s", got, want)
	}
	if first.Provisional {
		t.Error("standard-format lots must not be provisional")
	}
}

func TestLoadHoldings_Lowercase(t *testing.T) {
	in := "ticker,shares,cost_basis,purchase_date\nvti,10,100,2023-01-15\n"
	holdings, err := LoadHoldings(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if holdings[0].Ticker != "VTI" {
		t.Errorf("ticker = %q, want upper-cased VTI", holdings[0].Ticker)
	}
}

func TestLoadHoldings_Errors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		record int
		field  string
	}{
		{"bad header", "symbol,qty,cost,date\nVTI,10,100,2023-01-15\n", 1, "header"},
		{"short row", "ticker,shares,cost_basis,purchase_date\nVTI,10\n", 2, ""},
		{"bad shares", "ticker,shares,cost_basis,purchase_date\nVTI,ten,100,2023-01-15\n", 2, "shares"},
		{"zero shares", "ticker,shares,cost_basis,purchase_date\nVTI,0,100,2023-01-15\n", 2, "shares"},
		{"negative shares", "ticker,shares,cost_basis,purchase_date\nVTI,-5,100,2023-01-15\n", 2, "shares"},
		{"bad basis", "ticker,shares,cost_basis,purchase_date\nVTI,10,$100,2023-01-15\n", 2, "cost_basis"},
		{"negative basis", "ticker,shares,cost_basis,purchase_date\nVTI,10,-100,2023-01-15\n", 2, "cost_basis"},
		{"bad date", "ticker,shares,cost_basis,purchase_date\nVTI,10,100,Jan 15 2023\n", 2, "purchase_date"},
		{"empty ticker", "ticker,shares,cost_basis,purchase_date\n,10,100,2023-01-15\n", 2, "ticker"},
		{"no holdings", "ticker,shares,cost_basis,purchase_date\n", 1, "holdings"},
		{"second record", "ticker,shares,cost_basis,purchase_date\nVTI,10,100,2023-01-15\nBND,bad,80,2023-01-15\n", 3, "shares"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadHoldings(strings.NewReader(tc.in))
			var verr *rebalance.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Record != tc.record {
				t.Errorf("record = %d, want %d", verr.Record, tc.record)
			}
			if tc.field != "" && verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestWriteHoldings_RoundTrip(t *testing.T) {
	holdings, err := LoadHoldings(strings.NewReader(Sample()))
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := WriteHoldings(&out, holdings); err != nil {
		t.Fatal(err)
	}
	again, err := LoadHoldings(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("reloading written holdings: %v", err)
	}
	if len(again) != len(holdings) {
		t.Fatalf("round trip lost lots: %d != %d", len(again), len(holdings))
	}
	for i := range holdings {
		if holdings[i].Ticker != again[i].Ticker ||
			!holdings[i].Shares.Equal(again[i].Shares) ||
			!holdings[i].CostBasis.Equal(again[i].CostBasis) ||
			holdings[i].PurchaseDate != again[i].PurchaseDate {
			t.Errorf("lot %d changed across round trip: %+v != %+v", i, holdings[i], again[i])
		}
	}
}

func TestWriteTrades(t *testing.T) {
	trades := []rebalance.Trade{
		{Ticker: "GME", Action: rebalance.Sell, Type: rebalance.Liquidate, Amount: rebalance.USD(1000)},
		{Ticker: "VTI", Action: rebalance.Buy, Type: rebalance.Adjust, Amount: rebalance.USD(2400.5)},
	}
	var out strings.Builder
	if err := WriteTrades(&out, trades); err != nil {
		t.Fatal(err)
	}
	want := "ticker,action,type,amount,tax_impact\n" +
		"GME,SELL,LIQUIDATE,1000.00,0.00\n" +
		"VTI,BUY,ADJUST,2400.50,0.00\n"
	if out.String() != want {
		t.Errorf("trades CSV:\n%s\nwant:\n%s", out.String(), want)
	}
}
