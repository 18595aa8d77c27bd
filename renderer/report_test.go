package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/rebalance"
)

func fixtureAnalysis(t *testing.T) *rebalance.Analysis {
	t.Helper()
	lot := func(ticker string, shares, basis float64, purchase rebalance.Date) rebalance.Lot {
		l, err := rebalance.NewLot(ticker, rebalance.Q(shares), rebalance.USD(basis), purchase)
		if err != nil {
			t.Fatalf("NewLot(%s): %v", ticker, err)
		}
		return l
	}

	on := rebalance.NewDate(2026, 6, 15)
	holdings := rebalance.HoldingSet{
		lot("VTI", 150, 200, rebalance.NewDate(2023, 1, 10)),
		lot("BND", 400, 75, rebalance.NewDate(2024, 3, 5)),
		lot("GME", 50, 40, rebalance.NewDate(2026, 2, 1)),
	}
	prices := rebalance.PriceMap{
		"VTI": rebalance.USD(245),
		"BND": rebalance.USD(68.75),
		"GME": rebalance.USD(20),
	}
	targets := rebalance.TargetAllocation{"VTI": 0.60, "BND": 0.40}

	a, err := rebalance.NewAnalysis(holdings, prices, targets, on, rebalance.Options{
		TaxRate: 0.24,
		MinLoss: rebalance.USD(500),
	})
	if err != nil {
		t.Fatalf("NewAnalysis: %v", err)
	}
	return a
}

func TestReportMarkdown_Sections(t *testing.T) {
	report := ReportMarkdown(fixtureAnalysis(t))

	for _, want := range []string{
		"# Portfolio Rebalancing Report on 2026-06-15",
		"## Summary",
		"## Current Allocation",
		"## Tax-Loss Harvesting Opportunities",
		"## Recommended Trades",
		"Step 1: Liquidate positions (target = 0%)",
		"### Transaction Summary",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}

	// GME: 50 shares bought at $40, now $20. Loss $1,000, benefit $240.
	if !strings.Contains(report, "$240.00") {
		t.Errorf("report missing GME tax benefit:\n%s", report)
	}
	// The liquidation appears in the harvest table and in step 1.
	if !strings.Contains(report, "SELL $1,000.00 of GME") {
		t.Errorf("report missing GME liquidation:\n%s", report)
	}
}

func TestReportMarkdown_Deterministic(t *testing.T) {
	first := ReportMarkdown(fixtureAnalysis(t))
	second := ReportMarkdown(fixtureAnalysis(t))
	if first != second {
		t.Error("two identical analyses rendered different reports")
	}
}

func TestReportMarkdown_NoTrades(t *testing.T) {
	lot, err := rebalance.NewLot("VTI", rebalance.Q(100), rebalance.USD(200), rebalance.NewDate(2024, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	a, err := rebalance.NewAnalysis(
		rebalance.HoldingSet{lot},
		rebalance.PriceMap{"VTI": rebalance.USD(250)},
		rebalance.TargetAllocation{"VTI": 1},
		rebalance.NewDate(2026, 6, 15),
		rebalance.Options{TaxRate: 0.24},
	)
	if err != nil {
		t.Fatal(err)
	}
	report := ReportMarkdown(a)
	if !strings.Contains(report, "## No Rebalancing Needed") {
		t.Errorf("balanced portfolio should render the no-trades section:\n%s", report)
	}
	if strings.Contains(report, "### Transaction Summary") {
		t.Errorf("no-trades report should not carry a transaction summary:\n%s", report)
	}
}

func TestHarvestMarkdown_Empty(t *testing.T) {
	lot, err := rebalance.NewLot("VTI", rebalance.Q(100), rebalance.USD(200), rebalance.NewDate(2024, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	a, err := rebalance.NewAnalysis(
		rebalance.HoldingSet{lot},
		rebalance.PriceMap{"VTI": rebalance.USD(250)},
		rebalance.TargetAllocation{"VTI": 1},
		rebalance.NewDate(2026, 6, 15),
		rebalance.Options{TaxRate: 0.24},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := HarvestMarkdown(a)
	if !strings.Contains(out, "No harvestable losses above $500.00.") {
		t.Errorf("unexpected harvest output:\n%s", out)
	}
}

func TestReportMarkdown_ProvisionalMarker(t *testing.T) {
	lot, err := rebalance.NewLot("GME", rebalance.Q(50), rebalance.USD(40), rebalance.NewDate(2026, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	lot.Provisional = true
	a, err := rebalance.NewAnalysis(
		rebalance.HoldingSet{lot},
		rebalance.PriceMap{"GME": rebalance.USD(20)},
		rebalance.TargetAllocation{"GME": 1},
		rebalance.NewDate(2026, 6, 15),
		rebalance.Options{TaxRate: 0.24, MinLoss: rebalance.USD(500)},
	)
	if err != nil {
		t.Fatal(err)
	}
	report := ReportMarkdown(a)
	if !strings.Contains(report, "(?)") {
		t.Errorf("provisional lot should be flagged:\n%s", report)
	}
	if !strings.Contains(report, "provisional") {
		t.Errorf("provisional footnote missing:\n%s", report)
	}
}
