// Package renderer renders analysis results to markdown. It formats what
// the engine computed and never recomputes it.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
)

// ReportMarkdown renders the full rebalancing report: summary, allocation
// table, harvesting opportunities and the phased trade plan. The output
// is deterministic: identical analyses render byte-identical reports.
func ReportMarkdown(a *rebalance.Analysis) string {
	return ClientReportMarkdown("", a)
}

// ClientReportMarkdown renders the full report titled for a client.
func ClientReportMarkdown(client string, a *rebalance.Analysis) string {
	var b strings.Builder

	if client == "" {
		fmt.Fprintf(&b, "# Portfolio Rebalancing Report on %s\n\n", a.Date)
	} else {
		fmt.Fprintf(&b, "# Portfolio Rebalancing Report for %s on %s\n\n", client, a.Date)
	}

	summaryMarkdown(&b, a)
	allocationMarkdown(&b, a)
	harvestMarkdown(&b, a)
	tradesMarkdown(&b, a)

	return b.String()
}

func summaryMarkdown(b *strings.Builder, a *rebalance.Analysis) {
	fmt.Fprint(b, "## Summary\n\n")
	fmt.Fprintln(b, "| | |")
	fmt.Fprintln(b, "|:---|---:|")
	fmt.Fprintf(b, "| Total Market Value | %s |\n", a.TotalValue)
	fmt.Fprintf(b, "| Total Cost Basis | %s |\n", a.TotalCost)
	gain := a.TotalGain.SignedString()
	if a.TotalGainPctDefined {
		gain = fmt.Sprintf("%s (%s)", a.TotalGain.SignedString(), a.TotalGainPct.SignedString())
	}
	fmt.Fprintf(b, "| Unrealized Gain/Loss | %s |\n", gain)
	fmt.Fprintf(b, "| Tax Lots | %d |\n", len(a.Lots))
	fmt.Fprintf(b, "| Tax Rate | %.0f%% |\n", a.TaxRate*100)
	fmt.Fprintln(b)
}

func allocationMarkdown(b *strings.Builder, a *rebalance.Analysis) {
	fmt.Fprint(b, "## Current Allocation\n\n")
	fmt.Fprintln(b, "| Ticker | Value | Current | Target | Drift |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|---:|")
	for _, row := range a.Rows {
		drift := "exit" // overweight-to-zero: no meaningful drift figure
		if row.DriftDefined {
			drift = row.Drift.SignedString()
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			row.Ticker, row.Value, weight(row.CurrentWeight), weight(row.TargetWeight), drift)
	}
	fmt.Fprintln(b)
}

func harvestMarkdown(b *strings.Builder, a *rebalance.Analysis) {
	if len(a.Opportunities) == 0 {
		return
	}
	fmt.Fprint(b, "## Tax-Loss Harvesting Opportunities\n\n")
	fmt.Fprintf(b, "Total potential tax savings: **%s**\n\n", a.TotalTaxBenefit)
	fmt.Fprintln(b, "| Ticker | Shares | Loss | Tax Benefit | Purchased | Held |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|:---|---:|")
	provisional := false
	for _, opp := range a.Opportunities {
		purchased := opp.PurchaseDate.String()
		if opp.Provisional {
			purchased += " (?)"
			provisional = true
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %d days |\n",
			opp.Ticker, opp.Shares, opp.Loss, opp.TaxBenefit, purchased, opp.DaysHeld)
	}
	fmt.Fprintln(b)
	if provisional {
		fmt.Fprint(b, "(?) purchase date is provisional: the source export lacked lot-level dates, so the holding period is a guess.\n\n")
	}
}

func tradesMarkdown(b *strings.Builder, a *rebalance.Analysis) {
	if len(a.Trades) == 0 {
		fmt.Fprint(b, "## No Rebalancing Needed\n\n")
		fmt.Fprint(b, "The portfolio is within acceptable drift thresholds.\n")
		return
	}

	fmt.Fprint(b, "## Recommended Trades\n\n")

	step := 1
	if liquidations := a.Liquidations(); len(liquidations) > 0 {
		fmt.Fprintf(b, "### Step %d: Liquidate positions (target = 0%%)\n\n", step)
		step++
		var subtotal rebalance.Money
		for i, trade := range liquidations {
			fmt.Fprintf(b, "%d. SELL %s of %s (liquidate entire position)\n", i+1, trade.Amount, trade.Ticker)
			subtotal = subtotal.Add(trade.Amount)
		}
		fmt.Fprintf(b, "\nSubtotal proceeds: %s\n\n", subtotal)
	}

	if sells := a.Sells(); len(sells) > 0 {
		fmt.Fprintf(b, "### Step %d: Reduce overweight positions\n\n", step)
		step++
		for _, trade := range sells {
			fmt.Fprintf(b, "- SELL %s of %s (reduce from %s to %s)", trade.Amount, trade.Ticker,
				weight(trade.CurrentWeight), weight(trade.TargetWeight))
			if trade.TaxImpact.IsPositive() {
				fmt.Fprintf(b, ", estimated tax cost %s", trade.TaxImpact)
			}
			fmt.Fprintln(b)
		}
		fmt.Fprintln(b)
	}

	if buys := a.Buys(); len(buys) > 0 {
		fmt.Fprintf(b, "### Step %d: Buy / increase positions\n\n", step)
		for _, trade := range buys {
			if trade.Type == rebalance.NewPosition {
				fmt.Fprintf(b, "- BUY %s of %s (new position)\n", trade.Amount, trade.Ticker)
			} else {
				fmt.Fprintf(b, "- BUY %s of %s (increase from %s to %s)\n", trade.Amount, trade.Ticker,
					weight(trade.CurrentWeight), weight(trade.TargetWeight))
			}
		}
		fmt.Fprintln(b)
	}

	fmt.Fprint(b, "### Transaction Summary\n\n")
	fmt.Fprintln(b, "| | |")
	fmt.Fprintln(b, "|:---|---:|")
	fmt.Fprintf(b, "| Proceeds from sales | %s |\n", a.Proceeds)
	fmt.Fprintf(b, "| Cost of purchases | %s |\n", a.Purchases)
	fmt.Fprintf(b, "| Net cash needed | %s |\n", a.NetCash)
	fmt.Fprintln(b)
	if a.CashNeutral {
		fmt.Fprint(b, "The plan is cash-neutral (within $100).\n")
	}
}

// TradesMarkdown renders only the trade plan section, for the 'trades'
// subcommand.
func TradesMarkdown(a *rebalance.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trade Plan on %s\n\n", a.Date)
	tradesMarkdown(&b, a)
	return b.String()
}

// DriftMarkdown renders only the allocation section, for the 'drift'
// subcommand.
func DriftMarkdown(a *rebalance.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Allocation Drift on %s\n\n", a.Date)
	allocationMarkdown(&b, a)
	return b.String()
}

// HarvestMarkdown renders only the harvesting section, for the 'harvest'
// subcommand.
func HarvestMarkdown(a *rebalance.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tax-Loss Harvesting on %s\n\n", a.Date)
	if len(a.Opportunities) == 0 {
		fmt.Fprintf(&b, "No harvestable losses above %s.\n", a.MinLoss)
		return b.String()
	}
	harvestMarkdown(&b, a)
	return b.String()
}
