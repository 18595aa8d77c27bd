package rebalance

import (
	"slices"
	"strings"
)

// AllocationRow is the per-ticker aggregate of the drift analysis.
type AllocationRow struct {
	Ticker        string
	Value         Money // sum of lot values
	Gain          Money // sum of lot unrealized gains
	CurrentWeight float64
	TargetWeight  float64
	WeightDiff    float64 // CurrentWeight - TargetWeight
	DollarDiff    Money   // WeightDiff * total value
	// Drift is WeightDiff/TargetWeight as a percentage. When the target
	// weight is 0 the drift is undefined (DriftDefined false): the
	// position is overweight-to-zero, the most extreme drift there is,
	// and it sorts ahead of every defined value.
	Drift        Percent
	DriftDefined bool
}

// AnalyzeAllocation aggregates valued lots per ticker and compares the
// resulting weights against the target allocation.
//
// The returned rows cover the union of held and targeted tickers, so a
// target with zero holdings still surfaces (as a NEW_POSITION candidate).
// Rows are sorted most-overweight first: undefined drift (target 0),
// then drift descending, ties by ticker ascending.
func AnalyzeAllocation(valued []ValuedLot, targets TargetAllocation) []AllocationRow {
	total := TotalValue(valued)

	// Group lots by ticker.
	byTicker := make(map[string]*AllocationRow)
	var tickers []string
	for _, lot := range valued {
		row, ok := byTicker[lot.Ticker]
		if !ok {
			row = &AllocationRow{Ticker: lot.Ticker}
			byTicker[lot.Ticker] = row
			tickers = append(tickers, lot.Ticker)
		}
		row.Value = row.Value.Add(lot.Value)
		row.Gain = row.Gain.Add(lot.Gain)
	}
	// Union with targeted tickers that have no holdings.
	for _, ticker := range targets.Tickers() {
		if _, ok := byTicker[ticker]; !ok {
			byTicker[ticker] = &AllocationRow{Ticker: ticker}
			tickers = append(tickers, ticker)
		}
	}

	rows := make([]AllocationRow, 0, len(tickers))
	for _, ticker := range tickers {
		row := byTicker[ticker]
		if total.IsPositive() {
			row.CurrentWeight = row.Value.Ratio(total)
		}
		row.TargetWeight = targets.Weight(ticker)
		row.WeightDiff = row.CurrentWeight - row.TargetWeight
		row.DollarDiff = total.Mul(Q(row.WeightDiff))
		if row.TargetWeight != 0 {
			row.Drift = Percent(row.WeightDiff / row.TargetWeight * 100)
			row.DriftDefined = true
		}
		rows = append(rows, *row)
	}

	slices.SortFunc(rows, func(a, b AllocationRow) int {
		// undefined drift is the overweight-to-zero extreme: first.
		if a.DriftDefined != b.DriftDefined {
			if !a.DriftDefined {
				return -1
			}
			return 1
		}
		if a.Drift != b.Drift {
			if a.Drift > b.Drift {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return rows
}

// TotalValue sums the current value of all valued lots.
func TotalValue(valued []ValuedLot) Money {
	var total Money
	for _, lot := range valued {
		total = total.Add(lot.Value)
	}
	return total
}

// TotalCost sums the cost basis of all valued lots.
func TotalCost(valued []ValuedLot) Money {
	var total Money
	for _, lot := range valued {
		total = total.Add(lot.Cost)
	}
	return total
}
