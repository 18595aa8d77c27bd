package rebalance

import (
	"slices"
	"strings"
)

// TLHOpportunity is one lot whose unrealized loss is deep enough to be
// worth harvesting.
type TLHOpportunity struct {
	Ticker       string
	Shares       Quantity
	Loss         Money // unrealized loss, always negative
	TaxBenefit   Money // abs(Loss) * taxRate
	Value        Money // current value of the lot
	DaysHeld     int
	PurchaseDate Date
	Provisional  bool
}

// HarvestLosses scans valued lots for harvestable losses: every lot with
// an unrealized gain below -minLoss is selected, and its tax benefit is
// exactly abs(loss) * taxRate. Pure function of its inputs.
//
// The result is ranked by tax benefit descending; ties break by ticker
// then purchase date ascending, for determinism.
func HarvestLosses(valued []ValuedLot, minLoss Money, taxRate float64) []TLHOpportunity {
	var opportunities []TLHOpportunity
	for _, lot := range valued {
		if !lot.Gain.LessThan(minLoss.Neg()) {
			continue
		}
		opportunities = append(opportunities, TLHOpportunity{
			Ticker:       lot.Ticker,
			Shares:       lot.Shares,
			Loss:         lot.Gain,
			TaxBenefit:   lot.Gain.Abs().Mul(Q(taxRate)),
			Value:        lot.Value,
			DaysHeld:     lot.DaysHeld,
			PurchaseDate: lot.PurchaseDate,
			Provisional:  lot.Provisional,
		})
	}
	slices.SortFunc(opportunities, func(a, b TLHOpportunity) int {
		if !a.TaxBenefit.Equal(b.TaxBenefit) {
			if a.TaxBenefit.GreaterThan(b.TaxBenefit) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.Ticker, b.Ticker); c != 0 {
			return c
		}
		if a.PurchaseDate.Before(b.PurchaseDate) {
			return -1
		}
		if a.PurchaseDate.After(b.PurchaseDate) {
			return 1
		}
		return 0
	})
	return opportunities
}
