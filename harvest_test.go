package rebalance

import (
	"testing"
	"time"
)

func TestHarvestLosses_ThresholdAndBenefit(t *testing.T) {
	on := NewDate(2025, time.June, 1)
	holdings := HoldingSet{
		// loss of exactly -2500: 100 * (75 - 100)
		mustLot(t, "BND", 100, 100, NewDate(2024, time.March, 10)),
		// loss of -400: under the threshold
		mustLot(t, "VXUS", 100, 66, NewDate(2024, time.May, 10)),
		// a gain, never harvestable
		mustLot(t, "VTI", 100, 220, NewDate(2023, time.January, 15)),
	}
	prices := PriceMap{"BND": USD(75), "VXUS": USD(62), "VTI": USD(245)}
	valued, err := Value(holdings, prices, on)
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	opportunities := HarvestLosses(valued, USD(500), 0.24)

	if len(opportunities) != 1 {
		t.Fatalf("len(opportunities) = %d, want 1", len(opportunities))
	}
	opp := opportunities[0]
	if opp.Ticker != "BND" {
		t.Errorf("opportunity ticker = %s, want BND", opp.Ticker)
	}
	if !opp.Loss.Equal(USD(-2500)) {
		t.Errorf("loss = %s, want -$2,500.00", opp.Loss)
	}
	// tax_benefit must be exactly abs(loss) * tax_rate.
	if !opp.TaxBenefit.Equal(USD(600)) {
		t.Errorf("tax benefit = %s, want $600.00", opp.TaxBenefit)
	}
}

func TestHarvestLosses_ExactThresholdExcluded(t *testing.T) {
	// A loss of exactly -minLoss is not "below" the threshold.
	holdings := HoldingSet{mustLot(t, "BND", 100, 80, NewDate(2024, time.March, 10))}
	valued, err := Value(holdings, PriceMap{"BND": USD(75)}, NewDate(2025, time.June, 1))
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if opps := HarvestLosses(valued, USD(500), 0.24); len(opps) != 0 {
		t.Errorf("loss of exactly -$500 harvested, want excluded")
	}
	if opps := HarvestLosses(valued, USD(499), 0.24); len(opps) != 1 {
		t.Errorf("loss of -$500 with $499 threshold not harvested")
	}
}

func TestHarvestLosses_Ranking(t *testing.T) {
	on := NewDate(2025, time.June, 1)
	holdings := HoldingSet{
		mustLot(t, "AAA", 100, 85, NewDate(2024, time.March, 10)), // -1000
		mustLot(t, "BBB", 100, 105, NewDate(2024, time.April, 1)), // -3000
		mustLot(t, "CCC", 100, 85, NewDate(2024, time.May, 20)),   // -1000, ties with AAA
	}
	prices := PriceMap{"AAA": USD(75), "BBB": USD(75), "CCC": USD(75)}
	valued, err := Value(holdings, prices, on)
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	opportunities := HarvestLosses(valued, USD(500), 0.24)
	var got []string
	for _, opp := range opportunities {
		got = append(got, opp.Ticker)
	}
	want := []string{"BBB", "AAA", "CCC"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", got, want)
		}
	}
}

func TestHarvestLosses_Pure(t *testing.T) {
	holdings := HoldingSet{mustLot(t, "BND", 100, 100, NewDate(2024, time.March, 10))}
	valued, err := Value(holdings, PriceMap{"BND": USD(75)}, NewDate(2025, time.June, 1))
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	a := HarvestLosses(valued, USD(500), 0.24)
	b := HarvestLosses(valued, USD(500), 0.24)
	if len(a) != len(b) || !a[0].TaxBenefit.Equal(b[0].TaxBenefit) {
		t.Errorf("HarvestLosses is not a pure function of its inputs")
	}
	if !valued[0].Gain.Equal(USD(-2500)) {
		t.Errorf("input lots mutated by harvesting")
	}
}
