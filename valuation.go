package rebalance

// longTermDays is the holding period, in days, after which a lot
// qualifies for long-term capital gains treatment.
const longTermDays = 365

// ValuedLot is a lot annotated with its market valuation on a given date.
type ValuedLot struct {
	Lot
	Price Money // current price per share
	Value Money // Shares * Price
	Cost  Money // Shares * CostBasis
	Gain  Money // Value - Cost
	// GainPct is Gain/Cost as a percentage. It is undefined (and
	// GainPctDefined false) for a zero-cost lot; that is a sentinel, not
	// an error.
	GainPct        Percent
	GainPctDefined bool
	DaysHeld       int
	LongTerm       bool // held at least longTermDays
}

// Value computes the market valuation of every lot on the evaluation
// date 'on'. The date is captured once per run so a single run is
// internally consistent.
//
// Every held ticker must have a price: a missing entry aborts the whole
// valuation with a MissingPriceError rather than silently zeroing the
// lot, since downstream weight computations would be wrong.
func Value(holdings HoldingSet, prices PriceMap, on Date) ([]ValuedLot, error) {
	valued := make([]ValuedLot, 0, len(holdings))
	for _, lot := range holdings {
		price, ok := prices.Price(lot.Ticker)
		if !ok {
			return nil, &MissingPriceError{Ticker: lot.Ticker}
		}
		if !price.IsPositive() {
			return nil, &ValidationError{Field: "price", Reason: "must be strictly positive for " + lot.Ticker}
		}
		v := ValuedLot{
			Lot:   lot,
			Price: price,
			Value: price.Mul(lot.Shares),
			Cost:  lot.CostBasis.Mul(lot.Shares),
		}
		v.Gain = v.Value.Sub(v.Cost)
		if !v.Cost.IsZero() {
			v.GainPct = Percent(v.Gain.Ratio(v.Cost) * 100)
			v.GainPctDefined = true
		}
		v.DaysHeld = on.DaysSince(lot.PurchaseDate)
		v.LongTerm = v.DaysHeld >= longTermDays
		valued = append(valued, v)
	}
	return valued, nil
}
