package rebalance

// Options are the tunable parameters of an analysis run.
type Options struct {
	// TaxRate is the combined federal + state short-term capital gains
	// rate. Use 0 for tax-sheltered accounts (e.g. a Roth IRA).
	TaxRate float64
	// MinLoss is the minimum absolute loss a lot must carry to be worth
	// harvesting. A zero-value Money defaults to $500; an explicit
	// USD(0) harvests every loss.
	MinLoss Money
}

// DefaultTaxRate is the short-term capital gains rate suggested to
// callers. A zero TaxRate is legitimate (tax-sheltered accounts), so the
// engine never substitutes it; only the minimum loss gets a default.
const DefaultTaxRate = 0.24

func (o Options) withDefaults() Options {
	if o.MinLoss.IsZero() && o.MinLoss.Currency() == "" {
		o.MinLoss = USD(500)
	}
	return o
}

// Analysis is the outcome of one full pipeline run
// (Value → Analyze → Harvest → GenerateTrades) plus the aggregates the
// report needs, so rendering never recomputes engine results.
type Analysis struct {
	Date    Date // evaluation date, captured once for the whole run
	TaxRate float64
	MinLoss Money

	Lots          []ValuedLot
	Rows          []AllocationRow
	Opportunities []TLHOpportunity
	Trades        []Trade

	TotalValue          Money
	TotalCost           Money
	TotalGain           Money
	TotalGainPct        Percent
	TotalGainPctDefined bool
	TotalTaxBenefit     Money // summed over harvesting opportunities

	// Cash flow of the trade plan.
	Proceeds    Money // total from sells and liquidations
	Purchases   Money // total cost of buys
	NetCash     Money // Purchases - Proceeds
	CashNeutral bool  // abs(NetCash) under $100
}

// cashNeutralTolerance is the net-cash band within which a trade plan is
// reported as cash-neutral.
func cashNeutralTolerance() Money { return USD(100) }

// NewAnalysis runs the whole pipeline on the evaluation date 'on'.
//
// The run is pure and idempotent: identical inputs and date produce an
// identical Analysis. On a zero-value portfolio it fails with a
// ZeroPortfolioError; callers that still want the drift and harvesting
// stages can invoke Value, AnalyzeAllocation and HarvestLosses directly.
func NewAnalysis(holdings HoldingSet, prices PriceMap, targets TargetAllocation, on Date, opts Options) (*Analysis, error) {
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	valued, err := Value(holdings, prices, on)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Date:    on,
		TaxRate: opts.TaxRate,
		MinLoss: opts.MinLoss,
		Lots:    valued,
	}

	a.Rows = AnalyzeAllocation(valued, targets)
	a.Opportunities = HarvestLosses(valued, opts.MinLoss, opts.TaxRate)

	a.TotalValue = TotalValue(valued)
	a.TotalCost = TotalCost(valued)
	a.TotalGain = a.TotalValue.Sub(a.TotalCost)
	if !a.TotalCost.IsZero() {
		a.TotalGainPct = Percent(a.TotalGain.Ratio(a.TotalCost) * 100)
		a.TotalGainPctDefined = true
	}
	for _, opp := range a.Opportunities {
		a.TotalTaxBenefit = a.TotalTaxBenefit.Add(opp.TaxBenefit)
	}

	a.Trades, err = GenerateTrades(a.Rows, valued, a.TotalValue, opts.TaxRate)
	if err != nil {
		return nil, err
	}

	for _, trade := range a.Trades {
		if trade.Action == Buy {
			a.Purchases = a.Purchases.Add(trade.Amount)
		} else {
			a.Proceeds = a.Proceeds.Add(trade.Amount)
		}
	}
	a.NetCash = a.Purchases.Sub(a.Proceeds)
	a.CashNeutral = a.NetCash.Abs().LessThan(cashNeutralTolerance())

	return a, nil
}

// Liquidations returns the trades exiting zero-target positions.
func (a *Analysis) Liquidations() []Trade {
	return a.filter(func(t Trade) bool { return t.Type == Liquidate })
}

// Sells returns the non-liquidation sell trades.
func (a *Analysis) Sells() []Trade {
	return a.filter(func(t Trade) bool { return t.Action == Sell && t.Type != Liquidate })
}

// Buys returns the buy trades.
func (a *Analysis) Buys() []Trade { return a.filter(func(t Trade) bool { return t.Action == Buy }) }

func (a *Analysis) filter(keep func(Trade) bool) []Trade {
	var trades []Trade
	for _, t := range a.Trades {
		if keep(t) {
			trades = append(trades, t)
		}
	}
	return trades
}
